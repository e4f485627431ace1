package routes

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler"
)

func RegisterCatalogRoutes(rg *gin.RouterGroup, h *handler.Handler) {
	partners := rg.Group("/partners")
	{
		partners.POST("", h.RegisterPartner)
		partners.GET("", h.ListPartners)
		partners.GET("/:id", h.GetPartner)
	}
	rg.GET("/accounts/:id/partners", h.AccountPartners)

	tokens := rg.Group("/tokens")
	{
		tokens.POST("", h.AddToken)
		tokens.GET("", h.ListTokens)
		tokens.GET("/:address", h.GetToken)
	}
}
