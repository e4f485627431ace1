package routes

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler"
)

func RegisterCustodyRoutes(rg *gin.RouterGroup, h *handler.Handler) {
	custody := rg.Group("/custody")
	{
		custody.POST("/transfers", h.ReceiveTransfer)
		custody.POST("/withdrawals", h.InitiateWithdrawal)
		custody.GET("/pending", h.PendingOperations)
	}
}

func RegisterDonationRoutes(rg *gin.RouterGroup, h *handler.Handler) {
	rg.POST("/donations", h.CreateDonation)
	rg.GET("/donations", h.ListDonations)
}
