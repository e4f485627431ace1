package routes

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler"
	"donation-core/internal/model"
)

func RegisterTargetRoutes(rg *gin.RouterGroup, h *handler.Handler) {
	campaigns := rg.Group("/campaigns")
	{
		campaigns.POST("", h.CreateCampaign)
		campaigns.GET("", h.ListCampaigns)
		campaigns.GET("/:id", h.GetCampaign)
		campaigns.GET("/:id/donations", h.CampaignDonations)
		registerVoting(campaigns, h, model.TargetCampaign)
	}

	events := rg.Group("/events")
	{
		events.POST("", h.CreateEvent)
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/donations", h.EventDonations)
		registerVoting(events, h, model.TargetEvent)
	}
}

// campaign 和 event 的投票路由完全对称
func registerVoting(g *gin.RouterGroup, h *handler.Handler, kind model.TargetKind) {
	g.POST("/:id/candidates", h.RegisterCandidate(kind))
	g.GET("/:id/tallies", h.Tallies(kind))
	g.GET("/:id/voters", h.Voters(kind))
	g.POST("/:id/votes", h.CastVote(kind))
	g.GET("/:id/qrcode", h.TargetQRCode(kind))
}
