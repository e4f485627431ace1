package handler

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler/request"
	"donation-core/internal/handler/response"
	"donation-core/internal/model"
	"donation-core/pkg/errno"
)

// RegisterCandidate 登记候选合作伙伴 (管理者)
// @Summary Register a candidate partner
// @Tags Voting
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "manager account"
// @Param id path string true "campaign or event id"
// @Param request body request.RegisterCandidateRequest true "candidate"
// @Success 200 {object} response.Response
// @Router /api/v1/campaigns/{id}/candidates [post]
// @Router /api/v1/events/{id}/candidates [post]
func (h *Handler) RegisterCandidate(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := requireCaller(c)
		if !ok {
			return
		}
		var req request.RegisterCandidateRequest
		if !bindJSON(c, &req) {
			return
		}
		t := model.Target{Kind: kind, ID: c.Param("id")}
		ctx := c.Request.Context()

		managers, err := h.managersOf(c, t)
		if err != nil {
			response.Error(c, err)
			return
		}
		if !contains(managers, caller) && !h.svc.Custody.IsOperator(caller) {
			response.Error(c, errno.ErrUnauthorized.WithMessage("caller does not manage "+t.String()))
			return
		}
		if _, err := h.svc.Partners.Get(ctx, req.PartnerID); err != nil {
			response.Error(c, err)
			return
		}
		if err := h.svc.Voting.RegisterCandidate(ctx, t, req.PartnerID); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"target": t.String(), "partner_id": req.PartnerID})
	}
}

func (h *Handler) managersOf(c *gin.Context, t model.Target) ([]string, error) {
	if t.Kind == model.TargetCampaign {
		campaign, err := h.svc.Targets.GetCampaign(c.Request.Context(), t.ID)
		if err != nil {
			return nil, err
		}
		return campaign.Managers, nil
	}
	ev, err := h.svc.Targets.GetEvent(c.Request.Context(), t.ID)
	if err != nil {
		return nil, err
	}
	return ev.Managers, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CastVote 投票; 结果只用状态字符串表达
// @Summary Cast a vote
// @Description status is one of done, voter not found, not found, unknown partner
// @Tags Voting
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "voter account"
// @Param id path string true "campaign or event id"
// @Param request body request.CastVoteRequest true "vote"
// @Success 200 {object} response.Response
// @Router /api/v1/campaigns/{id}/votes [post]
// @Router /api/v1/events/{id}/votes [post]
func (h *Handler) CastVote(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		voter, ok := requireCaller(c)
		if !ok {
			return
		}
		var req request.CastVoteRequest
		if !bindJSON(c, &req) {
			return
		}
		status, err := h.svc.Voting.CastVote(c.Request.Context(), model.Target{Kind: kind, ID: c.Param("id")}, voter, req.PartnerID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Status(c, status, nil)
	}
}

// Tallies 候选得票
// @Summary Candidate tallies
// @Tags Voting
// @Produce json
// @Param id path string true "campaign or event id"
// @Success 200 {object} response.Response
// @Router /api/v1/campaigns/{id}/tallies [get]
// @Router /api/v1/events/{id}/tallies [get]
func (h *Handler) Tallies(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := h.ensureTarget(c, model.Target{Kind: kind, ID: c.Param("id")})
		if !ok {
			return
		}
		tallies, err := h.svc.Voting.Tallies(c.Request.Context(), t)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"results": tallies, "count": len(tallies)})
	}
}

// Voters 仍持有投票资格的地址
// @Summary Addresses holding a voting credit
// @Tags Voting
// @Produce json
// @Param id path string true "campaign or event id"
// @Success 200 {object} response.Response
// @Router /api/v1/campaigns/{id}/voters [get]
// @Router /api/v1/events/{id}/voters [get]
func (h *Handler) Voters(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := h.ensureTarget(c, model.Target{Kind: kind, ID: c.Param("id")})
		if !ok {
			return
		}
		voters, err := h.svc.Voting.Voters(c.Request.Context(), t)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"results": voters, "count": len(voters)})
	}
}
