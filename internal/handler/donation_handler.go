package handler

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler/request"
	"donation-core/internal/handler/response"
	"donation-core/internal/service/donation"
	"donation-core/internal/service/ledger"
	"donation-core/pkg/errno"
	"donation-core/pkg/validator"
)

// CreateDonation 显式录入捐款 (运营权限)
// @Summary Record a donation directly
// @Tags Donation
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "operator account"
// @Param request body request.CreateDonationRequest true "donation"
// @Success 200 {object} response.Response{data=model.Donation}
// @Router /api/v1/donations [post]
func (h *Handler) CreateDonation(c *gin.Context) {
	if _, ok := h.requireOperator(c); !ok {
		return
	}
	var req request.CreateDonationRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.Donations.Create(c.Request.Context(), donation.CreateInput{
		ID:         req.ID,
		Donor:      req.Donor,
		Asset:      req.Asset,
		Amount:     req.Amount,
		AmountRef:  req.AmountRef,
		TargetKind: req.TargetKind,
		EventID:    req.EventID,
		CampaignID: req.CampaignID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

func bindPage(c *gin.Context) (request.PageQuery, bool) {
	var q request.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, errno.ErrInvalidInput.WithMessage(validator.GetErrorMsg(err)))
		return q, false
	}
	return q, true
}

func writePage(c *gin.Context, page *ledger.Page, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListDonations 捐款历史
// @Summary List donations
// @Description Full history, or one donor's donations when donor is set
// @Tags Donation
// @Produce json
// @Param page query int false "page, starting at 1"
// @Param limit query int false "page size, 0 returns only the count"
// @Param donor query string false "donor account"
// @Success 200 {object} response.Response{data=ledger.Page}
// @Router /api/v1/donations [get]
func (h *Handler) ListDonations(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if q.Donor != "" {
		page, err := h.svc.Ledger.ByDonor(ctx, q.Donor, q.Page, q.Limit)
		writePage(c, page, err)
		return
	}
	page, err := h.svc.Ledger.All(ctx, q.Page, q.Limit)
	writePage(c, page, err)
}

// CampaignDonations 某个 campaign 的捐款
// @Summary List donations of a campaign
// @Tags Donation
// @Produce json
// @Param id path string true "campaign id"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} response.Response{data=ledger.Page}
// @Router /api/v1/campaigns/{id}/donations [get]
func (h *Handler) CampaignDonations(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.svc.Ledger.ByCampaign(c.Request.Context(), c.Param("id"), q.Page, q.Limit)
	writePage(c, page, err)
}

// EventDonations 某个 event 的捐款
// @Summary List donations of an event
// @Tags Donation
// @Produce json
// @Param id path string true "event id"
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} response.Response{data=ledger.Page}
// @Router /api/v1/events/{id}/donations [get]
func (h *Handler) EventDonations(c *gin.Context) {
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.svc.Ledger.ByEvent(c.Request.Context(), c.Param("id"), q.Page, q.Limit)
	writePage(c, page, err)
}
