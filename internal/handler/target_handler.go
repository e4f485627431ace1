package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"donation-core/internal/handler/request"
	"donation-core/internal/handler/response"
	"donation-core/internal/model"
	"donation-core/internal/service/catalog"
	"donation-core/internal/service/custody"
	"donation-core/pkg/errno"
)

// CreateCampaign 创建 campaign，创建者即管理者
// @Summary Create a campaign
// @Tags Campaign
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "creator account"
// @Param request body request.CreateCampaignRequest true "campaign"
// @Success 200 {object} response.Response{data=model.Campaign}
// @Router /api/v1/campaigns [post]
func (h *Handler) CreateCampaign(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.CreateCampaignRequest
	if !bindJSON(c, &req) {
		return
	}
	campaign, err := h.svc.Targets.CreateCampaign(c.Request.Context(), caller, catalog.CampaignInput{
		ID:          req.ID,
		Title:       req.Title,
		Cause:       req.Cause,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Target:      req.Target,
		Asset:       req.Asset,
		Managers:    req.Managers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, campaign)
}

// GetCampaign
// @Summary Get a campaign
// @Tags Campaign
// @Produce json
// @Param id path string true "campaign id"
// @Success 200 {object} response.Response{data=model.Campaign}
// @Router /api/v1/campaigns/{id} [get]
func (h *Handler) GetCampaign(c *gin.Context) {
	campaign, err := h.svc.Targets.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, campaign)
}

// @Summary List campaigns
// @Tags Campaign
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/campaigns [get]
func (h *Handler) ListCampaigns(c *gin.Context) {
	list, err := h.svc.Targets.ListCampaigns(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": list, "count": len(list)})
}

// CreateEvent 创建 event
// @Summary Create an event
// @Tags Event
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "creator account"
// @Param request body request.CreateEventRequest true "event"
// @Success 200 {object} response.Response{data=model.Event}
// @Router /api/v1/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.svc.Targets.CreateEvent(c.Request.Context(), caller, catalog.EventInput{
		ID:          req.ID,
		Title:       req.Title,
		Cause:       req.Cause,
		Description: req.Description,
		Date:        req.Date,
		Target:      req.Target,
		Asset:       req.Asset,
		Venue:       req.Venue,
		EventType:   req.EventType,
		Channel:     req.Channel,
		ChannelURL:  req.ChannelURL,
		Managers:    req.Managers,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ev)
}

// @Summary Get an event
// @Tags Event
// @Produce json
// @Param id path string true "event id"
// @Success 200 {object} response.Response{data=model.Event}
// @Router /api/v1/events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	ev, err := h.svc.Targets.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ev)
}

// @Summary List events
// @Tags Event
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	list, err := h.svc.Targets.ListEvents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": list, "count": len(list)})
}

// DonateURI 二维码里的捐款链接: 收款账户 + 预先生成的 memo
func DonateURI(base, receiver string, t model.Target) string {
	id := t.ID
	intent := custody.DonationIntent{DonationID: uuid.NewString(), TargetKind: t.Kind}
	if t.Kind == model.TargetCampaign {
		intent.CampaignID = &id
	} else {
		intent.EventID = &id
	}
	q := url.Values{}
	q.Set("receiver", receiver)
	q.Set("memo", custody.FormatMemo(intent))
	return fmt.Sprintf("%s?%s", base, q.Encode())
}

// TargetQRCode 返回 PNG 二维码
// @Summary Donation QR code
// @Description PNG QR code of a donation link whose memo attributes the transfer to this campaign or event
// @Tags Campaign
// @Produce png
// @Param id path string true "campaign or event id"
// @Router /api/v1/campaigns/{id}/qrcode [get]
// @Router /api/v1/events/{id}/qrcode [get]
func (h *Handler) TargetQRCode(kind model.TargetKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := model.Target{Kind: kind, ID: c.Param("id")}
		if _, ok := h.ensureTarget(c, t); !ok {
			return
		}
		base := h.svc.Custody.DonateBaseURL
		if base == "" {
			base = "donate://transfer"
		}
		png, err := qrcode.Encode(DonateURI(base, h.svc.Custody.SystemAccount, t), qrcode.Medium, 256)
		if err != nil {
			response.Error(c, errno.InternalServerError.WithMessage(err.Error()))
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}

// ensureTarget 目标不存在时直接写错误响应
func (h *Handler) ensureTarget(c *gin.Context, t model.Target) (model.Target, bool) {
	var err error
	if t.Kind == model.TargetCampaign {
		_, err = h.svc.Targets.GetCampaign(c.Request.Context(), t.ID)
	} else {
		_, err = h.svc.Targets.GetEvent(c.Request.Context(), t.ID)
	}
	if err != nil {
		response.Error(c, err)
		return t, false
	}
	return t, true
}
