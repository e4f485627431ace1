package handler

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler/request"
	"donation-core/internal/handler/response"
	"donation-core/internal/service/catalog"
)

// RegisterPartner 登记合作伙伴
// @Summary Register a partner
// @Description status is success or failed
// @Tags Partner
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "registering account"
// @Param request body request.RegisterPartnerRequest true "partner"
// @Success 200 {object} response.Response
// @Router /api/v1/partners [post]
func (h *Handler) RegisterPartner(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.RegisterPartnerRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := h.svc.Partners.Register(c.Request.Context(), caller, catalog.PartnerInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Logo:        req.Logo,
		Banner:      req.Banner,
	})
	response.Status(c, status, err)
}

// @Summary Get a partner
// @Tags Partner
// @Produce json
// @Param id path string true "partner id"
// @Success 200 {object} response.Response{data=model.Partner}
// @Router /api/v1/partners/{id} [get]
func (h *Handler) GetPartner(c *gin.Context) {
	p, err := h.svc.Partners.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// @Summary List partners
// @Tags Partner
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/partners [get]
func (h *Handler) ListPartners(c *gin.Context) {
	h.listPartners(c, "")
}

// AccountPartners 某个账户登记的合作伙伴
// @Summary List partners registered by an account
// @Tags Partner
// @Produce json
// @Param id path string true "account id"
// @Success 200 {object} response.Response
// @Router /api/v1/accounts/{id}/partners [get]
func (h *Handler) AccountPartners(c *gin.Context) {
	h.listPartners(c, c.Param("id"))
}

func (h *Handler) listPartners(c *gin.Context, createdBy string) {
	list, err := h.svc.Partners.List(c.Request.Context(), createdBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": list, "count": len(list)})
}

// AddToken 登记代币 (运营权限)
// @Summary Register token metadata
// @Tags Token
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "operator account"
// @Param request body request.AddTokenRequest true "token"
// @Success 200 {object} response.Response{data=model.Token}
// @Router /api/v1/tokens [post]
func (h *Handler) AddToken(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.AddTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	tok, err := h.svc.Tokens.AddToken(c.Request.Context(), caller, catalog.TokenInput{
		Address:  req.Address,
		Name:     req.Name,
		Symbol:   req.Symbol,
		Icon:     req.Icon,
		Decimals: req.Decimals,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tok)
}

// @Summary Get token metadata
// @Tags Token
// @Produce json
// @Param address path string true "token address"
// @Success 200 {object} response.Response{data=model.Token}
// @Router /api/v1/tokens/{address} [get]
func (h *Handler) GetToken(c *gin.Context) {
	tok, err := h.svc.Tokens.GetToken(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tok)
}

// @Summary List tokens
// @Tags Token
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/tokens [get]
func (h *Handler) ListTokens(c *gin.Context) {
	list, err := h.svc.Tokens.ListTokens(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": list, "count": len(list)})
}
