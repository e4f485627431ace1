package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"donation-core/internal/handler/response"
	"donation-core/internal/service/catalog"
	"donation-core/internal/service/custody"
	"donation-core/internal/service/donation"
	"donation-core/internal/service/ledger"
	"donation-core/internal/service/voting"
	"donation-core/pkg/config"
	"donation-core/pkg/errno"
	"donation-core/pkg/validator"
)

// CallerHeader 调用方身份; 网关之后由上游认证层注入
const CallerHeader = "X-Account-ID"

// Services handler 依赖的全部业务服务
type Services struct {
	Gateway   *custody.Gateway
	Donations *donation.Service
	Ledger    *ledger.Service
	Voting    *voting.Service
	Targets   *catalog.TargetService
	Partners  *catalog.PartnerService
	Tokens    *catalog.TokenService
	Custody   config.CustodyConfig
}

type Handler struct {
	svc Services
}

func New(svc Services) *Handler {
	return &Handler{svc: svc}
}

func callerOf(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(CallerHeader))
}

// requireCaller 缺少身份时直接写错误响应
func requireCaller(c *gin.Context) (string, bool) {
	caller := callerOf(c)
	if caller == "" {
		response.Error(c, errno.ErrUnauthorized.WithMessage("missing "+CallerHeader+" header"))
		return "", false
	}
	return caller, true
}

func (h *Handler) requireOperator(c *gin.Context) (string, bool) {
	caller, ok := requireCaller(c)
	if !ok {
		return "", false
	}
	if !h.svc.Custody.IsOperator(caller) {
		response.Error(c, errno.ErrCallerNotOperator)
		return "", false
	}
	return caller, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return false
	}
	return true
}

// HealthCheck godoc
// @Summary Check system health
// @Description Get the current health status of the server
// @Tags system
// @Produce  json
// @Success 200 {object} response.Response
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "UP",
		"version": "1.0.0",
		"service": "donation-server",
	})
}
