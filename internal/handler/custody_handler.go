package handler

import (
	"github.com/gin-gonic/gin"

	"donation-core/internal/handler/request"
	"donation-core/internal/handler/response"
)

// ReceiveTransfer 代币转入通知
// @Summary Token transfer notification
// @Description Called by a token contract after tokens were transferred to the custody account. The memo describes the donation.
// @Tags Custody
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "token identity"
// @Param request body request.TransferNotificationRequest true "notification"
// @Success 200 {object} response.Response{data=custody.Receipt}
// @Router /api/v1/custody/transfers [post]
func (h *Handler) ReceiveTransfer(c *gin.Context) {
	token, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.TransferNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.svc.Gateway.ReceiveTransferNotification(c.Request.Context(), token, req.SenderID, req.Amount, req.Msg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, receipt)
}

// InitiateWithdrawal 发起出金 (运营权限)
// @Summary Initiate outbound transfer
// @Tags Custody
// @Accept json
// @Produce json
// @Param X-Account-ID header string true "operator account"
// @Param request body request.WithdrawalRequest true "withdrawal"
// @Success 200 {object} response.Response{data=custody.Receipt}
// @Router /api/v1/custody/withdrawals [post]
func (h *Handler) InitiateWithdrawal(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}
	var req request.WithdrawalRequest
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.svc.Gateway.InitiateOutboundTransfer(c.Request.Context(), caller, req.From, req.To, req.Asset, req.Amount, req.CorrelationID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, receipt)
}

// PendingOperations 在途托管操作 (运营权限)
// @Summary List pending custody operations
// @Tags Custody
// @Produce json
// @Param X-Account-ID header string true "operator account"
// @Success 200 {object} response.Response
// @Router /api/v1/custody/pending [get]
func (h *Handler) PendingOperations(c *gin.Context) {
	if _, ok := h.requireOperator(c); !ok {
		return
	}
	ops, err := h.svc.Gateway.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"results": ops, "count": len(ops)})
}
