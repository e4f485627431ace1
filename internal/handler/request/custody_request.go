package request

// TransferNotificationRequest 代币合约转入通知; 代币身份来自 X-Account-ID
type TransferNotificationRequest struct {
	SenderID string `json:"sender_id" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Msg      string `json:"msg"`
}

type WithdrawalRequest struct {
	From          string `json:"from" binding:"required"`
	To            string `json:"to" binding:"required"`
	Asset         string `json:"asset" binding:"required"`
	Amount        string `json:"amount" binding:"required,u128"`
	CorrelationID string `json:"correlation_id"`
}
