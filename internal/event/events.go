package event

import "time"

// Topics
const (
	TopicDonationRecorded       = "donation_recorded"
	TopicVoteCast               = "vote_cast"
	TopicWithdrawalConfirmed    = "withdrawal_confirmed"
	TopicRefundRequired         = "custody_refund_required"
	TopicReconciliationRequired = "custody_reconciliation_required"
	TopicTransferNotifications  = "custody_transfer_notifications"
)

// 捐款来源
const (
	SourceTransfer = "transfer"
	SourceDirect   = "direct"
)

// DonationRecordedEvent 捐款入账事件
// Topic: donation_recorded
type DonationRecordedEvent struct {
	ID            string    `json:"id"`
	Donor         string    `json:"donor"`
	Asset         string    `json:"asset"`
	Amount        string    `json:"amount"` // Decimal string
	AmountRef     float64   `json:"amount_ref"`
	TargetKind    string    `json:"target_kind"`
	EventID       *string   `json:"event_id"`
	CampaignID    *string   `json:"campaign_id"`
	Source        string    `json:"source"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// VoteCastEvent 投票成功事件
// Topic: vote_cast
type VoteCastEvent struct {
	TargetKind string    `json:"target_kind"`
	TargetID   string    `json:"target_id"`
	Voter      string    `json:"voter"`
	Partner    string    `json:"partner"`
	Votes      uint64    `json:"votes"` // 投票后的票数
	At         time.Time `json:"at"`
}

// WithdrawalConfirmedEvent 出金确认事件
// Topic: withdrawal_confirmed
type WithdrawalConfirmedEvent struct {
	CorrelationID string `json:"correlation_id"`
	From          string `json:"from"`
	To            string `json:"to"`
	Asset         string `json:"asset"`
	Amount        string `json:"amount"`
}

// CustodyAlertEvent 需要人工处理的托管异常 (退款 / 对账)
// Topic: custody_refund_required, custody_reconciliation_required
type CustodyAlertEvent struct {
	CorrelationID string `json:"correlation_id"`
	Kind          string `json:"kind"`
	From          string `json:"from"`
	To            string `json:"to"`
	Asset         string `json:"asset"`
	Amount        string `json:"amount"`
	DonationID    string `json:"donation_id,omitempty"`
	Reason        string `json:"reason"`
}

// TransferNotificationMessage MQ 上的入账通知
// Topic: custody_transfer_notifications
type TransferNotificationMessage struct {
	TokenID  string `json:"token_id"`
	SenderID string `json:"sender_id"`
	Amount   string `json:"amount"`
	Msg      string `json:"msg"`
}
