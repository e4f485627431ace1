package request

type CreateDonationRequest struct {
	ID         string  `json:"id" binding:"required"`
	Donor      string  `json:"donor" binding:"required"`
	Asset      string  `json:"asset" binding:"required"`
	Amount     string  `json:"amount" binding:"required,u128"`
	AmountRef  float64 `json:"amount_ref" binding:"min=0"`
	TargetKind string  `json:"target_kind" binding:"required,target_kind"`
	EventID    string  `json:"event_id"`
	CampaignID string  `json:"campaign_id"`
}

// PageQuery 页码从 1 开始; limit=0 只返回总数
type PageQuery struct {
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=20" binding:"min=0,max=500"`
	Donor string `form:"donor"`
}
