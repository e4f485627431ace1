package request

type RegisterPartnerRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	Banner      string `json:"banner"`
}

type AddTokenRequest struct {
	Address  string `json:"address" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Symbol   string `json:"symbol" binding:"required"`
	Icon     string `json:"icon"`
	Decimals uint8  `json:"decimals" binding:"max=38"`
}
