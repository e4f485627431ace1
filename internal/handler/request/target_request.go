package request

import "time"

type CreateCampaignRequest struct {
	ID          string    `json:"id" binding:"required,max=128"`
	Title       string    `json:"title" binding:"required,max=255"`
	Cause       string    `json:"cause"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Target      string    `json:"target"`
	Asset       string    `json:"asset"`
	Managers    []string  `json:"managers"`
}

type CreateEventRequest struct {
	ID          string    `json:"id" binding:"required,max=128"`
	Title       string    `json:"title" binding:"required,max=255"`
	Cause       string    `json:"cause"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Target      string    `json:"target"`
	Asset       string    `json:"asset"`
	Venue       *string   `json:"venue"`
	EventType   string    `json:"event_type" binding:"omitempty,oneof=online physical"`
	Channel     *string   `json:"channel"`
	ChannelURL  *string   `json:"channel_url"`
	Managers    []string  `json:"managers"`
}

type RegisterCandidateRequest struct {
	PartnerID string `json:"partner_id" binding:"required"`
}

type CastVoteRequest struct {
	PartnerID string `json:"partner_id" binding:"required"`
}
