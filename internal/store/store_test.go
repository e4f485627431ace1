package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"donation-core/internal/model"
)

func sp(s string) *string { return &s }

func TestDonationFilter_Match(t *testing.T) {
	general := &model.Donation{Donor: "alice", TargetKind: model.TargetGeneral}
	water := &model.Donation{Donor: "bob", TargetKind: model.TargetCampaign, CampaignID: sp("water-2024")}
	gala := &model.Donation{Donor: "alice", TargetKind: model.TargetEvent, EventID: sp("gala")}

	assert.True(t, DonationFilter{}.Match(general))
	assert.True(t, DonationFilter{Donor: "alice"}.Match(gala))
	assert.False(t, DonationFilter{Donor: "alice"}.Match(water))
	assert.True(t, DonationFilter{Kind: model.TargetCampaign, TargetID: "water-2024"}.Match(water))
	assert.False(t, DonationFilter{Kind: model.TargetCampaign, TargetID: "trees"}.Match(water))
	assert.False(t, DonationFilter{Kind: model.TargetEvent, TargetID: "gala"}.Match(water))
	assert.True(t, DonationFilter{Kind: model.TargetGeneral}.Match(general))
	assert.False(t, DonationFilter{Kind: model.TargetGeneral}.Match(gala))
}
