package donation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/service/attribution"
	"donation-core/internal/service/ledger"
	"donation-core/internal/service/voting"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/errno"
)

func newService(t *testing.T) (*memstore.Store, *Service) {
	s := memstore.New()
	require.NoError(t, s.CreateCampaign(context.Background(), &model.Campaign{ID: "water-2024", CreatedBy: "ngo", Title: "Water", Asset: "native"}))
	rec := NewRecorder(ledger.NewService(s), attribution.NewEngine(voting.NewService(s)))
	return s, NewService(s, rec)
}

func TestCreate_Campaign(t *testing.T) {
	s, svc := newService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateInput{
		ID: "don1", Donor: "alice", Asset: "native", Amount: "1000000000000000000000000",
		AmountRef: 9.98, TargetKind: "campaign", EventID: "null", CampaignID: "water-2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "water-2024", *d.CampaignID)
	assert.Nil(t, d.EventID)

	has, err := s.HasCredit(ctx, model.CampaignTarget("water-2024"), "alice")
	require.NoError(t, err)
	assert.True(t, has)

	msgs, err := s.PendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, event.TopicDonationRecorded, msgs[0].Topic)
	assert.Equal(t, "don1", msgs[0].Key)
}

func TestCreate_MissingTargetIsAtomic(t *testing.T) {
	s, svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		ID: "don1", Donor: "alice", Asset: "native", Amount: "5",
		TargetKind: "event", EventID: "gala", CampaignID: "null",
	})
	assert.ErrorIs(t, err, errno.ErrEventNotFound)

	ok, err := s.HasDonation(ctx, "don1")
	require.NoError(t, err)
	assert.False(t, ok, "ledger append rolled back with failed attribution")
	msgs, _ := s.PendingOutbox(ctx, 10)
	assert.Empty(t, msgs)
}

func TestCreate_Validation(t *testing.T) {
	_, svc := newService(t)
	ctx := context.Background()
	base := CreateInput{ID: "d", Donor: "alice", Asset: "native", Amount: "5", TargetKind: "general", EventID: "null", CampaignID: "null"}

	cases := map[string]func(in *CreateInput){
		"empty id":       func(in *CreateInput) { in.ID = "" },
		"null id":        func(in *CreateInput) { in.ID = "null" },
		"no donor":       func(in *CreateInput) { in.Donor = " " },
		"bad asset":      func(in *CreateInput) { in.Asset = "0x12" },
		"zero amount":    func(in *CreateInput) { in.Amount = "0" },
		"float amount":   func(in *CreateInput) { in.Amount = "1.5" },
		"negative ref":   func(in *CreateInput) { in.AmountRef = -1 },
		"bad kind":       func(in *CreateInput) { in.TargetKind = "course" },
		"upper kind":     func(in *CreateInput) { in.TargetKind = "CAMPAIGN"; in.CampaignID = "water-2024" },
		"general has id": func(in *CreateInput) { in.CampaignID = "water-2024" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.True(t, errno.IsInvalidInput(err), "got %v", err)
		})
	}

	_, err := svc.Create(ctx, base)
	require.NoError(t, err)
	_, err = svc.Create(ctx, base)
	assert.ErrorIs(t, err, errno.ErrDuplicateDonation)
}
