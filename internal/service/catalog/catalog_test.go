package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donation-core/internal/model"
	"donation-core/internal/store/memstore"
	"donation-core/pkg/cache"
	"donation-core/pkg/config"
	"donation-core/pkg/errno"
)

var custodyCfg = config.CustodyConfig{SystemAccount: "donations.core", Operators: []string{"ops.near"}}

func TestTokenService(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	local := cache.NewMemoryCache(time.Minute, time.Minute)
	remote := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := NewTokenService(s, cache.NewMultiLevelCache(local, remote), time.Minute, custodyCfg)

	_, err := svc.AddToken(ctx, "alice", TokenInput{Address: "usdc.near", Name: "USD Coin", Symbol: "USDC", Decimals: 6})
	assert.ErrorIs(t, err, errno.ErrCallerNotOperator)

	_, err = svc.AddToken(ctx, "ops.near", TokenInput{Address: "native", Name: "x", Symbol: "x"})
	assert.True(t, errno.IsInvalidInput(err))

	tok, err := svc.AddToken(ctx, "ops.near", TokenInput{Address: "USDC.near", Name: "USD Coin", Symbol: "USDC", Decimals: 6})
	require.NoError(t, err)
	assert.Equal(t, "usdc.near", tok.Address)

	got, err := svc.GetToken(ctx, "usdc.near")
	require.NoError(t, err)
	assert.Equal(t, "USDC", got.Symbol)

	// 第二次读取命中缓存
	var cached model.Token
	require.NoError(t, local.Get(ctx, "token:usdc.near", &cached))
	assert.Equal(t, uint8(6), cached.Decimals)

	// 更新后缓存失效
	_, err = svc.AddToken(ctx, "donations.core", TokenInput{Address: "usdc.near", Name: "USD Coin", Symbol: "USDC.e", Decimals: 6})
	require.NoError(t, err)
	got, err = svc.GetToken(ctx, "usdc.near")
	require.NoError(t, err)
	assert.Equal(t, "USDC.e", got.Symbol)

	_, err = svc.GetToken(ctx, "dai.near")
	assert.ErrorIs(t, err, errno.ErrTokenNotFound)

	list, err := svc.ListTokens(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPartnerService(t *testing.T) {
	ctx := context.Background()
	svc := NewPartnerService(memstore.New())

	status, err := svc.Register(ctx, "alice", PartnerInput{ID: "RedCross", Name: "Red Cross"})
	require.NoError(t, err)
	assert.Equal(t, errno.StatusSuccess, status)

	status, err = svc.Register(ctx, "bob", PartnerInput{ID: "RedCross", Name: "Other"})
	assert.Equal(t, errno.StatusFailed, status)
	assert.True(t, errno.IsInvalidInput(err))

	status, _ = svc.Register(ctx, "bob", PartnerInput{ID: "null", Name: "x"})
	assert.Equal(t, errno.StatusFailed, status)
	status, _ = svc.Register(ctx, "bob", PartnerInput{ID: "ok", Name: ""})
	assert.Equal(t, errno.StatusFailed, status)

	p, err := svc.Get(ctx, "RedCross")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.CreatedBy)
	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, errno.ErrPartnerNotFound)

	mine, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, mine)
	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTargetService(t *testing.T) {
	ctx := context.Background()
	svc := NewTargetService(memstore.New())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c, err := svc.CreateCampaign(ctx, "ngo.near", CampaignInput{
		ID: "water-2024", Title: "Clean water", Cause: "water",
		StartDate: start, EndDate: start.AddDate(0, 6, 0), Target: "1000", Managers: []string{"ops.near", "ngo.near"},
	})
	require.NoError(t, err)
	assert.Equal(t, "native", c.Asset)
	assert.Equal(t, []string{"ngo.near", "ops.near"}, []string(c.Managers))

	_, err = svc.CreateCampaign(ctx, "ngo.near", CampaignInput{ID: "water-2024", Title: "again"})
	assert.True(t, errno.IsInvalidInput(err))

	_, err = svc.CreateCampaign(ctx, "ngo.near", CampaignInput{ID: "bad-dates", Title: "x", StartDate: start, EndDate: start.AddDate(0, 0, -1)})
	assert.True(t, errno.IsInvalidInput(err))

	_, err = svc.CreateCampaign(ctx, "ngo.near", CampaignInput{ID: "bad-target", Title: "x", Target: "1.5"})
	assert.ErrorIs(t, err, errno.ErrInvalidAmount)

	venue := "Town hall"
	ev, err := svc.CreateEvent(ctx, "ngo.near", EventInput{ID: "gala", Title: "Gala", Date: start, EventType: "Physical", Venue: &venue, Asset: "usdc.near"})
	require.NoError(t, err)
	assert.Equal(t, "physical", ev.EventType)
	assert.Equal(t, "usdc.near", ev.Asset)

	_, err = svc.CreateEvent(ctx, "ngo.near", EventInput{ID: "x", Title: "X", EventType: "hybrid"})
	assert.True(t, errno.IsInvalidInput(err))

	got, err := svc.GetCampaign(ctx, "water-2024")
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Target.String())
	_, err = svc.GetCampaign(ctx, "x")
	assert.ErrorIs(t, err, errno.ErrCampaignNotFound)
	_, err = svc.GetEvent(ctx, "nope")
	assert.ErrorIs(t, err, errno.ErrEventNotFound)

	campaigns, err := svc.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)
	events, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
