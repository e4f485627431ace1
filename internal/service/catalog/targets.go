package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/amount"
	"donation-core/pkg/asset"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

// TargetService campaign / event 的创建与查询
type TargetService struct {
	store store.Store
}

func NewTargetService(s store.Store) *TargetService {
	return &TargetService{store: s}
}

type CampaignInput struct {
	ID          string
	Title       string
	Cause       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Target      string // u128
	Asset       string
	Managers    []string
}

type EventInput struct {
	ID          string
	Title       string
	Cause       string
	Description string
	Date        time.Time
	Target      string
	Asset       string
	Venue       *string
	EventType   string
	Channel     *string
	ChannelURL  *string
	Managers    []string
}

type common struct {
	id       string
	target   decimal.Decimal
	asset    string
	managers []string
}

func validateCommon(caller, id, title, target, assetID string, managers []string) (common, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return common{}, errno.ErrInvalidInput.WithMessage("invalid id")
	}
	if strings.TrimSpace(caller) == "" {
		return common{}, errno.ErrUnauthorized.WithMessage("caller identity is required")
	}
	if strings.TrimSpace(title) == "" {
		return common{}, errno.ErrInvalidInput.WithMessage("title is required")
	}
	goal := decimal.Zero
	if target != "" {
		var err error
		if goal, err = amount.ParseU128(target); err != nil {
			return common{}, fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err)
		}
	}
	if assetID == "" {
		assetID = asset.Native
	}
	normalized, err := asset.Normalize(assetID)
	if err != nil {
		return common{}, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}

	// 创建者总是管理者之一
	seen := map[string]bool{caller: true}
	list := []string{caller}
	for _, m := range managers {
		m = strings.TrimSpace(m)
		if m != "" && !seen[m] {
			seen[m] = true
			list = append(list, m)
		}
	}
	return common{id: id, target: goal, asset: normalized, managers: list}, nil
}

func (s *TargetService) CreateCampaign(ctx context.Context, caller string, in CampaignInput) (*model.Campaign, error) {
	c, err := validateCommon(caller, in.ID, in.Title, in.Target, in.Asset, in.Managers)
	if err != nil {
		return nil, err
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		return nil, errno.ErrInvalidInput.WithMessage("end date is before start date")
	}

	campaign := &model.Campaign{
		ID:          c.id,
		CreatedBy:   caller,
		Managers:    c.managers,
		Title:       strings.TrimSpace(in.Title),
		Cause:       strings.TrimSpace(in.Cause),
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Description: in.Description,
		Target:      c.target,
		Asset:       c.asset,
		TotalRaised: decimal.Zero,
	}
	if err := s.store.CreateCampaign(ctx, campaign); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: campaign %s", errno.ErrDuplicate, c.id)
		}
		return nil, err
	}
	logger.Info("campaign created", zap.String("id", c.id), zap.String("by", caller))
	return campaign, nil
}

func (s *TargetService) CreateEvent(ctx context.Context, caller string, in EventInput) (*model.Event, error) {
	c, err := validateCommon(caller, in.ID, in.Title, in.Target, in.Asset, in.Managers)
	if err != nil {
		return nil, err
	}
	eventType := strings.ToLower(strings.TrimSpace(in.EventType))
	switch eventType {
	case "", "online", "physical":
	default:
		return nil, errno.ErrInvalidInput.WithMessage("event type must be online or physical")
	}

	ev := &model.Event{
		ID:          c.id,
		CreatedBy:   caller,
		Managers:    c.managers,
		Title:       strings.TrimSpace(in.Title),
		Cause:       strings.TrimSpace(in.Cause),
		Date:        in.Date.UTC(),
		Description: in.Description,
		Target:      c.target,
		Asset:       c.asset,
		Venue:       in.Venue,
		EventType:   eventType,
		Channel:     in.Channel,
		ChannelURL:  in.ChannelURL,
		TotalRaised: decimal.Zero,
	}
	if err := s.store.CreateEvent(ctx, ev); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: event %s", errno.ErrDuplicate, c.id)
		}
		return nil, err
	}
	logger.Info("event created", zap.String("id", c.id), zap.String("by", caller))
	return ev, nil
}

func (s *TargetService) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := s.store.GetCampaign(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", errno.ErrCampaignNotFound, id)
	}
	return c, err
}

func (s *TargetService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	e, err := s.store.GetEvent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", errno.ErrEventNotFound, id)
	}
	return e, err
}

func (s *TargetService) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	list, err := s.store.ListCampaigns(ctx)
	if list == nil {
		list = []model.Campaign{}
	}
	return list, err
}

func (s *TargetService) ListEvents(ctx context.Context) ([]model.Event, error) {
	list, err := s.store.ListEvents(ctx)
	if list == nil {
		list = []model.Event{}
	}
	return list, err
}
