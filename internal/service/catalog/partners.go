package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

func validID(id string) bool {
	return id != model.NullSentinel && idPattern.MatchString(id)
}

type PartnerService struct {
	store store.Store
}

func NewPartnerService(s store.Store) *PartnerService {
	return &PartnerService{store: s}
}

type PartnerInput struct {
	ID          string
	Name        string
	Description string
	Website     string
	Logo        string
	Banner      string
}

// Register 登记合作伙伴，返回 "success" / "failed"
func (s *PartnerService) Register(ctx context.Context, caller string, in PartnerInput) (errno.Status, error) {
	id := strings.TrimSpace(in.ID)
	if !validID(id) {
		return errno.StatusFailed, errno.ErrInvalidInput.WithMessage("invalid partner id")
	}
	if strings.TrimSpace(caller) == "" {
		return errno.StatusFailed, errno.ErrUnauthorized.WithMessage("caller identity is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errno.StatusFailed, errno.ErrInvalidInput.WithMessage("partner name is required")
	}

	p := &model.Partner{
		ID:          id,
		CreatedBy:   caller,
		Name:        name,
		Description: in.Description,
		Website:     in.Website,
		Logo:        in.Logo,
		Banner:      in.Banner,
	}
	if err := s.store.CreatePartner(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return errno.StatusFailed, fmt.Errorf("%w: partner %s", errno.ErrDuplicate, id)
		}
		return errno.StatusFailed, err
	}
	logger.Info("partner registered", zap.String("id", id), zap.String("by", caller))
	return errno.StatusSuccess, nil
}

func (s *PartnerService) Get(ctx context.Context, id string) (*model.Partner, error) {
	p, err := s.store.GetPartner(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", errno.ErrPartnerNotFound, id)
	}
	return p, err
}

// List createdBy 为空时返回全部
func (s *PartnerService) List(ctx context.Context, createdBy string) ([]model.Partner, error) {
	list, err := s.store.ListPartners(ctx, createdBy)
	if list == nil {
		list = []model.Partner{}
	}
	return list, err
}
