// Package catalog 代币、合作伙伴、活动的登记与查询
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/asset"
	"donation-core/pkg/cache"
	"donation-core/pkg/config"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
)

const tokenCachePrefix = "token:"

// TokenService 代币元数据; 读路径走多级缓存 (通知入口每次都要查)
type TokenService struct {
	store store.Store
	cache cache.Cache
	ttl   time.Duration
	cfg   config.CustodyConfig
}

func NewTokenService(s store.Store, c cache.Cache, ttl time.Duration, cfg config.CustodyConfig) *TokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenService{store: s, cache: c, ttl: ttl, cfg: cfg}
}

type TokenInput struct {
	Address  string
	Name     string
	Symbol   string
	Icon     string
	Decimals uint8
}

// AddToken 登记或更新代币 (运营权限)
func (s *TokenService) AddToken(ctx context.Context, caller string, in TokenInput) (*model.Token, error) {
	if !s.cfg.IsOperator(caller) {
		return nil, errno.ErrCallerNotOperator
	}
	addr, err := asset.Normalize(in.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	if asset.IsNative(addr) {
		return nil, errno.ErrInvalidInput.WithMessage("native asset cannot be registered as a token")
	}
	if strings.TrimSpace(in.Symbol) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, errno.ErrInvalidInput.WithMessage("token name and symbol are required")
	}
	if in.Decimals > 38 {
		return nil, errno.ErrInvalidInput.WithMessage("decimals must be <= 38")
	}

	t := &model.Token{
		Address:  addr,
		Name:     strings.TrimSpace(in.Name),
		Symbol:   strings.TrimSpace(in.Symbol),
		Icon:     in.Icon,
		Decimals: in.Decimals,
	}
	if err := s.store.PutToken(ctx, t); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, tokenCachePrefix+addr)
	}
	logger.Info("token registered", zap.String("address", addr), zap.String("symbol", t.Symbol))
	return t, nil
}

// GetToken Cache-Aside: 先查缓存，未命中回源后写缓存
func (s *TokenService) GetToken(ctx context.Context, address string) (*model.Token, error) {
	addr, err := asset.Normalize(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	key := tokenCachePrefix + addr

	if s.cache != nil {
		var cached model.Token
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	t, err := s.store.GetToken(ctx, addr)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", errno.ErrTokenNotFound, addr)
		}
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, t, s.ttl); err != nil {
			logger.Warn("token cache set failed", zap.String("address", addr), zap.Error(err))
		}
	}
	return t, nil
}

func (s *TokenService) ListTokens(ctx context.Context) ([]model.Token, error) {
	list, err := s.store.ListTokens(ctx)
	if list == nil {
		list = []model.Token{}
	}
	return list, err
}
