// Package custody 代币托管网关与确认回调对账。
// 入账通知先解码为捐款意图，经 Reconciler 挂起；只有 Confirmed 的回调才会写账本。
package custody

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/amount"
	"donation-core/pkg/asset"
	"donation-core/pkg/config"
	"donation-core/pkg/crypto_util"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
	"donation-core/pkg/monitor"
)

// TokenResolver 查询已登记的代币 (catalog.TokenService 带缓存实现)
type TokenResolver interface {
	GetToken(ctx context.Context, address string) (*model.Token, error)
}

// Receipt 入账/出金受理回执; Refund 对应 ft_on_transfer 返回的未使用金额
type Receipt struct {
	CorrelationID string `json:"correlation_id"`
	Refund        string `json:"refund"`
	Fingerprint   string `json:"fingerprint,omitempty"`
}

type Gateway struct {
	store      store.Store
	tokens     TokenResolver
	reconciler *Reconciler
	cfg        config.CustodyConfig
	newID      func() string
	log        *zap.Logger
}

func NewGateway(s store.Store, tokens TokenResolver, r *Reconciler, cfg config.CustodyConfig) *Gateway {
	if cfg.NativeAsset == "" {
		cfg.NativeAsset = asset.Native
	}
	return &Gateway{
		store:      s,
		tokens:     tokens,
		reconciler: r,
		cfg:        cfg,
		newID:      uuid.NewString,
		log:        logger.Named("gateway"),
	}
}

func (g *Gateway) reject(reason string, err error) error {
	monitor.RecordRejectedNotification(reason)
	g.log.Info("transfer notification rejected", zap.String("reason", reason), zap.Error(err))
	return err
}

// ReceiveTransferNotification 处理 "外部转账已到账" 通知。
// token 是发出通知的资产身份。所有校验都在任何状态变更之前完成。
func (g *Gateway) ReceiveTransferNotification(ctx context.Context, token, sender, amountStr, memo string) (*Receipt, error) {
	tokenID, err := asset.Normalize(token)
	if err != nil {
		return nil, g.reject("token", fmt.Errorf("%w: %v", errno.ErrInvalidInput, err))
	}
	sender = strings.TrimSpace(sender)
	if sender == "" {
		return nil, g.reject("sender", errno.ErrInvalidInput.WithMessage("sender is required"))
	}
	amt, err := amount.ParseU128(amountStr)
	if err != nil {
		return nil, g.reject("amount", fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err))
	}
	if amt.IsZero() {
		return nil, g.reject("amount", errno.ErrInvalidAmount.WithMessage("amount must be greater than zero"))
	}
	intent, err := ParseMemo(memo)
	if err != nil {
		return nil, g.reject("memo", err)
	}

	if tokenID != g.cfg.NativeAsset {
		if _, err := g.tokens.GetToken(ctx, tokenID); err != nil {
			if errno.IsNotFound(err) || errors.Is(err, store.ErrNotFound) {
				return nil, g.reject("token", fmt.Errorf("%w: %s", errno.ErrTokenNotFound, tokenID))
			}
			return nil, err
		}
	}

	if target, ok := intent.Target(); ok {
		exists, err := g.store.TargetExists(ctx, target)
		if err != nil {
			return nil, err
		}
		if !exists {
			if target.Kind == model.TargetEvent {
				return nil, g.reject("target", fmt.Errorf("%w: %s", errno.ErrEventNotFound, target.ID))
			}
			return nil, g.reject("target", fmt.Errorf("%w: %s", errno.ErrCampaignNotFound, target.ID))
		}
	}

	recorded, err := g.store.HasDonation(ctx, intent.DonationID)
	if err != nil {
		return nil, err
	}
	if recorded {
		return nil, g.reject("duplicate", fmt.Errorf("%w: %s", errno.ErrDuplicateDonation, intent.DonationID))
	}

	op := &PendingOperation{
		CorrelationID: g.newID(),
		Kind:          KindDeposit,
		From:          sender,
		To:            g.cfg.SystemAccount,
		Asset:         tokenID,
		Amount:        amt,
		Intent:        &intent,
	}
	if err := g.reconciler.Issue(ctx, op); err != nil {
		if errno.IsInvalidInput(err) {
			return nil, g.reject("duplicate", err)
		}
		return nil, err
	}

	fp := crypto_util.Fingerprint(tokenID, sender, amt.String(), memo)
	g.log.Info("transfer notification accepted",
		zap.String("correlation_id", op.CorrelationID),
		zap.String("donation_id", intent.DonationID),
		zap.String("fingerprint", fp),
	)
	return &Receipt{CorrelationID: op.CorrelationID, Refund: "0", Fingerprint: fp}, nil
}

// InitiateOutboundTransfer 发起出金。只检查余额不扣减，扣减发生在 Confirmed 回调里。
func (g *Gateway) InitiateOutboundTransfer(ctx context.Context, caller, from, to, assetID, amountStr, correlationID string) (*Receipt, error) {
	if !g.cfg.IsOperator(caller) {
		return nil, errno.ErrCallerNotOperator
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, errno.ErrInvalidInput.WithMessage("receiver is required")
	}
	from = strings.TrimSpace(from)
	if from == "" {
		from = g.cfg.SystemAccount
	}
	normalized, err := asset.Normalize(assetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidInput, err)
	}
	amt, err := amount.ParseU128(amountStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrInvalidAmount, err)
	}
	if amt.IsZero() {
		return nil, errno.ErrInvalidAmount.WithMessage("amount must be greater than zero")
	}

	balance, err := g.store.GetBalance(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(amt) {
		return nil, fmt.Errorf("%w: have %s, need %s", errno.ErrInsufficientFunds, balance, amt)
	}

	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		correlationID = g.newID()
	}
	// 终态只有一次: 已完成的出金不能用同一个 correlation id 再发一遍，重试必须换新 id
	done, err := g.store.HasWithdrawal(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, errno.ErrOperationResolved.WithMessage("withdrawal " + correlationID + " already completed")
	}
	op := &PendingOperation{
		CorrelationID: correlationID,
		Kind:          KindWithdrawal,
		From:          from,
		To:            to,
		Asset:         normalized,
		Amount:        amt,
	}
	if err := g.reconciler.Issue(ctx, op); err != nil {
		return nil, err
	}
	return &Receipt{CorrelationID: correlationID, Refund: "0"}, nil
}

// Pending 在途操作的只读视图
func (g *Gateway) Pending(ctx context.Context) ([]PendingOperation, error) {
	ops, err := g.reconciler.Pending(ctx)
	if ops == nil {
		ops = []PendingOperation{}
	}
	return ops, err
}
