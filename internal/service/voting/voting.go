// Package voting 管理每个 campaign/event 的投票资格与合作伙伴票数
package voting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"donation-core/internal/event"
	"donation-core/internal/model"
	"donation-core/internal/store"
	"donation-core/pkg/errno"
	"donation-core/pkg/logger"
	"donation-core/pkg/monitor"
)

type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

func (s *Service) WithTx(tx store.Store) *Service {
	return &Service{store: tx, now: s.now}
}

func targetNotFound(t model.Target) error {
	if t.Kind == model.TargetEvent {
		return fmt.Errorf("%w: %s", errno.ErrEventNotFound, t.ID)
	}
	return fmt.Errorf("%w: %s", errno.ErrCampaignNotFound, t.ID)
}

func (s *Service) ensureTarget(ctx context.Context, st store.Store, t model.Target) error {
	if !t.Kind.Votable() {
		return errno.ErrInvalidInput.WithMessage("target must be an event or a campaign")
	}
	ok, err := st.TargetExists(ctx, t)
	if err != nil {
		return err
	}
	if !ok {
		return targetNotFound(t)
	}
	return nil
}

// AddVoter 授予投票资格; 已持有时不重复授予，返回 false
func (s *Service) AddVoter(ctx context.Context, t model.Target, address string) (bool, error) {
	var granted bool
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		held, err := tx.HasCredit(ctx, t, address)
		if err != nil || held {
			return err
		}
		granted = true
		return tx.GrantCredit(ctx, t, address)
	})
	return granted, err
}

// ConsumeVoter 持有资格则移除并返回 true，否则不改变状态
func (s *Service) ConsumeVoter(ctx context.Context, t model.Target, address string) (bool, error) {
	return s.store.ConsumeCredit(ctx, t, address)
}

// RegisterCandidate 在 target 上登记候选伙伴，初始票数 0
func (s *Service) RegisterCandidate(ctx context.Context, t model.Target, partnerID string) error {
	if partnerID == "" {
		return errno.ErrInvalidInput.WithMessage("partner id is empty")
	}
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.ensureTarget(ctx, tx, t); err != nil {
			return err
		}
		if err := tx.AddCandidate(ctx, t, partnerID); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("%w: partner %s already a candidate on %s", errno.ErrDuplicate, partnerID, t)
			}
			return err
		}
		return nil
	})
}

// CastVote 消耗 voter 的资格并给 partner 计一票。
// 业务结果通过 Status 返回，error 只表示存储故障。
func (s *Service) CastVote(ctx context.Context, t model.Target, voter, partnerID string) (errno.Status, error) {
	status := errno.StatusDone
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		ok, err := tx.TargetExists(ctx, t)
		if err != nil {
			return err
		}
		if !ok || !t.Kind.Votable() {
			status = errno.StatusNotFound
			return nil
		}

		// 先确认候选人存在，未知伙伴不消耗资格
		isCandidate, err := tx.IsCandidate(ctx, t, partnerID)
		if err != nil {
			return err
		}
		if !isCandidate {
			status = errno.StatusUnknownPartner
			return nil
		}

		consumed, err := tx.ConsumeCredit(ctx, t, voter)
		if err != nil {
			return err
		}
		if !consumed {
			status = errno.StatusVoterNotFound
			return nil
		}

		if err := tx.IncrementTally(ctx, t, partnerID); err != nil {
			return err
		}

		cands, err := tx.ListCandidates(ctx, t)
		if err != nil {
			return err
		}
		var votes uint64
		for _, c := range cands {
			if c.PartnerID == partnerID {
				votes = c.Votes
			}
		}
		return store.CreateOutboxMessage(ctx, tx, event.TopicVoteCast, t.ID, event.VoteCastEvent{
			TargetKind: string(t.Kind),
			TargetID:   t.ID,
			Voter:      voter,
			Partner:    partnerID,
			Votes:      votes,
			At:         s.now(),
		})
	})
	if err != nil {
		logger.Error("cast vote failed", zap.String("target", t.String()), zap.String("voter", voter), zap.Error(err))
		return errno.StatusFailed, err
	}

	monitor.RecordVote(status.String())
	logger.Debug("vote processed",
		zap.String("target", t.String()),
		zap.String("voter", voter),
		zap.String("partner", partnerID),
		zap.String("status", status.String()),
	)
	return status, nil
}

// Tally 单个候选伙伴的票数
type Tally struct {
	PartnerID string `json:"partner_id"`
	Votes     uint64 `json:"votes"`
}

func (s *Service) Tallies(ctx context.Context, t model.Target) ([]Tally, error) {
	if err := s.ensureTarget(ctx, s.store, t); err != nil {
		return nil, err
	}
	cands, err := s.store.ListCandidates(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]Tally, 0, len(cands))
	for _, c := range cands {
		out = append(out, Tally{PartnerID: c.PartnerID, Votes: c.Votes})
	}
	return out, nil
}

func (s *Service) Voters(ctx context.Context, t model.Target) ([]string, error) {
	if err := s.ensureTarget(ctx, s.store, t); err != nil {
		return nil, err
	}
	voters, err := s.store.ListVoters(ctx, t)
	if err != nil {
		return nil, err
	}
	if voters == nil {
		voters = []string{}
	}
	return voters, nil
}
