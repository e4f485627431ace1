// Package memstore 是 store.Store 的进程内实现。
// 一把互斥锁保护全部状态; 事务持锁直接写状态，每次写入登记一条撤销动作，
// fn 出错 (或 panic) 时倒序撤销。写入开销与已有数据量无关。
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"donation-core/internal/model"
	"donation-core/internal/store"
)

type creditKey struct {
	target model.Target
	voter  string
}

type state struct {
	donations   []model.Donation
	donationIDs map[string]struct{}

	campaigns     map[string]model.Campaign
	campaignOrder []string
	events        map[string]model.Event
	eventOrder    []string

	credits    map[creditKey]struct{}
	voters     map[model.Target][]string
	candidates map[model.Target][]model.Candidate

	partners     map[string]model.Partner
	partnerOrder []string
	tokens       map[string]model.Token
	tokenOrder   []string

	balances      map[string]decimal.Decimal
	withdrawals   []model.Withdrawal
	withdrawalIDs map[string]struct{}
	outbox      []model.OutboxMessage

	donationSeq   uint64
	rowSeq        uint64
	outboxSeq     uint64
	withdrawalSeq uint64
}

func newState() *state {
	return &state{
		donationIDs: make(map[string]struct{}),
		campaigns:   make(map[string]model.Campaign),
		events:      make(map[string]model.Event),
		credits:     make(map[creditKey]struct{}),
		voters:      make(map[model.Target][]string),
		candidates:  make(map[model.Target][]model.Candidate),
		partners:    make(map[string]model.Partner),
		tokens:      make(map[string]model.Token),
		balances:    make(map[string]decimal.Decimal),

		withdrawalIDs: make(map[string]struct{}),
	}
}

type Store struct {
	mu   *sync.Mutex
	root *Store // 事务视图指向根; 根为 nil
	st   *state
	now  func() time.Time
	undo *[]func() // 仅事务视图非 nil
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.Mutex{}, st: newState(), now: time.Now}
}

// WithClock 测试用，固定时间戳
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// view 在锁内执行 fn; 事务视图已持锁
func (s *Store) view(fn func(st *state) error) error {
	if s.root != nil {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// onRollback 登记撤销动作; 非事务写入直接生效
func (s *Store) onRollback(fn func()) {
	if s.undo != nil {
		*s.undo = append(*s.undo, fn)
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) (err error) {
	if s.root != nil {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	undo := make([]func(), 0, 8)
	tx := &Store{mu: s.mu, root: s, st: s.st, now: s.now, undo: &undo}
	committed := false
	defer func() {
		if committed {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	committed = true
	return nil
}

// ---------------- donations ----------------

func (s *Store) AppendDonation(ctx context.Context, d *model.Donation) error {
	return s.view(func(st *state) error {
		if _, ok := st.donationIDs[d.ID]; ok {
			return store.ErrDuplicate
		}
		st.donationSeq++
		d.Seq = st.donationSeq
		if d.CreatedAt.IsZero() {
			d.CreatedAt = s.now()
		}
		st.donations = append(st.donations, *d)
		st.donationIDs[d.ID] = struct{}{}
		s.onRollback(func() {
			st.donations = st.donations[:len(st.donations)-1]
			delete(st.donationIDs, d.ID)
			st.donationSeq--
		})
		return nil
	})
}

func (s *Store) HasDonation(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := s.view(func(st *state) error {
		_, ok = st.donationIDs[id]
		return nil
	})
	return ok, err
}

func (s *Store) ListDonations(ctx context.Context, f store.DonationFilter, offset, limit int) ([]model.Donation, int64, error) {
	var (
		rows  []model.Donation
		total int64
	)
	err := s.view(func(st *state) error {
		for i := range st.donations {
			d := &st.donations[i]
			if !f.Match(d) {
				continue
			}
			if total >= int64(offset) && len(rows) < limit {
				rows = append(rows, *d)
			}
			total++
		}
		return nil
	})
	return rows, total, err
}

// ---------------- campaigns / events ----------------

func (s *Store) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	return s.view(func(st *state) error {
		if _, ok := st.campaigns[c.ID]; ok {
			return store.ErrDuplicate
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.now()
		}
		st.campaigns[c.ID] = *c
		st.campaignOrder = append(st.campaignOrder, c.ID)
		id := c.ID
		s.onRollback(func() {
			delete(st.campaigns, id)
			st.campaignOrder = st.campaignOrder[:len(st.campaignOrder)-1]
		})
		return nil
	})
}

func (s *Store) GetCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	var out *model.Campaign
	err := s.view(func(st *state) error {
		c, ok := st.campaigns[id]
		if !ok {
			return store.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (s *Store) ListCampaigns(ctx context.Context) ([]model.Campaign, error) {
	var out []model.Campaign
	err := s.view(func(st *state) error {
		for _, id := range st.campaignOrder {
			out = append(out, st.campaigns[id])
		}
		return nil
	})
	return out, err
}

func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	return s.view(func(st *state) error {
		if _, ok := st.events[e.ID]; ok {
			return store.ErrDuplicate
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = s.now()
		}
		st.events[e.ID] = *e
		st.eventOrder = append(st.eventOrder, e.ID)
		id := e.ID
		s.onRollback(func() {
			delete(st.events, id)
			st.eventOrder = st.eventOrder[:len(st.eventOrder)-1]
		})
		return nil
	})
}

func (s *Store) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	var out *model.Event
	err := s.view(func(st *state) error {
		e, ok := st.events[id]
		if !ok {
			return store.ErrNotFound
		}
		out = &e
		return nil
	})
	return out, err
}

func (s *Store) ListEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	err := s.view(func(st *state) error {
		for _, id := range st.eventOrder {
			out = append(out, st.events[id])
		}
		return nil
	})
	return out, err
}

func (s *Store) TargetExists(ctx context.Context, t model.Target) (bool, error) {
	var ok bool
	err := s.view(func(st *state) error {
		ok = st.targetExists(t)
		return nil
	})
	return ok, err
}

func (st *state) targetExists(t model.Target) bool {
	switch t.Kind {
	case model.TargetCampaign:
		_, ok := st.campaigns[t.ID]
		return ok
	case model.TargetEvent:
		_, ok := st.events[t.ID]
		return ok
	}
	return false
}

func (s *Store) AddTargetTotals(ctx context.Context, t model.Target, amount decimal.Decimal, ref float64) error {
	return s.view(func(st *state) error {
		switch t.Kind {
		case model.TargetCampaign:
			c, ok := st.campaigns[t.ID]
			if !ok {
				return store.ErrNotFound
			}
			old := c
			c.TotalRaised = c.TotalRaised.Add(amount)
			c.TotalRaisedRef += ref
			c.DonationsCount++
			st.campaigns[t.ID] = c
			s.onRollback(func() { st.campaigns[t.ID] = old })
		case model.TargetEvent:
			e, ok := st.events[t.ID]
			if !ok {
				return store.ErrNotFound
			}
			old := e
			e.TotalRaised = e.TotalRaised.Add(amount)
			e.TotalRaisedRef += ref
			e.DonationsCount++
			st.events[t.ID] = e
			s.onRollback(func() { st.events[t.ID] = old })
		default:
			return store.ErrNotFound
		}
		return nil
	})
}

// ---------------- voting ----------------

func (s *Store) GrantCredit(ctx context.Context, t model.Target, voter string) error {
	return s.view(func(st *state) error {
		k := creditKey{t, voter}
		if _, ok := st.credits[k]; ok {
			return nil
		}
		prev, had := st.voters[t]
		st.credits[k] = struct{}{}
		st.voters[t] = append(prev, voter)
		s.onRollback(func() {
			delete(st.credits, k)
			if had {
				st.voters[t] = prev
			} else {
				delete(st.voters, t)
			}
		})
		return nil
	})
}

func (s *Store) ConsumeCredit(ctx context.Context, t model.Target, voter string) (bool, error) {
	var consumed bool
	err := s.view(func(st *state) error {
		k := creditKey{t, voter}
		if _, ok := st.credits[k]; !ok {
			return nil
		}
		// DeleteFunc 原地修改底层数组，撤销需要一份副本
		prev := slices.Clone(st.voters[t])
		delete(st.credits, k)
		st.voters[t] = slices.DeleteFunc(st.voters[t], func(v string) bool { return v == voter })
		s.onRollback(func() {
			st.credits[k] = struct{}{}
			st.voters[t] = prev
		})
		consumed = true
		return nil
	})
	return consumed, err
}

func (s *Store) HasCredit(ctx context.Context, t model.Target, voter string) (bool, error) {
	var ok bool
	err := s.view(func(st *state) error {
		_, ok = st.credits[creditKey{t, voter}]
		return nil
	})
	return ok, err
}

func (s *Store) ListVoters(ctx context.Context, t model.Target) ([]string, error) {
	var out []string
	err := s.view(func(st *state) error {
		out = slices.Clone(st.voters[t])
		return nil
	})
	return out, err
}

func (s *Store) AddCandidate(ctx context.Context, t model.Target, partnerID string) error {
	return s.view(func(st *state) error {
		for _, c := range st.candidates[t] {
			if c.PartnerID == partnerID {
				return store.ErrDuplicate
			}
		}
		prev, had := st.candidates[t]
		s.onRollback(func() {
			st.rowSeq--
			if had {
				st.candidates[t] = prev
			} else {
				delete(st.candidates, t)
			}
		})
		st.rowSeq++
		st.candidates[t] = append(prev, model.Candidate{
			ID:         st.rowSeq,
			TargetKind: t.Kind,
			TargetID:   t.ID,
			PartnerID:  partnerID,
			CreatedAt:  s.now(),
		})
		return nil
	})
}

func (s *Store) IsCandidate(ctx context.Context, t model.Target, partnerID string) (bool, error) {
	var ok bool
	err := s.view(func(st *state) error {
		for _, c := range st.candidates[t] {
			if c.PartnerID == partnerID {
				ok = true
				break
			}
		}
		return nil
	})
	return ok, err
}

func (s *Store) IncrementTally(ctx context.Context, t model.Target, partnerID string) error {
	return s.view(func(st *state) error {
		list := st.candidates[t]
		for i := range list {
			if list[i].PartnerID == partnerID {
				list[i].Votes++
				s.onRollback(func() { list[i].Votes-- })
				return nil
			}
		}
		return store.ErrNotFound
	})
}

func (s *Store) ListCandidates(ctx context.Context, t model.Target) ([]model.Candidate, error) {
	var out []model.Candidate
	err := s.view(func(st *state) error {
		out = slices.Clone(st.candidates[t])
		return nil
	})
	return out, err
}

// ---------------- partners / tokens ----------------

func (s *Store) CreatePartner(ctx context.Context, p *model.Partner) error {
	return s.view(func(st *state) error {
		if _, ok := st.partners[p.ID]; ok {
			return store.ErrDuplicate
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = s.now()
		}
		st.partners[p.ID] = *p
		st.partnerOrder = append(st.partnerOrder, p.ID)
		id := p.ID
		s.onRollback(func() {
			delete(st.partners, id)
			st.partnerOrder = st.partnerOrder[:len(st.partnerOrder)-1]
		})
		return nil
	})
}

func (s *Store) GetPartner(ctx context.Context, id string) (*model.Partner, error) {
	var out *model.Partner
	err := s.view(func(st *state) error {
		p, ok := st.partners[id]
		if !ok {
			return store.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *Store) ListPartners(ctx context.Context, createdBy string) ([]model.Partner, error) {
	var out []model.Partner
	err := s.view(func(st *state) error {
		for _, id := range st.partnerOrder {
			p := st.partners[id]
			if createdBy == "" || p.CreatedBy == createdBy {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) PutToken(ctx context.Context, t *model.Token) error {
	return s.view(func(st *state) error {
		addr := t.Address
		if old, ok := st.tokens[addr]; ok {
			t.CreatedAt = old.CreatedAt
			s.onRollback(func() { st.tokens[addr] = old })
		} else {
			st.tokenOrder = append(st.tokenOrder, addr)
			if t.CreatedAt.IsZero() {
				t.CreatedAt = s.now()
			}
			s.onRollback(func() {
				delete(st.tokens, addr)
				st.tokenOrder = st.tokenOrder[:len(st.tokenOrder)-1]
			})
		}
		st.tokens[addr] = *t
		return nil
	})
}

func (s *Store) GetToken(ctx context.Context, address string) (*model.Token, error) {
	var out *model.Token
	err := s.view(func(st *state) error {
		t, ok := st.tokens[address]
		if !ok {
			return store.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (s *Store) ListTokens(ctx context.Context) ([]model.Token, error) {
	var out []model.Token
	err := s.view(func(st *state) error {
		for _, a := range st.tokenOrder {
			out = append(out, st.tokens[a])
		}
		return nil
	})
	return out, err
}

// ---------------- custody ----------------

func (s *Store) GetBalance(ctx context.Context, asset string) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.view(func(st *state) error {
		out = st.balances[asset]
		return nil
	})
	return out, err
}

func (s *Store) CreditBalance(ctx context.Context, asset string, amount decimal.Decimal) error {
	return s.view(func(st *state) error {
		s.restoreBalance(st, asset)
		st.balances[asset] = st.balances[asset].Add(amount)
		return nil
	})
}

func (s *Store) DebitBalance(ctx context.Context, asset string, amount decimal.Decimal) error {
	return s.view(func(st *state) error {
		cur := st.balances[asset]
		if cur.LessThan(amount) {
			return store.ErrInsufficientBalance
		}
		s.restoreBalance(st, asset)
		st.balances[asset] = cur.Sub(amount)
		return nil
	})
}

func (s *Store) restoreBalance(st *state, asset string) {
	old, had := st.balances[asset]
	s.onRollback(func() {
		if had {
			st.balances[asset] = old
		} else {
			delete(st.balances, asset)
		}
	})
}

func (s *Store) CreateWithdrawal(ctx context.Context, w *model.Withdrawal) error {
	return s.view(func(st *state) error {
		if _, ok := st.withdrawalIDs[w.CorrelationID]; ok {
			return store.ErrDuplicate
		}
		st.withdrawalSeq++
		w.ID = st.withdrawalSeq
		if w.CreatedAt.IsZero() {
			w.CreatedAt = s.now()
		}
		st.withdrawals = append(st.withdrawals, *w)
		st.withdrawalIDs[w.CorrelationID] = struct{}{}
		id := w.CorrelationID
		s.onRollback(func() {
			st.withdrawals = st.withdrawals[:len(st.withdrawals)-1]
			delete(st.withdrawalIDs, id)
			st.withdrawalSeq--
		})
		return nil
	})
}

func (s *Store) HasWithdrawal(ctx context.Context, correlationID string) (bool, error) {
	var ok bool
	err := s.view(func(st *state) error {
		_, ok = st.withdrawalIDs[correlationID]
		return nil
	})
	return ok, err
}

func (s *Store) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	var out []model.Withdrawal
	err := s.view(func(st *state) error {
		out = slices.Clone(st.withdrawals)
		return nil
	})
	return out, err
}

// ---------------- outbox ----------------

func (s *Store) CreateOutboxMessage(ctx context.Context, m *model.OutboxMessage) error {
	return s.view(func(st *state) error {
		st.outboxSeq++
		m.ID = st.outboxSeq
		if m.Status == "" {
			m.Status = model.OutboxPending
		}
		now := s.now()
		m.CreatedAt, m.UpdatedAt = now, now
		st.outbox = append(st.outbox, *m)
		s.onRollback(func() {
			st.outbox = st.outbox[:len(st.outbox)-1]
			st.outboxSeq--
		})
		return nil
	})
}

func (s *Store) PendingOutbox(ctx context.Context, limit int) ([]model.OutboxMessage, error) {
	var out []model.OutboxMessage
	err := s.view(func(st *state) error {
		for _, m := range st.outbox {
			if len(out) >= limit {
				break
			}
			if m.Status == model.OutboxPending {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) MarkOutboxSent(ctx context.Context, id uint64) error {
	return s.view(func(st *state) error {
		for i := range st.outbox {
			if st.outbox[i].ID == id {
				old, idx := st.outbox[i], i
				s.onRollback(func() { st.outbox[idx] = old })
				st.outbox[i].Status = model.OutboxSent
				st.outbox[i].UpdatedAt = s.now()
				return nil
			}
		}
		return store.ErrNotFound
	})
}
