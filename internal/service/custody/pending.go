package custody

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"donation-core/pkg/errno"
)

type OperationKind string

const (
	KindDeposit    OperationKind = "deposit"
	KindWithdrawal OperationKind = "withdrawal"
)

// State Issued -> Confirmed | Failed
type State string

const (
	StateIssued    State = "issued"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

// Outcome 外部调用的结果，只能在之后单独的一次调用中观察到
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeFailed    Outcome = "failed"
)

func (o Outcome) Valid() bool {
	return o == OutcomeConfirmed || o == OutcomeFailed
}

func (o Outcome) State() State {
	if o == OutcomeConfirmed {
		return StateConfirmed
	}
	return StateFailed
}

// PendingOperation 跨进程调用的挂起记录，不写入持久账本，解决后即销毁
type PendingOperation struct {
	CorrelationID string          `json:"correlation_id"`
	Kind          OperationKind   `json:"kind"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	Asset         string          `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	Intent        *DonationIntent `json:"intent,omitempty"`
	State         State           `json:"state"`
	IssuedAt      time.Time       `json:"issued_at"`
}

// PendingRegistry 挂起操作的登记处。
// Claim 必须是原子的: 同一个 correlation id 最多只能被取走一次。
// 被取走的 id 留下终态标记，之后不能再登记。
type PendingRegistry interface {
	// Put 登记操作; 已在途返回 ErrOperationPending, 已有终态返回 ErrOperationResolved
	Put(ctx context.Context, op *PendingOperation) error
	// Claim 取走、删除并标记终态; 不存在返回 ErrOperationNotFound
	Claim(ctx context.Context, correlationID string) (*PendingOperation, error)
	// Discard 撤销一次没派发出去的登记，不留终态标记
	Discard(ctx context.Context, correlationID string) error
	// MarkResolved 为已不在登记处的操作补写终态标记; 标记已存在时返回 false
	MarkResolved(ctx context.Context, correlationID string) (bool, error)
	Get(ctx context.Context, correlationID string) (*PendingOperation, error)
	List(ctx context.Context) ([]PendingOperation, error)
}

// MemoryRegistry 单进程使用; 终态标记随进程存活
type MemoryRegistry struct {
	mu        sync.Mutex
	ops       map[string]PendingOperation
	donations map[string]string // donation id -> correlation id
	resolved  map[string]struct{}
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		ops:       make(map[string]PendingOperation),
		donations: make(map[string]string),
		resolved:  make(map[string]struct{}),
	}
}

func (r *MemoryRegistry) Put(ctx context.Context, op *PendingOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resolved[op.CorrelationID]; ok {
		return errno.ErrOperationResolved
	}
	if _, ok := r.ops[op.CorrelationID]; ok {
		return errno.ErrOperationPending
	}
	if op.Intent != nil {
		if _, ok := r.donations[op.Intent.DonationID]; ok {
			return errno.ErrOperationPending.WithMessage("donation " + op.Intent.DonationID + " already has a pending transfer")
		}
		r.donations[op.Intent.DonationID] = op.CorrelationID
	}
	r.ops[op.CorrelationID] = *op
	return nil
}

func (r *MemoryRegistry) Claim(ctx context.Context, correlationID string) (*PendingOperation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.take(correlationID)
	if !ok {
		return nil, errno.ErrOperationNotFound
	}
	r.resolved[correlationID] = struct{}{}
	return &op, nil
}

func (r *MemoryRegistry) Discard(ctx context.Context, correlationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.take(correlationID); !ok {
		return errno.ErrOperationNotFound
	}
	return nil
}

func (r *MemoryRegistry) take(correlationID string) (PendingOperation, bool) {
	op, ok := r.ops[correlationID]
	if !ok {
		return op, false
	}
	delete(r.ops, correlationID)
	if op.Intent != nil {
		delete(r.donations, op.Intent.DonationID)
	}
	return op, true
}

func (r *MemoryRegistry) MarkResolved(ctx context.Context, correlationID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resolved[correlationID]; ok {
		return false, nil
	}
	r.resolved[correlationID] = struct{}{}
	return true, nil
}

func (r *MemoryRegistry) Get(ctx context.Context, correlationID string) (*PendingOperation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.ops[correlationID]
	if !ok {
		return nil, errno.ErrOperationNotFound
	}
	return &op, nil
}

func (r *MemoryRegistry) List(ctx context.Context) ([]PendingOperation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PendingOperation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}
