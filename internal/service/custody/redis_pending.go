package custody

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"donation-core/pkg/errno"
)

const (
	pendingKeyPrefix  = "custody:pending:"
	donationKeyPrefix = "custody:pending-donation:"
	resolvedKeyPrefix = "custody:resolved:"
)

// 取走挂起记录并写终态标记，两步在一个脚本里完成
var claimScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return false
end
redis.call("DEL", KEYS[1])
redis.call("SET", KEYS[2], "1", "PX", ARGV[1])
return v
`)

// RedisRegistry 多进程 (server + asynq worker) 共享挂起操作
// 每个操作一个带 TTL 的 key; 终态标记保留 retain, 远长于挂起 TTL
type RedisRegistry struct {
	client *redis.Client
	ttl    time.Duration
	retain time.Duration
}

func NewRedisRegistry(client *redis.Client, ttl time.Duration) *RedisRegistry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRegistry{client: client, ttl: ttl, retain: 30 * ttl}
}

func (r *RedisRegistry) Put(ctx context.Context, op *PendingOperation) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal pending op: %w", err)
	}
	n, err := r.client.Exists(ctx, resolvedKeyPrefix+op.CorrelationID).Result()
	if err != nil {
		return fmt.Errorf("check resolved op: %w", err)
	}
	if n > 0 {
		return errno.ErrOperationResolved
	}

	// 先占住捐款 id, 避免同一笔捐款两次在途
	var donationKey string
	if op.Intent != nil {
		donationKey = donationKeyPrefix + op.Intent.DonationID
		ok, err := r.client.SetNX(ctx, donationKey, op.CorrelationID, r.ttl).Result()
		if err != nil {
			return fmt.Errorf("reserve donation id: %w", err)
		}
		if !ok {
			return errno.ErrOperationPending.WithMessage("donation " + op.Intent.DonationID + " already has a pending transfer")
		}
	}

	ok, err := r.client.SetNX(ctx, pendingKeyPrefix+op.CorrelationID, data, r.ttl).Result()
	if err != nil || !ok {
		if donationKey != "" {
			r.client.Del(ctx, donationKey)
		}
		if err != nil {
			return fmt.Errorf("register pending op: %w", err)
		}
		return errno.ErrOperationPending
	}
	return nil
}

func (r *RedisRegistry) Claim(ctx context.Context, correlationID string) (*PendingOperation, error) {
	keys := []string{pendingKeyPrefix + correlationID, resolvedKeyPrefix + correlationID}
	data, err := claimScript.Run(ctx, r.client, keys, r.retain.Milliseconds()).Text()
	if errors.Is(err, redis.Nil) {
		return nil, errno.ErrOperationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("claim pending op: %w", err)
	}
	return r.release(ctx, []byte(data))
}

func (r *RedisRegistry) Discard(ctx context.Context, correlationID string) error {
	data, err := r.client.GetDel(ctx, pendingKeyPrefix+correlationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return errno.ErrOperationNotFound
	}
	if err != nil {
		return fmt.Errorf("discard pending op: %w", err)
	}
	_, err = r.release(ctx, data)
	return err
}

func (r *RedisRegistry) MarkResolved(ctx context.Context, correlationID string) (bool, error) {
	ok, err := r.client.SetNX(ctx, resolvedKeyPrefix+correlationID, "1", r.retain).Result()
	if err != nil {
		return false, fmt.Errorf("mark resolved: %w", err)
	}
	return ok, nil
}

// release 解码被取走的记录并放开捐款 id 的占位
func (r *RedisRegistry) release(ctx context.Context, data []byte) (*PendingOperation, error) {
	var op PendingOperation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("decode pending op: %w", err)
	}
	if op.Intent != nil {
		r.client.Del(ctx, donationKeyPrefix+op.Intent.DonationID)
	}
	return &op, nil
}

func (r *RedisRegistry) Get(ctx context.Context, correlationID string) (*PendingOperation, error) {
	data, err := r.client.Get(ctx, pendingKeyPrefix+correlationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errno.ErrOperationNotFound
	}
	if err != nil {
		return nil, err
	}
	var op PendingOperation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("decode pending op: %w", err)
	}
	return &op, nil
}

func (r *RedisRegistry) List(ctx context.Context) ([]PendingOperation, error) {
	var (
		out    []PendingOperation
		cursor uint64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pendingKeyPrefix+"*", 100).Result()
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			vals, err := r.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for _, v := range vals {
				s, ok := v.(string)
				if !ok {
					continue // 扫描与读取之间被 Claim 掉了
				}
				var op PendingOperation
				if err := json.Unmarshal([]byte(s), &op); err == nil {
					out = append(out, op)
				}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}
