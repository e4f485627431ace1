package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"donation-core/internal/service/custody"
	"donation-core/internal/worker/tasks"
)

// Client 封装 Asynq Client
type Client struct {
	client *asynq.Client
}

// NewClient 初始化 Client
// addr: "localhost:6379"
func NewClient(addr string, password string, db int) *Client {
	c := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{client: c}
}

// Enqueue 将任务推送到队列
func (c *Client) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, task, opts...)
}

// Close 关闭客户端连接
func (c *Client) Close() error {
	return c.client.Close()
}

// Enqueuer 便于测试替换
type Enqueuer interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskDispatcher 通过 asynq 派发挂起操作，回调在 worker 进程中执行
type TaskDispatcher struct {
	enqueuer Enqueuer
}

func NewTaskDispatcher(e Enqueuer) *TaskDispatcher {
	return &TaskDispatcher{enqueuer: e}
}

var _ custody.Dispatcher = (*TaskDispatcher)(nil)

func (d *TaskDispatcher) Dispatch(ctx context.Context, op custody.PendingOperation) error {
	task, err := tasks.NewCustodyConfirmTask(op)
	if err != nil {
		return err
	}
	if _, err := d.enqueuer.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", op.CorrelationID, err)
	}
	return nil
}
