package gormstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"donation-core/internal/store"
	"donation-core/internal/store/storetest"
)

func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newTestStore 每次返回独立的内存 sqlite，单连接保证所有语句落在同一个库上
func newTestStore(t *testing.T) store.Store {
	s := New(openTestDB(t))
	require.NoError(t, s.AutoMigrate())
	return s
}

func TestGormStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

// sqlRecorder 记录执行过的 SQL
type sqlRecorder struct {
	mu   sync.Mutex
	stmt []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }
func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}
func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.mu.Lock()
	r.stmt = append(r.stmt, sql)
	r.mu.Unlock()
}

// 首笔入账必须是单条 upsert; 先 UPDATE 再 INSERT 在两个并发事务下会撞主键
func TestCreditBalance_SingleUpsert(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, New(db).AutoMigrate())

	rec := &sqlRecorder{}
	s := New(db.Session(&gorm.Session{Logger: rec}))
	ctx := context.Background()

	require.NoError(t, s.CreditBalance(ctx, "usdc.near", decimal.NewFromInt(4)))
	require.Len(t, rec.stmt, 1)
	assert.Contains(t, strings.ToUpper(rec.stmt[0]), "ON CONFLICT")

	// 另一个写入方已经建好了这一行
	require.NoError(t, s.CreditBalance(ctx, "usdc.near", decimal.NewFromInt(6)))
	bal, err := s.GetBalance(ctx, "usdc.near")
	require.NoError(t, err)
	assert.Equal(t, "10", bal.String())
}
