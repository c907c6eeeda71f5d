package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memoryconfig "github.com/weisyn/rwaledger/internal/config/storage/memory"
	"github.com/weisyn/rwaledger/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
)

// 测试日志实现，用于测试
type testLogger struct{}

func (l *testLogger) Debug(msg string)                          {}
func (l *testLogger) Debugf(format string, args ...interface{}) {}
func (l *testLogger) Info(msg string)                           {}
func (l *testLogger) Infof(format string, args ...interface{})  {}
func (l *testLogger) Warn(msg string)                           {}
func (l *testLogger) Warnf(format string, args ...interface{})  {}
func (l *testLogger) Error(msg string)                          {}
func (l *testLogger) Errorf(format string, args ...interface{}) {}
func (l *testLogger) With(args ...interface{}) log.Logger       { return l }
func (l *testLogger) Sync() error                               { return nil }
func (l *testLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// setupTestStore 创建测试存储
func setupTestStore(t *testing.T) *Store {
	store, err := New(memoryconfig.New(nil), &testLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*Store)
}

// TestBasicOperations 测试基本操作
func TestBasicOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "asset:1")
	require.NoError(t, err)
	assert.False(t, ok, "未写入的键应返回不存在而不是错误")

	require.NoError(t, store.Set(ctx, "asset:1", []byte(`{"asset_id":1}`)))
	val, ok, err := store.Get(ctx, "asset:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"asset_id":1}`), val)

	require.NoError(t, store.Delete(ctx, "asset:1"))
	_, ok, err = store.Get(ctx, "asset:1")
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的键不报错
	assert.NoError(t, store.Delete(ctx, "asset:404"))
}

// TestClearAndCount 测试清空与计数
func TestClearAndCount(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("proposal:%d", i), []byte("x")))
	}
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.NoError(t, store.Clear(ctx))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

// TestClosedStoreIsInert 关闭后的操作不报错也不返回数据
func TestClosedStoreIsInert(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "重复关闭应安全")

	_, ok, err := store.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, store.Set(ctx, "k", []byte("v")))
}
