package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// ===========================================================================
// Mock Implementation
// ===========================================================================

// mockCmdable implements the Cmdable interface using testify/mock for unit
// testing. Each method delegates to mock.Called() and returns the appropriate
// go-redis command type.
type mockCmdable struct {
	mock.Mock
}

func (m *mockCmdable) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func (m *mockCmdable) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	args := m.Called(ctx, key, expiration)
	return args.Get(0).(*redis.BoolCmd)
}

func (m *mockCmdable) TTL(ctx context.Context, key string) *redis.DurationCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.DurationCmd)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.IntCmd)
}

func (m *mockCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	args := m.Called(ctx)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockCmdable) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ===========================================================================
// Command Result Helpers
// ===========================================================================

// newStatusCmd creates a *redis.StatusCmd with the given value or error.
func newStatusCmd(val string, err error) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

// newStringCmd creates a *redis.StringCmd with the given value or error.
func newStringCmd(val string, err error) *redis.StringCmd {
	cmd := redis.NewStringCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

// newIntCmd creates a *redis.IntCmd with the given value or error.
func newIntCmd(val int64, err error) *redis.IntCmd {
	cmd := redis.NewIntCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

// newBoolCmd creates a *redis.BoolCmd with the given value or error.
func newBoolCmd(val bool, err error) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(context.Background())
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

// newDurationCmd creates a *redis.DurationCmd with the given value or error.
func newDurationCmd(val time.Duration, err error) *redis.DurationCmd {
	cmd := redis.NewDurationCmd(context.Background(), time.Second)
	if err != nil {
		cmd.SetErr(err)
	} else {
		cmd.SetVal(val)
	}
	return cmd
}

// ===========================================================================
// NewFromClient Tests
// ===========================================================================

func TestNewFromClient_WithConfig(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)

	cfg := &Config{DB: 3}
	client := NewFromClient(m, cfg)

	assert.NotNil(t, client.cmdable)
	assert.Equal(t, cfg, client.config)
	assert.Equal(t, 3, client.dbIndex)
	assert.NotNil(t, client.tracer)
}

func TestNewFromClient_NilConfig(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)

	client := NewFromClient(m, nil)

	require.NotNil(t, client.config)
	assert.Equal(t, 0, client.dbIndex)
}

// ===========================================================================
// Command Tests
// ===========================================================================

func TestClient_Set_Success(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Set", mock.Anything, "key1", "value1", 10*time.Minute).
		Return(newStatusCmd("OK", nil))

	client := NewFromClient(m, nil)
	err := client.Set(context.Background(), "key1", "value1", 10*time.Minute)

	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestClient_Set_Error(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Set", mock.Anything, "key1", "value1", time.Duration(0)).
		Return(newStatusCmd("", errors.New("connection reset")))

	client := NewFromClient(m, nil)
	err := client.Set(context.Background(), "key1", "value1", 0)

	require.Error(t, err)
	assert.True(t, taskerr.HasCode(err, taskerr.CodeInternalDatabase))
	m.AssertExpectations(t)
}

func TestClient_Get(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Get", mock.Anything, "key1").Return(newStringCmd("value1", nil))

	client := NewFromClient(m, nil)
	val, err := client.Get(context.Background(), "key1")

	require.NoError(t, err)
	assert.Equal(t, "value1", val)
	m.AssertExpectations(t)
}

func TestClient_Get_Missing(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Get", mock.Anything, "missing").Return(newStringCmd("", redis.Nil))

	client := NewFromClient(m, nil)
	_, err := client.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, Nil, "missing keys should remain detectable via errors.Is")
	m.AssertExpectations(t)
}

func TestClient_Del(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Del", mock.Anything, []string{"key1", "key2"}).Return(newIntCmd(2, nil))

	client := NewFromClient(m, nil)
	deleted, err := client.Del(context.Background(), "key1", "key2")

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	m.AssertExpectations(t)
}

func TestClient_Exists(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Exists", mock.Anything, []string{"key1"}).Return(newIntCmd(1, nil))

	client := NewFromClient(m, nil)
	count, err := client.Exists(context.Background(), "key1")

	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	m.AssertExpectations(t)
}

func TestClient_Expire(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Expire", mock.Anything, "key1", time.Minute).Return(newBoolCmd(true, nil))

	client := NewFromClient(m, nil)
	ok, err := client.Expire(context.Background(), "key1", time.Minute)

	require.NoError(t, err)
	assert.True(t, ok)
	m.AssertExpectations(t)
}

func TestClient_TTL(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("TTL", mock.Anything, "key1").Return(newDurationCmd(42*time.Second, nil))

	client := NewFromClient(m, nil)
	ttl, err := client.TTL(context.Background(), "key1")

	require.NoError(t, err)
	assert.Equal(t, 42*time.Second, ttl)
	m.AssertExpectations(t)
}

func TestClient_Incr(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Incr", mock.Anything, "ratelimit:user-123").Return(newIntCmd(7, nil))

	client := NewFromClient(m, nil)
	val, err := client.Incr(context.Background(), "ratelimit:user-123")

	require.NoError(t, err)
	assert.Equal(t, int64(7), val)
	m.AssertExpectations(t)
}

func TestClient_Incr_Timeout(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Incr", mock.Anything, "key1").Return(newIntCmd(0, context.DeadlineExceeded))

	client := NewFromClient(m, nil)
	_, err := client.Incr(context.Background(), "key1")

	require.Error(t, err)
	assert.True(t, taskerr.HasCode(err, taskerr.CodeTimeoutDatabase))
	assert.True(t, taskerr.IsRetryable(err))
	m.AssertExpectations(t)
}

// ===========================================================================
// Health Tests
// ===========================================================================

func TestClient_Health_Success(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Ping", mock.Anything).Return(newStatusCmd("PONG", nil))

	client := NewFromClient(m, nil)
	assert.NoError(t, client.Health(context.Background()))
	m.AssertExpectations(t)
}

func TestClient_Health_Failure(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Ping", mock.Anything).Return(newStatusCmd("", errors.New("connection refused")))

	client := NewFromClient(m, nil)
	err := client.Health(context.Background())

	require.Error(t, err)
	assert.True(t, taskerr.HasCode(err, taskerr.CodeUnavailableDependency))
	m.AssertExpectations(t)
}

// ===========================================================================
// Close Tests
// ===========================================================================

func TestClient_Close(t *testing.T) {
	t.Parallel()
	m := new(mockCmdable)
	m.On("Close").Return(nil)

	client := NewFromClient(m, nil)
	assert.NoError(t, client.Close())
	m.AssertExpectations(t)
}
