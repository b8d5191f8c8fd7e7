package options

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

type fakeRepo struct {
	mu      sync.Mutex
	err     error
	options map[string][]domain.SelectOption
	names   map[string][]string
	calls   int
}

func (f *fakeRepo) ListOptions(_ context.Context, table string) ([]domain.SelectOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.options[table], nil
}

func (f *fakeRepo) ListNames(_ context.Context, table string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.names[table], nil
}

func TestOptionsFallBackOnFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(Dependencies{Repo: &fakeRepo{err: errors.New("relation does not exist")}, Logger: zap.New(core)})

	opts, err := svc.Options(context.Background(), domain.OptionPriority)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions[domain.OptionPriority], opts)

	names, err := svc.Names(context.Background(), domain.NamesReporter)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNames[domain.NamesReporter], names)

	assert.Equal(t, 2, logs.Len())
}

func TestOptionsWithoutRepositoryUseDefaults(t *testing.T) {
	svc := NewService(Dependencies{})
	opts, err := svc.Options(context.Background(), domain.OptionSeverity)
	require.NoError(t, err)
	assert.Len(t, opts, 4)
}

func TestOptionsUnknownCategory(t *testing.T) {
	svc := NewService(Dependencies{})
	_, err := svc.Options(context.Background(), "colour")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	_, err = svc.Names(context.Background(), "watcher")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestOptionsCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepo{options: map[string][]domain.SelectOption{
		"status": {{Value: "open", Label: "Open"}},
	}}
	svc := NewService(Dependencies{Repo: repo, Cache: client, TTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		opts, err := svc.Options(ctx, domain.OptionStatus)
		require.NoError(t, err)
		assert.Equal(t, []domain.SelectOption{{Value: "open", Label: "Open"}}, opts)
	}
	assert.Equal(t, 1, repo.calls)
	assert.True(t, mr.Exists("options:status"))
	assert.Equal(t, time.Minute, mr.TTL("options:status"))

	svc.Invalidate(ctx)
	assert.False(t, mr.Exists("options:status"))
}

func TestFallbackNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(Dependencies{Repo: &fakeRepo{err: errors.New("down")}, Cache: client, TTL: time.Minute})
	_, err := svc.Options(context.Background(), domain.OptionStatus)
	require.NoError(t, err)
	assert.False(t, mr.Exists("options:status"))
}

func TestEmptyTableUsesDefaults(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(Dependencies{Repo: &fakeRepo{}, Cache: client, TTL: time.Minute, Logger: zap.New(core)})
	ctx := context.Background()

	opts, err := svc.Options(ctx, domain.OptionStatus)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOptions[domain.OptionStatus], opts)
	assert.False(t, mr.Exists("options:status"))

	names, err := svc.Names(ctx, domain.NamesAssignee)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultNames[domain.NamesAssignee], names)
	assert.False(t, mr.Exists("options:names:assignee"))

	vals, ok := svc.Allowed(ctx, domain.FieldStatus)
	require.True(t, ok)
	assert.Contains(t, vals, "완료")
	assert.Equal(t, 3, logs.Len())
}

func TestAllAndAllowed(t *testing.T) {
	svc := NewService(Dependencies{})
	ctx := context.Background()

	cat := svc.All(ctx)
	assert.Len(t, cat.Options, 5)
	assert.Len(t, cat.Names, 2)

	vals, ok := svc.Allowed(ctx, domain.FieldStatus)
	require.True(t, ok)
	assert.Equal(t, []string{"대기중", "진행중", "검토중", "완료"}, vals)

	names, ok := svc.Allowed(ctx, domain.FieldAssignee)
	require.True(t, ok)
	assert.Contains(t, names, "김철수")

	_, ok = svc.Allowed(ctx, domain.FieldName)
	assert.False(t, ok)
}
