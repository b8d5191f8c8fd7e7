// Package options serves dropdown option lists with built-in fallbacks.
package options

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/opsdesk/ticket-admin/internal/domain"
	"github.com/opsdesk/ticket-admin/internal/repository"
)

const cachePrefix = "options:"

// ErrUnknownCategory is returned for a category or kind with no lookup table.
var ErrUnknownCategory = errors.New("unknown option category")

var errEmptyLookup = errors.New("lookup table is empty")

// Catalog is every option list at once.
type Catalog struct {
	Options map[domain.OptionCategory][]domain.SelectOption `json:"options"`
	Names   map[domain.NameKind][]string                    `json:"names"`
}

// Service looks up option lists. Lookup failures are logged and answered
// with the built-in lists.
type Service struct {
	repo   repository.OptionRepository
	cache  redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// Dependencies bundles collaborators for the service.
type Dependencies struct {
	Repo   repository.OptionRepository
	Cache  redis.Cmdable
	TTL    time.Duration
	Logger *zap.Logger
}

// NewService constructs the service. Cache may be nil.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: deps.Repo, cache: deps.Cache, ttl: deps.TTL, logger: logger}
}

// Options returns the value/label list for category.
func (s *Service) Options(ctx context.Context, category domain.OptionCategory) ([]domain.SelectOption, error) {
	fallback, ok := domain.DefaultOptions[category]
	if !ok {
		return nil, ErrUnknownCategory
	}

	key := cachePrefix + string(category)
	var cached []domain.SelectOption
	if s.readCache(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	opts, err := s.lookupOptions(ctx, category)
	if err == nil && len(opts) == 0 {
		err = errEmptyLookup
	}
	if err != nil {
		s.logger.Warn("option lookup failed; using defaults", zap.String("category", string(category)), zap.Error(err))
		return append([]domain.SelectOption(nil), fallback...), nil
	}
	s.writeCache(ctx, key, opts)
	return opts, nil
}

// Names returns the people list for kind.
func (s *Service) Names(ctx context.Context, kind domain.NameKind) ([]string, error) {
	fallback, ok := domain.DefaultNames[kind]
	if !ok {
		return nil, ErrUnknownCategory
	}

	key := cachePrefix + "names:" + string(kind)
	var cached []string
	if s.readCache(ctx, key, &cached) && len(cached) > 0 {
		return cached, nil
	}

	names, err := s.lookupNames(ctx, kind)
	if err == nil && len(names) == 0 {
		err = errEmptyLookup
	}
	if err != nil {
		s.logger.Warn("name lookup failed; using defaults", zap.String("kind", string(kind)), zap.Error(err))
		return append([]string(nil), fallback...), nil
	}
	s.writeCache(ctx, key, names)
	return names, nil
}

// All fetches every list concurrently.
func (s *Service) All(ctx context.Context) Catalog {
	cat := Catalog{
		Options: make(map[domain.OptionCategory][]domain.SelectOption, len(domain.OptionCategories)),
		Names:   make(map[domain.NameKind][]string, len(domain.DefaultNames)),
	}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range domain.OptionCategories {
		wg.Add(1)
		go func(c domain.OptionCategory) {
			defer wg.Done()
			opts, _ := s.Options(ctx, c)
			mu.Lock()
			cat.Options[c] = opts
			mu.Unlock()
		}(c)
	}
	for _, k := range []domain.NameKind{domain.NamesAssignee, domain.NamesReporter} {
		wg.Add(1)
		go func(k domain.NameKind) {
			defer wg.Done()
			names, _ := s.Names(ctx, k)
			mu.Lock()
			cat.Names[k] = names
			mu.Unlock()
		}(k)
	}
	wg.Wait()
	return cat
}

// Allowed returns the accepted values for a ticket field. ok is false for
// free-text fields.
func (s *Service) Allowed(ctx context.Context, field string) ([]string, bool) {
	switch field {
	case domain.FieldSeverity, domain.FieldStatus, domain.FieldPriority, domain.FieldCategory, domain.FieldEnvironment:
		opts, err := s.Options(ctx, domain.OptionCategory(field))
		if err != nil {
			return nil, false
		}
		values := make([]string, len(opts))
		for i, o := range opts {
			values[i] = o.Value
		}
		return values, true
	case domain.FieldAssignee, domain.FieldReporter:
		names, err := s.Names(ctx, domain.NameKind(field))
		if err != nil {
			return nil, false
		}
		return names, true
	}
	return nil, false
}

// Invalidate drops every cached list.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(domain.OptionCategories)+2)
	for _, c := range domain.OptionCategories {
		keys = append(keys, cachePrefix+string(c))
	}
	keys = append(keys, cachePrefix+"names:"+string(domain.NamesAssignee), cachePrefix+"names:"+string(domain.NamesReporter))
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("option cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) lookupOptions(ctx context.Context, category domain.OptionCategory) ([]domain.SelectOption, error) {
	if s.repo == nil {
		return nil, repository.ErrUnavailable
	}
	return s.repo.ListOptions(ctx, string(category))
}

func (s *Service) lookupNames(ctx context.Context, kind domain.NameKind) ([]string, error) {
	if s.repo == nil {
		return nil, repository.ErrUnavailable
	}
	return s.repo.ListNames(ctx, string(kind))
}

func (s *Service) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("option cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (s *Service) writeCache(ctx context.Context, key string, v any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Debug("option cache write failed", zap.String("key", key), zap.Error(err))
	}
}
