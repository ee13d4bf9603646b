package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"curtail/internal/database"
	"curtail/internal/types"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks curtail/internal/service LinkStore,LinkCache,CodeGenerator

// MaxAttempts bounds how many short codes Create tries before giving up.
// Near CapacityThreshold a single attempt collides about 3% of the time, so
// running out means something other than bad luck.
const MaxAttempts = 1000

// LinkStore is the persistent mapping of short codes to links. InsertLink
// must report a taken short code as database.ErrUniqueViolation, and GetLink
// a missing one as database.ErrNotFound.
type LinkStore interface {
	CountLinks(ctx context.Context) (int64, error)
	InsertLink(ctx context.Context, link types.Link) error
	GetLink(ctx context.Context, shortCode string) (*types.Link, error)
	ListLinks(ctx context.Context) ([]types.Link, error)
}

// LinkCache holds resolved links. Get returns redis.Nil on a miss.
type LinkCache interface {
	Get(ctx context.Context, shortCode string) (*types.Link, error)
	Set(ctx context.Context, link types.Link) error
}

type Option func(*Shortener)

func WithCache(cache LinkCache) Option {
	return func(s *Shortener) {
		s.cache = cache
	}
}

func WithGenerator(generator CodeGenerator) Option {
	return func(s *Shortener) {
		s.generator = generator
	}
}

// Shortener creates and resolves links. It is safe for concurrent use; the
// store's unique index on short_code is what keeps codes distinct.
type Shortener struct {
	database  LinkStore
	cache     LinkCache
	generator CodeGenerator
}

func NewShortener(database LinkStore, opts ...Option) *Shortener {
	s := &Shortener{
		database:  database,
		generator: UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates target and stores it under a fresh short code.
func (s *Shortener) Create(ctx context.Context, target string) (*types.Link, error) {
	if err := Validate(target); err != nil {
		return nil, err
	}

	count, err := s.database.CountLinks(ctx)
	if err != nil {
		slog.Error("Link creation failed due to unhandled database error", "error", err)
		return nil, storeError("count links", err)
	}

	// The count is not read in the insert's transaction, so concurrent
	// creations can all pass the check and overshoot the threshold.
	if err := CheckCapacity(count); err != nil {
		slog.Error("Link capacity reached", "count", count, "threshold", CapacityThreshold)
		return nil, err
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		id, code, err := s.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate short code: %w", err)
		}

		link := types.Link{
			RecordID:  id.String(),
			ShortCode: code,
			Target:    target,
		}

		err = s.database.InsertLink(ctx, link)
		if err == nil {
			if attempt > 1 {
				slog.Info("Link created after collisions", "short_code", code, "collisions", attempt-1)
			}
			s.warmCache(ctx, link)
			return &link, nil
		}

		if !errors.Is(err, database.ErrUniqueViolation) {
			slog.Error("Link creation failed due to unhandled database error", "short_code", code, "error", err)
			return nil, storeError("insert link", err)
		}

		slog.Debug("Short code collision", "short_code", code, "attempt", attempt)
	}

	slog.Error("Too many collisions on short code", "attempts", MaxAttempts)
	return nil, ErrTooManyCollisions
}

// Get resolves a short code, reading through the cache when one is set.
func (s *Shortener) Get(ctx context.Context, shortCode string) (*types.Link, error) {
	if s.cache != nil {
		link, err := s.cache.Get(ctx, shortCode)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Redis error", "error", err)
		}
	}

	link, err := s.database.GetLink(ctx, shortCode)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("Failed to get short link due to unhandled database error", "short_code", shortCode, "error", err)
		return nil, storeError("get link", err)
	}

	s.warmCache(ctx, *link)
	return link, nil
}

// List returns every link. It is for diagnostics only.
func (s *Shortener) List(ctx context.Context) ([]types.Link, error) {
	links, err := s.database.ListLinks(ctx)
	if err != nil {
		slog.Error("Failed to list links due to unhandled database error", "error", err)
		return nil, storeError("list links", err)
	}
	return links, nil
}

func (s *Shortener) warmCache(ctx context.Context, link types.Link) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, link); err != nil {
		slog.Warn("Failed to warm up cache", "short_code", link.ShortCode, "error", err)
	}
}
