package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/goverland-labs/goverland-profile-storage/internal/metrics"
)

const DefaultTTL = 5 * time.Minute

const (
	opGet   = "get"
	opSet   = "set"
	opClear = "clear"

	resultOK        = "ok"
	resultHit       = "hit"
	resultMiss      = "miss"
	resultExpired   = "expired"
	resultCorrupted = "corrupted"
	resultError     = "error"
)

var (
	ErrUnexpectedPayload = errors.New("unexpected payload type")
	errEmptyValue        = errors.New("entry has no value")
)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDefaultTTL overrides the ttl used when Set gets a non-positive one.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// Store keeps JSON values with a per entry ttl on top of a Medium. Expired entries are
// removed lazily on read. Failures never leave the Store: they are logged and reported
// as a miss or a no-op.
type Store struct {
	medium     Medium
	now        func() time.Time
	logger     zerolog.Logger
	defaultTTL time.Duration
}

func NewStore(m Medium, opts ...Option) *Store {
	s := &Store{
		medium:     m,
		now:        time.Now,
		logger:     log.Logger,
		defaultTTL: DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Set replaces the entry under key. Non-positive ttl means the default one.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	payload, err := json.Marshal(value)
	if err != nil {
		s.fail(opSet, key, err, "cache: marshal value")
		return
	}

	raw, err := json.Marshal(newEntry(payload, s.now(), ttl))
	if err != nil {
		s.fail(opSet, key, err, "cache: marshal entry")
		return
	}

	if err = s.medium.SetItem(ctx, key, string(raw)); err != nil {
		s.fail(opSet, key, err, "cache: write entry")
		return
	}

	metrics.CollectCacheEvent(opSet, resultOK)
	s.logger.Debug().Str("key", key).Dur("ttl", ttl).Msg("cache: set")
}

// Get decodes the live entry under key into dst and reports whether it was found.
// Corrupted entries are kept as is, expired ones are removed.
func (s *Store) Get(ctx context.Context, key string, dst any) bool {
	raw, ok, err := s.medium.GetItem(ctx, key)
	if err != nil {
		s.fail(opGet, key, err, "cache: read entry")
		return false
	}

	if !ok {
		metrics.CollectCacheEvent(opGet, resultMiss)
		s.logger.Debug().Str("key", key).Msg("cache: miss")
		return false
	}

	var entry Entry
	if err = json.Unmarshal([]byte(raw), &entry); err == nil && len(entry.Value) == 0 {
		err = errEmptyValue
	}
	if err != nil {
		s.corrupted(key, err)
		return false
	}

	if entry.expired(s.now(), s.defaultTTL) {
		metrics.CollectCacheEvent(opGet, resultExpired)
		s.logger.Debug().Str("key", key).Msg("cache: expired, removing")

		if err = s.medium.RemoveItem(ctx, key); err != nil {
			s.fail(opClear, key, err, "cache: remove expired entry")
		}

		return false
	}

	if err = json.Unmarshal(entry.Value, dst); err != nil {
		s.corrupted(key, err)
		return false
	}

	metrics.CollectCacheEvent(opGet, resultHit)
	s.logger.Debug().Str("key", key).Msg("cache: hit")

	return true
}

// Clear removes the entry under key. Missing keys are fine.
func (s *Store) Clear(ctx context.Context, key string) {
	if err := s.medium.RemoveItem(ctx, key); err != nil {
		s.fail(opClear, key, err, "cache: remove entry")
		return
	}

	metrics.CollectCacheEvent(opClear, resultOK)
	s.logger.Debug().Str("key", key).Msg("cache: clear")
}

// GetAs is the typed form of Store.Get.
func GetAs[T any](ctx context.Context, s *Store, key string) (T, bool) {
	var val T
	if !s.Get(ctx, key, &val) {
		var zero T
		return zero, false
	}

	return val, true
}

func (s *Store) corrupted(key string, err error) {
	metrics.CollectCacheEvent(opGet, resultCorrupted)
	s.logger.Error().Err(err).Str("key", key).Msg("cache: corrupted entry")
}

func (s *Store) fail(op, key string, err error, msg string) {
	metrics.CollectCacheEvent(op, resultError)
	s.logger.Error().Err(err).Str("key", key).Msg(msg)
}
