package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/goverland-labs/goverland-profile-storage/internal/remote"
)

var (
	ErrStoreNotInitialized = errors.New("remote store is not initialized")
	ErrInvalidProfile      = errors.New("invalid profile")
	ErrInvalidID           = errors.New("invalid profile id")
	ErrNotFound            = errors.New("profile not found")
)

type Cacher interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Get(ctx context.Context, key string, dst any) bool
	Clear(ctx context.Context, key string)
}

type RemoteStore interface {
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Get(ctx context.Context, path string) (json.RawMessage, bool, error)
	List(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
}

// Repo keeps profiles in the remote store and shadows them in the local cache.
// Reads go to the cache first, writes go to the remote store first.
// Nothing leaves the Repo as an error: failures are logged and reported as false or nil.
type Repo struct {
	remote   RemoteStore
	cache    Cacher
	notifier *Notifier
}

func NewRepo(rs RemoteStore, c Cacher, n *Notifier) *Repo {
	return &Repo{
		remote:   rs,
		cache:    c,
		notifier: n,
	}
}

func (r *Repo) CreateProfile(ctx context.Context, p *Profile) bool {
	if err := r.validate(p); err != nil {
		log.Error().Err(err).Msg("create profile")
		return false
	}

	if err := r.remote.Set(ctx, remote.ProfilePath(p.ID), newRecord(p)); err != nil {
		log.Error().Err(err).Msgf("create profile #%s", p.ID)
		return false
	}

	r.refresh(ctx, p)
	r.notifier.notify(eventCreated, p.ID)

	log.Info().Msgf("profile #%s created and cache refreshed", p.ID)

	return true
}

func (r *Repo) UpdateProfile(ctx context.Context, p *Profile) bool {
	if err := r.validate(p); err != nil {
		log.Error().Err(err).Msg("update profile")
		return false
	}

	if err := r.remote.Update(ctx, remote.ProfilePath(p.ID), updateFields(p)); err != nil {
		log.Error().Err(err).Msgf("update profile #%s", p.ID)
		return false
	}

	r.refresh(ctx, p)
	r.notifier.notify(eventUpdated, p.ID)

	log.Info().Msgf("profile #%s updated", p.ID)

	return true
}

// GetProfile returns nil both for missing profiles and for failed lookups.
func (r *Repo) GetProfile(ctx context.Context, id string) *Profile {
	p, err := r.Lookup(ctx, id)
	if errors.Is(err, ErrNotFound) {
		log.Info().Msgf("profile #%s not found", id)
		return nil
	}

	if err != nil {
		log.Error().Err(err).Msgf("get profile #%s", id)
		return nil
	}

	return p
}

// Lookup is the read-through lookup behind GetProfile. Absent profiles yield ErrNotFound
// and are not cached.
func (r *Repo) Lookup(ctx context.Context, id string) (*Profile, error) {
	if r.remote == nil {
		return nil, ErrStoreNotInitialized
	}

	if err := validateID(id); err != nil {
		return nil, err
	}

	key := userCacheKey(id)

	var cached Profile
	if r.cache.Get(ctx, key, &cached) {
		log.Debug().Msgf("profile #%s served from cache", id)
		return &cached, nil
	}

	raw, exists, err := r.remote.Get(ctx, remote.ProfilePath(id))
	if err != nil {
		return nil, fmt.Errorf("get profile #%s: %w", id, err)
	}

	if !exists {
		return nil, ErrNotFound
	}

	var rec Record
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal profile #%s: %w", id, err)
	}

	p := rec.toProfile(id)
	r.cache.Set(ctx, key, p, 0)

	log.Debug().Msgf("profile #%s served from remote store", id)

	return p, nil
}

func (r *Repo) refresh(ctx context.Context, p *Profile) {
	r.cache.Set(ctx, userCacheKey(p.ID), p, 0)
	r.cache.Clear(ctx, usersAllCacheKey)
}

func (r *Repo) validate(p *Profile) error {
	if r.remote == nil {
		return ErrStoreNotInitialized
	}

	if p == nil {
		return ErrInvalidProfile
	}

	if err := validateID(p.ID); err != nil {
		return err
	}

	if err := p.preferences().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	return nil
}
