package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/goverland-labs/goverland-profile-storage/internal/remote"
)

// Directory serves the list of all profiles and owns the users_all cache entry
// that Repo invalidates on every write.
type Directory struct {
	remote RemoteStore
	cache  Cacher
}

func NewDirectory(rs RemoteStore, c Cacher) *Directory {
	return &Directory{
		remote: rs,
		cache:  c,
	}
}

func (d *Directory) ListProfiles(ctx context.Context) ([]Profile, error) {
	var cached []Profile
	if d.cache.Get(ctx, usersAllCacheKey, &cached) {
		return cached, nil
	}

	if d.remote == nil {
		return nil, ErrStoreNotInitialized
	}

	data, err := d.remote.List(ctx, remote.ProfilesPrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	list := make([]Profile, 0, len(data))
	for path, raw := range data {
		id, ok := remote.ChildID(remote.ProfilesPrefix, path)
		if !ok {
			continue
		}

		var rec Record
		if err = json.Unmarshal(raw, &rec); err != nil {
			log.Warn().Err(err).Msgf("skip unreadable profile #%s", id)
			continue
		}

		list = append(list, *rec.toProfile(id))
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	d.cache.Set(ctx, usersAllCacheKey, list, 0)

	return list, nil
}
