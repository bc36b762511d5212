package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/providers"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
)

// Cache TTLs (in seconds)
const (
	hotspotByIDTTL  = 300 // 5 minutes for a single hotspot
	approvedListTTL = 180 // 3 minutes for the approved listing
)

func hotspotCacheKey(id int) string {
	return "hotspot:" + strconv.Itoa(id)
}

const approvedListCacheKey = "hotspots:approved"

// CachedDirectoryAdapter wraps a DirectoryStore with a Redis-backed
// read-through cache on the hot read paths (approved listing and detail
// lookups). Writes that can change what those reads return invalidate the
// affected keys. Every other operation passes through.
type CachedDirectoryAdapter struct {
	repositories.DirectoryStore
	cache providers.CacheProvider
}

// NewCachedDirectoryAdapter creates a new cached directory adapter.
func NewCachedDirectoryAdapter(store repositories.DirectoryStore, cache providers.CacheProvider) repositories.DirectoryStore {
	return &CachedDirectoryAdapter{
		DirectoryStore: store,
		cache:          cache,
	}
}

// ListApproved serves the approved listing from cache when possible.
func (a *CachedDirectoryAdapter) ListApproved(ctx context.Context) ([]*entities.Hotspot, error) {
	if cached, err := a.cache.Get(ctx, approvedListCacheKey); err == nil {
		var hotspots []*entities.Hotspot
		jsonErr := json.Unmarshal(cached, &hotspots)
		if jsonErr == nil {
			return hotspots, nil
		}
		log.Warn().Err(jsonErr).Msg("failed to unmarshal cached approved listing")
	}

	hotspots, err := a.DirectoryStore.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	a.put(ctx, approvedListCacheKey, hotspots, approvedListTTL)
	return hotspots, nil
}

// GetHotspotByID serves detail lookups from cache when possible.
func (a *CachedDirectoryAdapter) GetHotspotByID(ctx context.Context, id int) (*entities.Hotspot, error) {
	key := hotspotCacheKey(id)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		var hotspot entities.Hotspot
		jsonErr := json.Unmarshal(cached, &hotspot)
		if jsonErr == nil {
			return &hotspot, nil
		}
		log.Warn().Err(jsonErr).Int("hotspot_id", id).Msg("failed to unmarshal cached hotspot")
	}

	hotspot, err := a.DirectoryStore.GetHotspotByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.put(ctx, key, hotspot, hotspotByIDTTL)
	return hotspot, nil
}

// CreateHotspot passes through; pending submissions do not change the
// approved listing, so nothing needs invalidation.
func (a *CachedDirectoryAdapter) CreateHotspot(ctx context.Context, input repositories.NewHotspot) (*entities.Hotspot, error) {
	return a.DirectoryStore.CreateHotspot(ctx, input)
}

// ApproveHotspot invalidates the approved listing and the hotspot itself.
func (a *CachedDirectoryAdapter) ApproveHotspot(ctx context.Context, id int) error {
	if err := a.DirectoryStore.ApproveHotspot(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, approvedListCacheKey, hotspotCacheKey(id))
	return nil
}

// RejectHotspot invalidates the hotspot detail entry.
func (a *CachedDirectoryAdapter) RejectHotspot(ctx context.Context, id int) error {
	if err := a.DirectoryStore.RejectHotspot(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, hotspotCacheKey(id))
	return nil
}

// BulkImport invalidates the approved listing.
func (a *CachedDirectoryAdapter) BulkImport(ctx context.Context, hotspots []repositories.NewHotspot) error {
	if err := a.DirectoryStore.BulkImport(ctx, hotspots); err != nil {
		return err
	}
	a.invalidate(ctx, approvedListCacheKey)
	return nil
}

// RecomputeRating invalidates the affected hotspot and the listing, which
// embeds rating fields.
func (a *CachedDirectoryAdapter) RecomputeRating(ctx context.Context, hotspotID int) error {
	if err := a.DirectoryStore.RecomputeRating(ctx, hotspotID); err != nil {
		return err
	}
	a.invalidate(ctx, approvedListCacheKey, hotspotCacheKey(hotspotID))
	return nil
}

func (a *CachedDirectoryAdapter) put(ctx context.Context, key string, value interface{}, ttl int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to write cache entry")
	}
}

func (a *CachedDirectoryAdapter) invalidate(ctx context.Context, keys ...string) {
	if err := a.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("failed to invalidate cache keys %v", keys))
	}
}
