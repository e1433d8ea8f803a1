package oracle

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/gnosia/internal/model"
)

// CachedOracle memoizes lookups of another oracle. Useful in front of a
// remote provider; pointless but harmless in front of the static table.
type CachedOracle struct {
	inner Oracle
	cache *gocache.Cache
}

// NewCachedOracle wraps inner with an in-memory TTL cache.
func NewCachedOracle(inner Oracle, ttl time.Duration) *CachedOracle {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedOracle{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// Lookup returns the cached records for a category, consulting the
// wrapped oracle on a miss. Empty results are cached too so that absent
// categories do not hit the inner oracle repeatedly.
func (o *CachedOracle) Lookup(categoryID string) []model.ValidationRecord {
	if val, found := o.cache.Get(categoryID); found {
		records, _ := val.([]model.ValidationRecord)
		return records
	}
	records := o.inner.Lookup(categoryID)
	o.cache.Set(categoryID, records, gocache.DefaultExpiration)
	return records
}
