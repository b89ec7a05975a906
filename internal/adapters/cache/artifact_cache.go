package cache

import (
	"fmt"
	"time"

	"eternalpay/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoArtifactCache holds Pix payment artifacts keyed by transaction id.
// Artifacts are ephemeral: the TTL mirrors the horizon after which the remote
// service cancels a pending transaction, so an expired entry is simply
// regenerated on the next pending observation.
type RistrettoArtifactCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewArtifactCache(maxItems int64, ttl time.Duration) (*RistrettoArtifactCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create artifact cache failed: %w", err)
	}
	return &RistrettoArtifactCache{cache: c, ttl: ttl}, nil
}

func (c *RistrettoArtifactCache) Get(txID string) (domain.PixArtifact, bool) {
	if v, ok := c.cache.Get(txID); ok {
		artifact, ok := v.(domain.PixArtifact)
		return artifact, ok
	}
	return domain.PixArtifact{}, false
}

func (c *RistrettoArtifactCache) Set(txID string, artifact domain.PixArtifact) {
	c.cache.SetWithTTL(txID, artifact, 1, c.ttl)
}

func (c *RistrettoArtifactCache) Close() { c.cache.Close() }
