package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/model"
)

// PriceProvider returns the ordered daily price history of a ticker between
// start and end inclusive.
type PriceProvider interface {
	GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error)
}

type cacheEntry struct {
	points  []model.PricePoint
	expires time.Time
}

// PriceCache keeps immutable price history snapshots keyed by ticker and
// window in front of another PriceProvider. Concurrent misses for the same
// key share one upstream call; callers always get their own copy.
type PriceCache struct {
	next PriceProvider
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

// NewPriceCache wraps next with a cache whose entries live for ttl. A
// non-positive ttl disables expiry.
func NewPriceCache(next PriceProvider, ttl time.Duration) *PriceCache {
	return &PriceCache{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", strings.ToUpper(ticker), start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// GetPriceHistory implements PriceProvider.
func (c *PriceCache) GetPriceHistory(ctx context.Context, ticker string, start, end time.Time) ([]model.PricePoint, error) {
	key := cacheKey(ticker, start, end)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.fresh(entry) {
		return slices.Clone(entry.points), nil
	}

	// The flight is shared, so it must outlive any single caller. Each caller
	// still stops waiting when its own ctx is done.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// A flight that finished between the read above and DoChan has
		// already filled the entry.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.fresh(entry) {
			return entry.points, nil
		}

		points, err := c.next.GetPriceHistory(flightCtx, ticker, start, end)
		if err != nil {
			return nil, err
		}
		points = slices.Clone(points)

		c.mu.Lock()
		c.entries[key] = cacheEntry{points: points, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return points, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]model.PricePoint)), nil
	}
}

func (c *PriceCache) fresh(entry cacheEntry) bool {
	return c.ttl <= 0 || c.now().Before(entry.expires)
}

// Invalidate drops every entry of ticker.
func (c *PriceCache) Invalidate(ticker string) {
	prefix := strings.ToUpper(ticker) + "|"

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries, expired ones included.
func (c *PriceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
