// Package local provides an in-process cache for single-node deployments
// and tests. It backs the auth sessions and the experience leaderboard
// when no Redis address is configured.
package local

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a key or member does not exist.
var ErrNotFound = errors.New("cache: key not found")

// Config holds LocalCache settings.
type Config struct {
	GCInterval time.Duration
}

type item struct {
	value    string
	deadline time.Time // zero means no expiry
}

func (it item) live(now time.Time) bool {
	return it.deadline.IsZero() || now.Before(it.deadline)
}

// LocalCache keeps all data in two mutex-guarded maps. Expired KV items
// are dropped lazily on access and swept by a background goroutine.
type LocalCache struct {
	mu    sync.RWMutex
	items map[string]item
	sets  map[string]map[string]float64 // zset key -> member -> score

	gcInterval time.Duration
	done       chan struct{}
}

// NewCache creates a LocalCache and starts its expiry sweeper.
func NewCache(cfg Config) (*LocalCache, error) {
	interval := cfg.GCInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	c := &LocalCache{
		items:      make(map[string]item),
		sets:       make(map[string]map[string]float64),
		gcInterval: interval,
		done:       make(chan struct{}),
	}
	go c.sweep()
	return c, nil
}

// Close stops the expiry sweeper.
func (c *LocalCache) Close() {
	close(c.done)
}

func (c *LocalCache) sweep() {
	ticker := time.NewTicker(c.gcInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, it := range c.items {
				if !it.live(now) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *LocalCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !it.live(time.Now()) {
		return "", ErrNotFound
	}
	return it.value, nil
}

func (c *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	it := item{value: value}
	if ttl > 0 {
		it.deadline = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = it
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.items, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	return ok && it.live(time.Now()), nil
}

func (c *LocalCache) ZAdd(_ context.Context, key string, score float64, member string) error {
	c.mu.Lock()
	set, ok := c.sets[key]
	if !ok {
		set = make(map[string]float64)
		c.sets[key] = set
	}
	set[member] = score
	c.mu.Unlock()
	return nil
}

// ZRevRange returns members ordered by score descending, inclusive of
// both bounds. A negative stop means "through the end", as in Redis.
func (c *LocalCache) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	c.mu.RLock()
	set := c.sets[key]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		si, sj := set[members[i]], set[members[j]]
		if si != sj {
			return si > sj
		}
		return members[i] < members[j]
	})
	c.mu.RUnlock()

	n := int64(len(members))
	if start >= n {
		return nil, nil
	}
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	return members[start : stop+1], nil
}

func (c *LocalCache) ZScore(_ context.Context, key, member string) (float64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if score, ok := c.sets[key][member]; ok {
		return score, nil
	}
	return 0, ErrNotFound
}
