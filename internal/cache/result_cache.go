// Package cache holds the process-wide, time-boxed result cache that sits in
// front of completion store reads.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultStatsTTL applies to derived aggregates such as streaks.
	DefaultStatsTTL = 2 * time.Minute
	// DefaultEntriesTTL applies to raw completion listings and member lists.
	DefaultEntriesTTL = 5 * time.Minute
)

type Kind string

const (
	KindStats       Kind = "stats"
	KindHistory     Kind = "history"
	KindUserEntries Kind = "entries"
	KindWeek        Kind = "week"
	KindMonth       Kind = "month"
	KindMembers     Kind = "members"
)

// Key identifies a cached result. Group-wide results leave UserID empty.
type Key struct {
	Kind    Kind
	UserID  string
	GroupID string
	Period  string
}

func (k Key) String() string {
	return strings.Join([]string{string(k.Kind), k.UserID, k.GroupID, k.Period}, ":")
}

type Entry struct {
	Data      any
	Timestamp time.Time
	ExpiresAt time.Time
}

func (e Entry) usable(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

type scope struct {
	userID  string
	groupID string
}

// Generation is a snapshot of the invalidation counters covering one key. A
// result fetched under an older generation must not be stored.
type Generation struct {
	global uint64
	group  uint64
	scope  uint64
}

func (g Generation) String() string {
	return strconv.FormatUint(g.global, 10) + "." + strconv.FormatUint(g.group, 10) + "." + strconv.FormatUint(g.scope, 10)
}

type ResultCache struct {
	mu      sync.Mutex
	entries map[Key]Entry

	globalGen uint64
	groupGen  map[string]uint64
	scopeGen  map[scope]uint64

	now     func() time.Time
	metrics *Metrics
	logger  *zap.Logger
}

type Option func(*ResultCache)

func WithClock(now func() time.Time) Option {
	return func(c *ResultCache) {
		c.now = now
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *ResultCache) {
		c.metrics = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *ResultCache) {
		c.logger = l
	}
}

func New(opts ...Option) *ResultCache {
	c := &ResultCache{
		entries:  make(map[Key]Entry),
		groupGen: make(map[string]uint64),
		scopeGen: make(map[scope]uint64),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = DefaultMetrics()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Get returns the cached value for key. Expired entries are evicted and
// reported as absent.
func (c *ResultCache) Get(ctx context.Context, key Key) (any, bool) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.usable(c.now()) {
		delete(c.entries, key)
		c.mu.Unlock()
		c.metrics.evicted(ctx, key.Kind, 1)
		c.metrics.miss(ctx, key.Kind)
		return nil, false
	}
	c.mu.Unlock()
	if !ok {
		c.metrics.miss(ctx, key.Kind)
		return nil, false
	}
	c.metrics.hit(ctx, key.Kind)
	return entry.Data, true
}

func (c *ResultCache) Set(ctx context.Context, key Key, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, value, ttl)
}

func (c *ResultCache) store(key Key, value any, ttl time.Duration) {
	now := c.now()
	c.entries[key] = Entry{
		Data:      value,
		Timestamp: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Generation snapshots the counters for key. Pair it with SetIfCurrent.
func (c *ResultCache) Generation(key Key) Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(key)
}

func (c *ResultCache) generation(key Key) Generation {
	return Generation{
		global: c.globalGen,
		group:  c.groupGen[key.GroupID],
		scope:  c.scopeGen[scope{userID: key.UserID, groupID: key.GroupID}],
	}
}

// SetIfCurrent stores value only if no invalidation touched key since gen was
// taken. It reports whether the value was stored.
func (c *ResultCache) SetIfCurrent(ctx context.Context, key Key, value any, ttl time.Duration, gen Generation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation(key) != gen {
		c.logger.Debug("dropping result fetched before invalidation", zap.Stringer("key", key))
		return false
	}
	c.store(key, value, ttl)
	return true
}

// InvalidateUserGroup drops every entry of userID in groupID, whatever the
// period, together with the group-wide entries of groupID that embed the
// user's records.
func (c *ResultCache) InvalidateUserGroup(ctx context.Context, userID, groupID string) int {
	c.mu.Lock()
	c.scopeGen[scope{userID: userID, groupID: groupID}]++
	c.scopeGen[scope{groupID: groupID}]++
	removed := c.removeLocked(func(k Key) bool {
		return k.GroupID == groupID && (k.UserID == userID || k.UserID == "")
	})
	c.mu.Unlock()
	c.metrics.invalidated(ctx, "user_group", removed)
	return removed
}

// InvalidateGroup drops every entry of groupID for every user.
func (c *ResultCache) InvalidateGroup(ctx context.Context, groupID string) int {
	c.mu.Lock()
	c.groupGen[groupID]++
	removed := c.removeLocked(func(k Key) bool {
		return k.GroupID == groupID
	})
	c.mu.Unlock()
	c.metrics.invalidated(ctx, "group", removed)
	return removed
}

// Invalidate drops entries matching pred. In-flight reads of any key are
// discarded too, since pred cannot be mapped to generation counters.
func (c *ResultCache) Invalidate(ctx context.Context, pred func(Key) bool) int {
	c.mu.Lock()
	c.globalGen++
	removed := c.removeLocked(pred)
	c.mu.Unlock()
	c.metrics.invalidated(ctx, "predicate", removed)
	return removed
}

// InvalidatePrefix drops entries whose String form starts with prefix.
func (c *ResultCache) InvalidatePrefix(ctx context.Context, prefix string) int {
	return c.Invalidate(ctx, func(k Key) bool {
		return strings.HasPrefix(k.String(), prefix)
	})
}

func (c *ResultCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.globalGen++
	removed := len(c.entries)
	c.entries = make(map[Key]Entry)
	c.mu.Unlock()
	c.metrics.invalidated(ctx, "clear", removed)
}

func (c *ResultCache) removeLocked(pred func(Key) bool) int {
	removed := 0
	for k := range c.entries {
		if pred(k) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// CleanExpiredEntries evicts every expired entry and returns how many.
func (c *ResultCache) CleanExpiredEntries(ctx context.Context) int {
	c.mu.Lock()
	now := c.now()
	removed := make(map[Kind]int)
	total := 0
	for k, e := range c.entries {
		if !e.usable(now) {
			delete(c.entries, k)
			removed[k.Kind]++
			total++
		}
	}
	c.mu.Unlock()
	for kind, n := range removed {
		c.metrics.evicted(ctx, kind, n)
	}
	return total
}

func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RunSweeper calls CleanExpiredEntries every interval until ctx is done.
func (c *ResultCache) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.CleanExpiredEntries(ctx); n > 0 {
				c.logger.Debug("swept expired cache entries", zap.Int("count", n))
			}
		}
	}
}
