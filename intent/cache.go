package intent

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
	"github.com/reevit/reevit-go/lib/mylog"
	"github.com/reevit/reevit-go/lib/mytime"
)

const DefaultTTL = 10 * time.Minute

// Entry holds either a pending creation or a completed response for one
// idempotency key, never both.
type Entry struct {
	Pending   *Pending
	Response  *checkoutmodel.PaymentIntentResponse
	ExpiresAt time.Time
	Reference string
}

func (e Entry) InFlight() bool {
	return e.Pending != nil
}

// EntryUpdate lists the fields to merge into an entry; nil fields are left
// untouched. Setting Response clears Pending.
type EntryUpdate struct {
	Pending   *Pending
	Response  *checkoutmodel.PaymentIntentResponse
	Reference *string
}

type CacheOption func(c *Cache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

func WithMetrics(registerer prometheus.Registerer) CacheOption {
	return func(c *Cache) {
		c.metrics = newMetrics(registerer)
	}
}

func WithLogger(logger mylog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// Cache maps idempotency keys to entries with a sliding TTL: every write
// pushes the expiry forward. Expired entries are dropped lazily on read and
// prune; there is no background sweeper.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	nower   mytime.Nower
	metrics *metrics
	logger  mylog.Logger
}

func NewCache(nower mytime.Nower, opts ...CacheOption) *Cache {
	c := &Cache{
		entries: map[string]Entry{},
		ttl:     DefaultTTL,
		nower:   nower,
		logger:  mylog.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Get returns the live entry for key. An expired entry is evicted and
// reported as absent.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.getLocked(key, c.nower.Now())
}

func (c *Cache) Upsert(key string, update EntryUpdate) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.upsertLocked(key, update, c.nower.Now())
}

func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.metrics.setSize(len(c.entries))
}

// Prune drops every entry that expired at or before now and returns how many
// were dropped.
func (c *Cache) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pruneLocked(now)
}

// GetEntry prunes and then looks key up.
func (c *Cache) GetEntry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nower.Now()
	c.pruneLocked(now)
	entry, found := c.getLocked(key, now)
	if found {
		c.metrics.hit()
	} else {
		c.metrics.miss()
	}
	return entry, found
}

func (c *Cache) CachePending(key string, pending *Pending) Entry {
	return c.Upsert(key, EntryUpdate{Pending: pending})
}

func (c *Cache) CacheResponse(key string, response checkoutmodel.PaymentIntentResponse) Entry {
	return c.Upsert(key, EntryUpdate{Response: &response})
}

// ClearEntry forgets key so that the next attempt starts from scratch instead
// of replaying a failed or abandoned creation.
func (c *Cache) ClearEntry(key string) {
	c.logger.Log(context.Background(), key, mylog.SeverityDebug, "Clearing intent cache entry")
	c.Remove(key)
}

// ClearPending forgets key only while it still holds pending. An owner whose
// entry expired and was claimed again must not remove the newer claim.
func (c *Cache) ClearPending(key string, pending *Pending) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found || entry.Pending != pending {
		return false
	}

	c.logger.Log(context.Background(), key, mylog.SeverityDebug, "Clearing pending intent creation")
	delete(c.entries, key)
	c.metrics.setSize(len(c.entries))
	return true
}

// ClaimPending atomically decides who performs the network call for key.
// When the entry already holds a response or a pending creation, that entry
// is returned with owner=false. Otherwise a new Pending is attached and
// returned with owner=true; the caller must eventually resolve it.
func (c *Cache) ClaimPending(key string) (*Pending, bool, Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nower.Now()
	entry, found := c.getLocked(key, now)
	if found && entry.Response != nil {
		c.metrics.hit()
		return nil, false, entry
	}
	if found && entry.Pending != nil {
		c.metrics.hit()
		return entry.Pending, false, entry
	}

	c.metrics.miss()
	pending := NewPending()
	entry = c.upsertLocked(key, EntryUpdate{Pending: pending}, now)
	return pending, true, entry
}

func (c *Cache) getLocked(key string, now time.Time) (Entry, bool) {
	entry, found := c.entries[key]
	if !found {
		return Entry{}, false
	}
	if !entry.ExpiresAt.After(now) {
		delete(c.entries, key)
		c.metrics.evicted(1)
		c.metrics.setSize(len(c.entries))
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) upsertLocked(key string, update EntryUpdate, now time.Time) Entry {
	entry, _ := c.getLocked(key, now)

	if update.Pending != nil {
		entry.Pending = update.Pending
	}
	if update.Response != nil {
		entry.Response = update.Response
		entry.Pending = nil
	}
	if update.Reference != nil {
		entry.Reference = *update.Reference
	}
	entry.ExpiresAt = now.Add(c.ttl)

	c.entries[key] = entry
	c.metrics.setSize(len(c.entries))

	return entry
}

func (c *Cache) pruneLocked(now time.Time) int {
	pruned := 0
	for key, entry := range c.entries {
		if !entry.ExpiresAt.After(now) {
			delete(c.entries, key)
			pruned++
		}
	}
	if pruned > 0 {
		c.metrics.evicted(pruned)
		c.metrics.setSize(len(c.entries))
	}
	return pruned
}
