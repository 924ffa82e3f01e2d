package intent

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/reevit/reevit-go/checkout/checkoutmodel"
)

// Referencer hands out fresh payment references.
type Referencer interface {
	Next() string
}

// Options is everything that makes two intent creations the same logical
// request.
type Options struct {
	Config            checkoutmodel.Config
	Method            checkoutmodel.PaymentMethod
	PreferredProvider string
	AllowedProviders  []string
	PublicKey         string
}

type Identity struct {
	IdempotencyKey string
	Reference      string
	CacheEntry     Entry
}

type Resolver struct {
	cache      *Cache
	referencer Referencer
}

func NewResolver(cache *Cache, referencer Referencer) *Resolver {
	return &Resolver{
		cache:      cache,
		referencer: referencer,
	}
}

func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve derives the idempotency key for opts and pins a reference to it.
// Repeating the call for the same logical request yields the same key and,
// once a reference is cached, the same reference.
func (r *Resolver) Resolve(opts Options) Identity {
	key := opts.Config.IdempotencyKey
	if key == "" {
		key = GenerateIdempotencyKey(canonicalPayload(opts))
	}

	c := r.cache
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nower.Now()
	c.pruneLocked(now)

	reference := opts.Config.Reference
	if reference == "" {
		if existing, found := c.getLocked(key, now); found && existing.Reference != "" {
			reference = existing.Reference
		} else {
			reference = r.referencer.Next()
		}
	}

	entry := c.upsertLocked(key, EntryUpdate{Reference: &reference}, now)

	return Identity{
		IdempotencyKey: key,
		Reference:      reference,
		CacheEntry:     entry,
	}
}

// GenerateIdempotencyKey hashes a JSON-like payload. encoding/json writes map
// keys in sorted order at every level, so the key does not depend on
// insertion order. Values json cannot encode fall back to fmt, which also
// prints maps sorted.
func GenerateIdempotencyKey(payload map[string]any) string {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", payload))
	}

	hash := sha256.Sum256(data)
	return "idem_" + hex.EncodeToString(hash[:])
}

func canonicalPayload(opts Options) map[string]any {
	config := opts.Config

	methods := make([]string, 0, len(config.PaymentMethods))
	for _, m := range config.PaymentMethods {
		methods = append(methods, string(m))
	}
	slices.Sort(methods)

	allowed := opts.AllowedProviders
	if allowed == nil {
		allowed = []string{}
	}

	metadata := config.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	customFields := config.CustomFields
	if customFields == nil {
		customFields = map[string]any{}
	}

	publicKey := opts.PublicKey
	if publicKey == "" {
		publicKey = config.PublicKey
	}

	payload := map[string]any{
		"amount":            config.Amount,
		"currency":          config.Currency,
		"email":             config.Email,
		"phone":             config.Phone,
		"customerName":      config.CustomerName,
		"paymentLinkCode":   config.PaymentLinkCode,
		"paymentMethods":    methods,
		"metadata":          metadata,
		"customFields":      customFields,
		"method":            string(opts.Method),
		"preferredProvider": opts.PreferredProvider,
		"allowedProviders":  allowed,
		"publicKey":         publicKey,
	}
	if config.Reference != "" {
		payload["reference"] = config.Reference
	}

	return payload
}
