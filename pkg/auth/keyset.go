package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	taskerr "github.com/StricklySoft/taskhub/pkg/errors"
)

// DefaultKeySetTTL is the time a fetched key set is served before being
// refreshed from the provider.
const DefaultKeySetTTL = 5 * time.Minute

// maxKeySetResponseSize limits JWKS response bodies to 1 MB to prevent
// resource exhaustion from a misbehaving provider.
const maxKeySetResponseSize = 1 << 20

// HTTPClient abstracts the HTTP client used for fetching the JWKS document.
// This allows callers to provide custom HTTP clients with specific timeouts,
// transport settings, or middleware.
//
// The standard [http.Client] satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// keySnapshot is an immutable view of the provider's key set at a point in
// time. Snapshots are replaced wholesale on refresh, never mutated.
type keySnapshot struct {
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func (s *keySnapshot) fresh(ttl time.Duration) bool {
	return s != nil && time.Since(s.fetchedAt) < ttl
}

// KeySetCache caches the RSA public keys published at a single JWKS URL.
// Lookups against a fresh snapshot take no locks. When the snapshot is
// stale or has been invalidated, the next lookup refreshes it; concurrent
// lookups coalesce onto one fetch rather than each hitting the provider.
//
// KeySetCache is safe for concurrent use by multiple goroutines.
type KeySetCache struct {
	url    string
	ttl    time.Duration
	client HTTPClient

	snapshot atomic.Pointer[keySnapshot]
	// refreshMu serializes fetches. Holders re-check snapshot freshness
	// after acquiring it so that waiters reuse a refresh that completed
	// while they were blocked.
	refreshMu sync.Mutex
}

// NewKeySetCache creates a key set cache for the given JWKS URL.
// If ttl is zero or negative, [DefaultKeySetTTL] is used. If client is nil,
// a default [http.Client] with a 10-second timeout is used.
func NewKeySetCache(jwksURL string, ttl time.Duration, client HTTPClient) (*KeySetCache, error) {
	if jwksURL == "" {
		return nil, taskerr.New(taskerr.CodeValidation, "auth: JWKS URL must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultKeySetTTL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &KeySetCache{
		url:    jwksURL,
		ttl:    ttl,
		client: client,
	}, nil
}

// Key returns the RSA public key for the given key ID. If the cached
// snapshot is fresh the lookup is served from memory; otherwise the key set
// is fetched first.
//
// A kid absent from a fresh snapshot yields a *[taskerr.Error] with code
// [taskerr.CodeAuthenticationUnknownKey]; callers handling key rotation
// should [KeySetCache.Invalidate] and retry once. A failed fetch yields
// [taskerr.CodeUnavailableDependency] and leaves any previous snapshot
// in place.
func (c *KeySetCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	snap := c.snapshot.Load()
	if !snap.fresh(c.ttl) {
		var err error
		snap, err = c.refresh(ctx)
		if err != nil {
			return nil, err
		}
	}

	key, ok := snap.keys[kid]
	if !ok {
		return nil, taskerr.New(taskerr.CodeAuthenticationUnknownKey, fmt.Sprintf("auth: key ID %q not found in key set", kid))
	}
	return key, nil
}

// Invalidate discards the cached snapshot. The next call to [KeySetCache.Key]
// fetches a fresh key set regardless of TTL. This is used when a token names
// a kid the cache does not know, which usually means the provider rotated
// its keys.
func (c *KeySetCache) Invalidate() {
	c.snapshot.Store(nil)
}

// refresh fetches the key set and installs it as the current snapshot.
// Callers that lose the race to the refresh mutex reuse the snapshot the
// winner installed instead of fetching again.
func (c *KeySetCache) refresh(ctx context.Context) (*keySnapshot, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if snap := c.snapshot.Load(); snap.fresh(c.ttl) {
		return snap, nil
	}

	keys, err := c.fetch(ctx)
	if err != nil {
		return nil, taskerr.Wrap(err, taskerr.CodeUnavailableDependency, "auth: failed to fetch key set")
	}

	snap := &keySnapshot{
		keys:      keys,
		fetchedAt: time.Now(),
	}
	c.snapshot.Store(snap)
	return snap, nil
}

// jwksResponse represents the JSON structure of a JWKS endpoint response.
type jwksResponse struct {
	Keys []jwkKey `json:"keys"`
}

// jwkKey represents a single key in a JWKS response. Only the fields needed
// for RSA key reconstruction are included.
type jwkKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// fetch makes an HTTP GET request to the JWKS URL, parses the response, and
// constructs a map of key ID to public key. Non-RSA and malformed keys are
// skipped rather than failing the whole set.
func (c *KeySetCache) fetch(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to create JWKS request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: JWKS request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: JWKS endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetResponseSize))
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read JWKS response: %w", err)
	}

	var jwks jwksResponse
	if err := json.Unmarshal(body, &jwks); err != nil {
		return nil, fmt.Errorf("auth: failed to parse JWKS JSON: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kid == "" || k.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue // Skip malformed keys.
		}
		keys[k.Kid] = pubKey
	}
	return keys, nil
}

// parseRSAPublicKey constructs an *rsa.PublicKey from base64url-encoded
// modulus (n) and exponent (e) values.
func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nBase64)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to decode RSA modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eBase64)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to decode RSA exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	return &rsa.PublicKey{
		N: n,
		E: int(e.Int64()),
	}, nil
}
