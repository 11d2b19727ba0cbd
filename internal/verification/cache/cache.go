// Package cache keeps recent verifications in Redis so repeated submissions
// of the same reference skip evidence gathering.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"citeguard/internal/scoring"
	"citeguard/internal/verification/models"
	"citeguard/pkg/platform/sentinel"
)

const keyPrefix = "citeguard:verdict:"

// RedisCache stores JSON-encoded verifications keyed by reference fingerprint.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a cache with the given entry TTL.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Fingerprint identifies a verification request independent of field order
// in the submitted JSON. The claim is part of the key because the AI layer
// judges whether the source supports it.
func Fingerprint(domain scoring.Domain, ref models.Reference, ms []scoring.Model) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = string(m)
	}
	h := sha256.New()
	for _, part := range []string{
		string(domain), ref.DOI, ref.URL, ref.Type, ref.Title, ref.Claim, strings.Join(names, ","),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached verification or sentinel.ErrNotFound.
func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*models.Verification, error) {
	raw, err := c.client.Get(ctx, keyPrefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cached verification: %w", err)
	}

	var v models.Verification
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode cached verification: %w", err)
	}
	return &v, nil
}

// Set caches v under fingerprint for the configured TTL.
func (c *RedisCache) Set(ctx context.Context, fingerprint string, v *models.Verification) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode verification: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+fingerprint, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cached verification: %w", err)
	}
	return nil
}
