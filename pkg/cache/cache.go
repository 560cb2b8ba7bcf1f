// Package cache provides the caching layer for pipeline results: seeds,
// layouts, and rendered artifacts.
//
// Backends implement the [Cache] interface:
//   - [FileCache]: file-based cache for CLI usage
//   - [RedisCache]: Redis-backed cache for server deployments
//   - [NullCache]: no-op cache for tests and --no-cache runs
//
// Keys are generated by a [Keyer] from content hashes plus the options that
// affect each stage, so a changed orientation or grouping mode never hits a
// stale entry.
package cache

import (
	"context"
	"time"
)

// TTLs per entry class. Seeds and layouts derive purely from input content,
// so the TTL mainly bounds disk growth; artifacts are cheap to recompute.
const (
	TTLSeed     = 30 * 24 * time.Hour
	TTLLayout   = 30 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with TTL support.
// Get returns (data, hit, error); a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// SeedKeyOpts are the options that affect seed construction.
type SeedKeyOpts struct {
	NodeKindFilter []string
}

// LayoutKeyOpts are the options that affect geometry computation.
type LayoutKeyOpts struct {
	Orientation  string
	GroupingMode string
	BundleEdges  bool
}

// ArtifactKeyOpts are the options that affect artifact rendering.
type ArtifactKeyOpts struct {
	Format string
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	SeedKey(graphHash string, opts SeedKeyOpts) string
	LayoutKey(seedHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// SeedKey generates a key for canonical seed caching.
func (k *DefaultKeyer) SeedKey(graphHash string, opts SeedKeyOpts) string {
	return hashKey("seed", graphHash, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(seedHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", seedHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
