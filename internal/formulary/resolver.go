// Package formulary resolves free-text drug names to the engine's known
// drug identities. The compiled-in alias table answers almost every lookup;
// names it does not recognize can optionally fall through a two-tier cache
// to an RxNorm lookup that maps brand and misspelled names back onto their
// ingredient.
package formulary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/chemo-dose-safety-server/internal/domain"
	"github.com/chemo-dose-safety-server/pkg/external"
)

// Resolution is the outcome of a drug-name lookup. Identity is DrugUnknown
// when neither the alias table nor RxNorm could place the name; the engine
// still runs name-based checks against unknown drugs.
type Resolution struct {
	Identity       domain.DrugIdentity `json:"identity"`
	NormalizedName string              `json:"normalized_name"`
	RxCUI          string              `json:"rxcui,omitempty"`
	Source         string              `json:"source"`
}

// Resolver resolves drug names to identities.
type Resolver interface {
	Resolve(ctx context.Context, name string) (Resolution, error)
	InvalidateCache(name string)
	Stats() CacheStats
}

// CacheStats tracks resolver cache performance.
type CacheStats struct {
	StaticHits    int64     `json:"static_hits"`
	MemoryHits    int64     `json:"memory_hits"`
	MemoryMisses  int64     `json:"memory_misses"`
	RedisHits     int64     `json:"redis_hits"`
	RedisMisses   int64     `json:"redis_misses"`
	ExternalCalls int64     `json:"external_calls"`
	TotalRequests int64     `json:"total_requests"`
	ErrorCount    int64     `json:"error_count"`
	LastReset     time.Time `json:"last_reset"`
}

// DrugNormalizer is the slice of the RxNorm client the resolver needs.
type DrugNormalizer interface {
	NormalizeDrugName(ctx context.Context, name string) (*external.DrugConcept, error)
}

// CachedResolver implements Resolver with a static alias table in front of
// an in-memory LRU tier, an optional Redis tier, and an optional RxNorm
// fallback. With both options disabled it degrades to the alias table
// alone, which is the default deployment.
type CachedResolver struct {
	normalizer DrugNormalizer
	memory     *lru.Cache
	redis      *redis.Client
	memoryTTL  time.Duration
	redisTTL   time.Duration

	logger  *logrus.Logger
	stats   CacheStats
	statsMu sync.Mutex
}

// Options configures the optional resolver tiers.
type Options struct {
	MemorySize int
	MemoryTTL  time.Duration
	RedisTTL   time.Duration
	Redis      *redis.Client
	Normalizer DrugNormalizer
}

// NewCachedResolver creates a resolver. Redis and Normalizer may be nil.
func NewCachedResolver(opts Options, logger *logrus.Logger) (*CachedResolver, error) {
	if opts.MemorySize == 0 {
		opts.MemorySize = 1000
	}
	if opts.MemoryTTL == 0 {
		opts.MemoryTTL = 15 * time.Minute
	}
	if opts.RedisTTL == 0 {
		opts.RedisTTL = 24 * time.Hour
	}

	memory, err := lru.New(opts.MemorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}

	return &CachedResolver{
		normalizer: opts.Normalizer,
		memory:     memory,
		redis:      opts.Redis,
		memoryTTL:  opts.MemoryTTL,
		redisTTL:   opts.RedisTTL,
		logger:     logger,
		stats:      CacheStats{LastReset: time.Now()},
	}, nil
}

// Resolve maps a drug name to a Resolution. The alias table always wins;
// cache tiers and RxNorm are consulted only for names it does not know.
func (r *CachedResolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	r.bump(func(s *CacheStats) { s.TotalRequests++ })

	key := normalizeKey(name)
	if key == "" {
		r.bump(func(s *CacheStats) { s.ErrorCount++ })
		return Resolution{}, domain.ErrEmptyDrugName
	}

	if identity := domain.ResolveDrugIdentity(name); identity != domain.DrugUnknown {
		r.bump(func(s *CacheStats) { s.StaticHits++ })
		return Resolution{Identity: identity, NormalizedName: identity.String(), Source: "static"}, nil
	}

	if res, ok := r.fromMemory(key); ok {
		r.bump(func(s *CacheStats) { s.MemoryHits++ })
		return res, nil
	}
	r.bump(func(s *CacheStats) { s.MemoryMisses++ })

	if res, ok := r.fromRedis(ctx, key); ok {
		r.bump(func(s *CacheStats) { s.RedisHits++ })
		r.toMemory(key, res)
		return res, nil
	}
	r.bump(func(s *CacheStats) { s.RedisMisses++ })

	res, err := r.fromRxNorm(ctx, name)
	if err != nil {
		r.bump(func(s *CacheStats) { s.ErrorCount++ })
		// An unreachable or unhelpful RxNorm never blocks a dose check;
		// the name simply stays unknown.
		r.logger.WithError(err).WithField("drug", name).Debug("Drug name resolution fell back to unknown")
		return Resolution{Identity: domain.DrugUnknown, NormalizedName: key, Source: "unresolved"}, nil
	}

	r.toMemory(key, res)
	r.toRedis(ctx, key, res)
	return res, nil
}

// InvalidateCache drops the cached resolution for a drug name.
func (r *CachedResolver) InvalidateCache(name string) {
	key := normalizeKey(name)
	if key == "" {
		return
	}
	r.memory.Remove(key)
	if r.redis != nil {
		r.redis.Del(context.Background(), redisKey(key))
	}
}

// Stats returns a snapshot of cache performance counters.
func (r *CachedResolver) Stats() CacheStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}

func (r *CachedResolver) fromRxNorm(ctx context.Context, name string) (Resolution, error) {
	if r.normalizer == nil {
		return Resolution{}, fmt.Errorf("no RxNorm client configured")
	}
	r.bump(func(s *CacheStats) { s.ExternalCalls++ })

	concept, err := r.normalizer.NormalizeDrugName(ctx, name)
	if err != nil {
		return Resolution{}, err
	}

	// The ingredient is the generic name; re-running it through the alias
	// table turns brand names into known identities.
	identity := domain.ResolveDrugIdentity(concept.IngredientName)
	if identity == domain.DrugUnknown {
		identity = domain.ResolveDrugIdentity(concept.Name)
	}

	normalized := concept.IngredientName
	if normalized == "" {
		normalized = concept.Name
	}

	res := Resolution{
		Identity:       identity,
		NormalizedName: strings.ToLower(normalized),
		RxCUI:          concept.RxCUI,
		Source:         "rxnorm",
	}

	r.logger.WithFields(logrus.Fields{
		"drug":     name,
		"identity": identity.String(),
		"rxcui":    concept.RxCUI,
	}).Info("Resolved drug name via RxNorm")

	return res, nil
}

type memoryEntry struct {
	resolution Resolution
	expiry     time.Time
}

func (r *CachedResolver) fromMemory(key string) (Resolution, bool) {
	value, ok := r.memory.Get(key)
	if !ok {
		return Resolution{}, false
	}
	entry := value.(memoryEntry)
	if time.Now().After(entry.expiry) {
		r.memory.Remove(key)
		return Resolution{}, false
	}
	return entry.resolution, true
}

func (r *CachedResolver) toMemory(key string, res Resolution) {
	r.memory.Add(key, memoryEntry{resolution: res, expiry: time.Now().Add(r.memoryTTL)})
}

func (r *CachedResolver) fromRedis(ctx context.Context, key string) (Resolution, bool) {
	if r.redis == nil {
		return Resolution{}, false
	}
	data, err := r.redis.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		return Resolution{}, false
	}
	var res Resolution
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("Dropping corrupt cached resolution")
		r.redis.Del(ctx, redisKey(key))
		return Resolution{}, false
	}
	return res, true
}

func (r *CachedResolver) toRedis(ctx context.Context, key string, res Resolution) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, redisKey(key), data, r.redisTTL).Err(); err != nil {
		r.logger.WithError(err).WithField("key", key).Debug("Failed to write resolution to Redis")
	}
}

func (r *CachedResolver) bump(update func(*CacheStats)) {
	r.statsMu.Lock()
	update(&r.stats)
	r.statsMu.Unlock()
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func redisKey(key string) string {
	return "formulary:drug:" + key
}
