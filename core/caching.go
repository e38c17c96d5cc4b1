package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kuro1999/isw2-dataset/internal/contract"
	"github.com/kuro1999/isw2-dataset/schema"
)

// currentCacheVersion defines the version of the fetch cache payloads
const currentCacheVersion = 1

// Fetch cache entry kinds.
const (
	ticketsKind  = "tickets"
	versionsKind = "versions"
	tagsKind     = "tags"
)

// BuggyInfoCachePath returns the cache file of a tracker project under dir.
func BuggyInfoCachePath(dir, projectKey string) string {
	return filepath.Join(dir, strings.ToLower(projectKey)+"_buggy_info_cache.json")
}

// LoadBuggyInfo reads a cached BuggyInfo file.
func LoadBuggyInfo(path string) (*schema.BuggyInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info := schema.NewBuggyInfo()
	if err := json.Unmarshal(data, info); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if info.BuggyMethods == nil {
		info.BuggyMethods = []string{}
	}
	if info.MetricsByMethod == nil {
		info.MetricsByMethod = map[string]schema.MethodMetrics{}
	}
	return info, nil
}

// SaveBuggyInfo writes info to path through a temporary file and a rename.
func SaveBuggyInfo(path string, info *schema.BuggyInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return contract.WriteFileAtomic(path, data)
}

// cachedExtract returns the cached BuggyInfo of the project when the cache
// file can be read, and otherwise extracts it and saves it. A failed save is
// logged and the fresh result is still returned.
func cachedExtract(ctx context.Context, x *Extractor, cacheDir, repoPath, projectKey string, tickets []schema.Ticket) (*schema.BuggyInfo, ExtractStats, bool, error) {
	path := BuggyInfoCachePath(cacheDir, projectKey)
	if info, err := LoadBuggyInfo(path); err == nil {
		x.log.WithField("file", path).Info("Loaded buggy info from cache")
		return info, ExtractStats{}, true, nil
	} else if !os.IsNotExist(err) {
		x.log.WithField("file", path).WithError(err).Warn("Ignoring unreadable cache file")
	}

	info, stats, err := x.Extract(ctx, repoPath, projectKey, tickets)
	if err != nil {
		return nil, stats, false, err
	}
	if err := SaveBuggyInfo(path, info); err != nil {
		contract.LogWarn("Failed to write buggy info cache", err)
	}
	return info, stats, false, nil
}

// cachedFetch serves a tracker or forge response from the fetch cache, or
// calls fetch and stores its result. A nil store disables caching.
func cachedFetch[T any](store contract.CacheStore, ttl time.Duration, kind, project string, fetch func() (T, error)) (T, error) {
	if store == nil {
		return fetch()
	}
	key := generateCacheKey(kind, project)
	if result, ok := checkCacheHit[T](store, key, ttl); ok {
		return result, nil
	}
	return computeAndStore(store, key, fetch)
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit[T any](store contract.CacheStore, key string, ttl time.Duration) (T, bool) {
	var result T
	data, version, ts, err := store.Get(key)
	if err != nil {
		return result, false // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= ttl {
			if err := json.Unmarshal(data, &result); err == nil {
				return result, true // Cache hit
			}
		}
	}

	var zero T
	return zero, false // Cache miss (stale, version mismatch or corrupt)
}

// computeAndStore computes the result and stores it in cache
func computeAndStore[T any](store contract.CacheStore, key string, fetch func() (T, error)) (T, error) {
	result, err := fetch()
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to store fetch cache entry", err)
		}
	}

	return result, nil
}

// generateCacheKey creates a unique key for a fetch kind of a project
func generateCacheKey(kind, project string) string {
	key := fmt.Sprintf("%s|%s", kind, project)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
