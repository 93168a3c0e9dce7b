package core

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/gitmine/internal/contract"
	"github.com/pierrec/lz4/v4"
	"github.com/sirupsen/logrus"
)

// currentCacheVersion defines the version of the snapshot blob layout
const currentCacheVersion = 1

// snapshotKind separates the cached git log from the cached cloc report of the same commit.
type snapshotKind string

const (
	logSnapshot  snapshotKind = "log"
	clocSnapshot snapshotKind = "cloc"
)

// cachedSnapshot returns the bytes stored under key, or computes and stores them.
// A nil store or any cache failure falls back to compute.
func cachedSnapshot(store contract.CacheStore, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if store == nil {
		return compute()
	}

	if data := checkCacheHit(store, key, ttl); data != nil {
		return data, nil
	}

	data, err := compute()
	if err != nil {
		return nil, err
	}

	if packed, err := compress(data); err == nil {
		if err := store.Set(key, packed, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.Logger().WithError(err).Debug("snapshot cache write failed")
		}
	}
	return data, nil
}

// checkCacheHit attempts to retrieve and validate a cached snapshot
func checkCacheHit(store contract.CacheStore, key string, ttl time.Duration) []byte {
	packed, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion {
		return nil
	}
	if ttl > 0 && time.Since(time.Unix(ts, 0)) > ttl {
		return nil // Stale
	}

	data, err := decompress(packed)
	if err != nil {
		contract.Logger().WithError(err).WithField("key", key).Warn("discarding corrupt snapshot")
		return nil
	}
	contract.Logger().WithFields(logrus.Fields{"key": key[:min(12, len(key))], "bytes": len(data)}).Debug("snapshot cache hit")
	return data
}

// cacheKey skips the HEAD lookup when no store is configured.
func cacheKey(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.CacheStore, kind snapshotKind) string {
	if store == nil {
		return ""
	}
	return generateCacheKey(ctx, cfg, client, kind)
}

// generateCacheKey creates a unique key for one snapshot of a repository state.
func generateCacheKey(ctx context.Context, cfg *contract.Config, client contract.GitClient, kind snapshotKind) string {
	// Include repo hash to invalidate cache when repository state changes
	repoHash, err := client.GetRepoHash(ctx, cfg.RepoPath)
	if err != nil {
		repoHash = ""
	}

	key := fmt.Sprintf("%s:%s:%s:%s:%d:%d",
		kind,
		cfg.RepoPath,
		repoHash,
		cfg.Separator,
		unixOrZero(cfg.StartTime),
		unixOrZero(cfg.EndTime),
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
}
