package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/rand"
	"path/filepath"
	"time"

	"kudos/internal/infrastructure/filestore"
	"kudos/pkg/logger"
)

const ratelimitDir = "ratelimit"

// Limiter is a fixed-window counter persisted per key, so limits survive
// process restarts. Counting errors never block a request: when the entry
// cannot be read or written the request is allowed through.
type Limiter struct {
	store  *filestore.Store
	name   string
	max    int
	window time.Duration
}

type rateLimitEntry struct {
	Count        int       `json:"count"`
	ResetTime    time.Time `json:"resetTime"`
	FirstRequest time.Time `json:"firstRequest"`
}

// Result reports the outcome of a single Check call. RetryAfter is only
// meaningful when Allowed is false.
type Result struct {
	Allowed    bool
	Remaining  int
	ResetTime  time.Time
	RetryAfter int
}

func NewLimiter(store *filestore.Store, name string, max int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		name:   name,
		max:    max,
		window: window,
	}
}

// Check counts one request against the window for key and reports whether
// it is allowed. Keys are hashed, so raw addresses and emails never appear
// in filenames.
func (l *Limiter) Check(key string) Result {
	filename := l.name + "-" + hashKey(key) + ".json"
	relPath := filepath.Join(ratelimitDir, filename)

	unlock := l.store.Lock("ratelimit:" + filename)
	defer unlock()

	now := time.Now().UTC()

	var entry rateLimitEntry
	if err := l.store.ReadJSON(relPath, &entry); err != nil && !filestore.IsNotExist(err) {
		logger.Warn("Rate limit read failed for %s, allowing request: %v", filename, err)
		entry = rateLimitEntry{}
	}

	if entry.Count == 0 || now.After(entry.ResetTime) {
		entry = rateLimitEntry{
			Count:        1,
			ResetTime:    now.Add(l.window),
			FirstRequest: now,
		}
		l.persist(relPath, filename, &entry)
		l.maybeCleanup()
		return Result{Allowed: true, Remaining: l.max - 1, ResetTime: entry.ResetTime}
	}

	if entry.Count < l.max {
		entry.Count++
		l.persist(relPath, filename, &entry)
		l.maybeCleanup()
		return Result{Allowed: true, Remaining: l.max - entry.Count, ResetTime: entry.ResetTime}
	}

	return Result{
		Allowed:    false,
		Remaining:  0,
		ResetTime:  entry.ResetTime,
		RetryAfter: retryAfterSeconds(now, entry.ResetTime),
	}
}

func (l *Limiter) persist(relPath, filename string, entry *rateLimitEntry) {
	if err := l.store.WriteJSON(relPath, entry); err != nil {
		logger.Warn("Rate limit write failed for %s, allowing request: %v", filename, err)
	}
}

// maybeCleanup sweeps expired entries on roughly one percent of checks, so
// the directory stays bounded without a dedicated timer.
func (l *Limiter) maybeCleanup() {
	if rand.Intn(100) != 0 {
		return
	}
	go func() {
		if _, err := l.CleanupExpired(); err != nil {
			logger.Warn("Rate limit cleanup failed: %v", err)
		}
	}()
}

// CleanupExpired removes every entry in the rate limit directory whose
// window has closed, across all limiter names sharing the directory.
func (l *Limiter) CleanupExpired() (int, error) {
	names, err := l.store.ListDocuments(ratelimitDir)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	removed := 0
	for _, name := range names {
		relPath := filepath.Join(ratelimitDir, name+".json")

		var entry rateLimitEntry
		if err := l.store.ReadJSON(relPath, &entry); err != nil {
			if filestore.IsNotExist(err) {
				continue
			}
			// Unreadable entries are dead weight
			if err := l.store.Remove(relPath); err == nil {
				removed++
			}
			continue
		}

		if now.After(entry.ResetTime) {
			if err := l.store.Remove(relPath); err != nil {
				return removed, err
			}
			removed++
		}
	}

	return removed, nil
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

func retryAfterSeconds(now, resetTime time.Time) int {
	seconds := int(math.Ceil(resetTime.Sub(now).Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
