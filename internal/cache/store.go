package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// DefaultTTL is how long a stored series stays usable without a refetch.
const DefaultTTL = 86400 * time.Second

const (
	keyPrefix          = "stockData"
	timestampKeySuffix = "-timestamp"
)

// Entry is one cached series: the serialized payload and when it was written.
type Entry struct {
	Payload  string
	StoredAt int64 // unix seconds
}

// Store is a plain key-value cache. It never judges freshness; callers use Fresh.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Close() error
}

// DateRange is the window a cache key covers, in unix seconds.
type DateRange struct {
	From int64
	To   int64
}

// MonthWindow returns [now-1 month, now], both truncated to the UTC day so
// that every lookup on the same day lands on the same key.
func MonthWindow(now time.Time) DateRange {
	to := now.UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, -1, 0)
	return DateRange{From: from.Unix(), To: to.Unix()}
}

// Key derives the cache key for a symbol and window.
func Key(symbol string, r DateRange) string {
	return fmt.Sprintf("%s-%s-%d-%d", keyPrefix, symbol, r.From, r.To)
}

// TimestampKey is where the entry's StoredAt field lives.
func TimestampKey(key string) string {
	return key + timestampKeySuffix
}

// Fresh reports whether e is younger than ttl at now.
func Fresh(e Entry, now time.Time, ttl time.Duration) bool {
	return now.Unix()-e.StoredAt < int64(ttl/time.Second)
}

// decodeEntry rebuilds an Entry from its two raw fields. A missing or
// non-numeric timestamp makes the whole entry unusable.
func decodeEntry(payload, ts string) (Entry, bool) {
	if payload == "" || ts == "" {
		return Entry{}, false
	}
	storedAt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return Entry{}, false
	}
	return Entry{Payload: payload, StoredAt: storedAt}, true
}

func encodeTimestamp(storedAt int64) string {
	return strconv.FormatInt(storedAt, 10)
}
