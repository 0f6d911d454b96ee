package segment

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/internal/timerange"
	"github.com/CAESER-UOFM/CAESER-water-levels-monitoring-system-sub000/pkg/redis"
)

// testSegment stands in for a block of readings.
type testSegment struct {
	WellID string    `json:"well_id"`
	Values []float64 `json:"values"`
}

func testKey(well string, startDay int) Key {
	r := timerange.Range{
		Start: time.Date(2024, 3, startDay, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, startDay+10, 0, 0, 0, 0, time.UTC),
	}
	return NewKey(well, r, "daily")
}

func TestMemoryCacheHitAndMiss(t *testing.T) {
	cache, err := NewMemoryCache[testSegment](10, time.Minute)
	if err != nil {
		t.Fatalf("NewMemoryCache failed: %v", err)
	}
	ctx := context.Background()

	key := testKey("W101", 1)
	stored := testSegment{WellID: "W101", Values: []float64{12.5, 12.4, 12.6}}
	if err := cache.Set(ctx, key, stored); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := cache.Get(ctx, key)
	if !found {
		t.Fatal("Expected a cache hit")
	}
	if got.WellID != stored.WellID || len(got.Values) != 3 {
		t.Errorf("Cached segment mangled: %+v", got)
	}

	if _, found := cache.Get(ctx, testKey("W102", 1)); found {
		t.Error("Expected a miss for a different well")
	}
	if _, found := cache.Get(ctx, testKey("W101", 2)); found {
		t.Error("Expected a miss for a different day range")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache, err := NewMemoryCache[testSegment](10, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key := testKey("W101", 1)
	if err := cache.Set(ctx, key, testSegment{WellID: "W101"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := cache.Get(ctx, key); found {
		t.Error("Expected a miss after delete")
	}
}

func TestMemoryCacheTTL(t *testing.T) {
	cache, err := NewMemoryCache[testSegment](10, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key := testKey("W101", 1)
	if err := cache.Set(ctx, key, testSegment{WellID: "W101"}); err != nil {
		t.Fatal(err)
	}
	if _, found := cache.Get(ctx, key); !found {
		t.Fatal("Expected a hit before expiry")
	}

	time.Sleep(40 * time.Millisecond)
	if _, found := cache.Get(ctx, key); found {
		t.Error("Expected a miss after TTL expiry")
	}
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	cache, err := NewMemoryCache[testSegment](10, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	key := testKey("W101", 1)
	if err := cache.Set(ctx, key, testSegment{WellID: "W101"}); err != nil {
		t.Fatal(err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, found := cache.Get(ctx, key); !found {
		t.Error("Expected entries without TTL to stay cached")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	cache, err := NewMemoryCache[testSegment](2, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first := testKey("W101", 1)
	second := testKey("W101", 2)
	third := testKey("W101", 3)

	for _, key := range []Key{first, second, third} {
		if err := cache.Set(ctx, key, testSegment{WellID: "W101"}); err != nil {
			t.Fatal(err)
		}
	}

	if _, found := cache.Get(ctx, first); found {
		t.Error("Expected the oldest segment to be evicted")
	}
	if _, found := cache.Get(ctx, third); !found {
		t.Error("Expected the newest segment to survive")
	}
	if cache.Len() != 2 {
		t.Errorf("Expected 2 cached segments, got %d", cache.Len())
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("Expected empty cache after purge, got %d", cache.Len())
	}
}

// setupTestRedis starts a miniredis instance and wraps it in the
// application Redis client. Cleanup is handled via t.Cleanup().
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("bad miniredis port: %v", err)
	}

	cfg := redis.DefaultRedisConfig()
	cfg.Single.Host = mr.Host()
	cfg.Single.Port = port

	client, err := redis.NewRedisClient(cfg, "", 0)
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return mr, client
}

func TestRedisCacheRoundTrip(t *testing.T) {
	_, client := setupTestRedis(t)
	cache := NewRedisCache[testSegment](client, time.Hour)
	ctx := context.Background()

	key := testKey("W101", 1)
	stored := testSegment{WellID: "W101", Values: []float64{11.2, 11.3}}
	if err := cache.Set(ctx, key, stored); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := cache.Get(ctx, key)
	if !found {
		t.Fatal("Expected a cache hit")
	}
	if got.WellID != stored.WellID || len(got.Values) != 2 {
		t.Errorf("Cached segment mangled: %+v", got)
	}

	if _, found := cache.Get(ctx, testKey("W102", 1)); found {
		t.Error("Expected a miss for an uncached key")
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := cache.Get(ctx, key); found {
		t.Error("Expected a miss after delete")
	}
}

func TestRedisCacheTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewRedisCache[testSegment](client, time.Hour)
	ctx := context.Background()

	key := testKey("W101", 1)
	if err := cache.Set(ctx, key, testSegment{WellID: "W101"}); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Hour)
	if _, found := cache.Get(ctx, key); found {
		t.Error("Expected a miss after TTL expiry")
	}
}

func TestRedisCacheCorruptPayload(t *testing.T) {
	mr, client := setupTestRedis(t)
	cache := NewRedisCache[testSegment](client, time.Hour)
	ctx := context.Background()

	key := testKey("W101", 1)
	if err := mr.Set(key.String(), "not json"); err != nil {
		t.Fatal(err)
	}

	if _, found := cache.Get(ctx, key); found {
		t.Error("Expected corrupt payload to read as a miss")
	}
	// The corrupt entry is dropped so the next fill can land.
	if mr.Exists(key.String()) {
		t.Error("Expected corrupt payload to be deleted")
	}
}
