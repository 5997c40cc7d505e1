package storage

import (
	"testing"
	"time"

	"skycast/weather"
)

func newTestCache(t *testing.T, ttl time.Duration) *WeatherCache {
	t.Helper()
	cache, err := NewWeatherCache(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewWeatherCache() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func testRecord(name string) *weather.Record {
	rec := &weather.Record{}
	rec.Location.Name = name
	rec.Location.Country = "GB"
	rec.Current.TempC = 21
	rec.Current.TempF = 70
	rec.Current.Condition = "scattered clouds"
	rec.Current.WindKPH = 12
	rec.Current.Humidity = 64
	return rec
}

func TestPutGetRoundTrip(t *testing.T) {
	cache := newTestCache(t, 10*time.Minute)

	if err := cache.Put("London", testRecord("London")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := cache.Get("London")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for a fresh entry")
	}
	if got.Location.Name != "London" || got.Current.TempC != 21 {
		t.Errorf("cached record = %+v", got)
	}
}

func TestGetMissReturnsNil(t *testing.T) {
	cache := newTestCache(t, 10*time.Minute)

	got, err := cache.Get("Nowhere")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() on empty cache = %+v, want nil", got)
	}
}

func TestGetNormalizesLocationKey(t *testing.T) {
	cache := newTestCache(t, 10*time.Minute)

	if err := cache.Put("London", testRecord("London")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	for _, key := range []string{"london", "LONDON", "  London  "} {
		got, err := cache.Get(key)
		if err != nil {
			t.Fatalf("Get(%q) error = %v", key, err)
		}
		if got == nil {
			t.Errorf("Get(%q) missed, keys are not normalized", key)
		}
	}
}

func TestGetStaleEntryReturnsNil(t *testing.T) {
	cache := newTestCache(t, time.Millisecond)

	if err := cache.Put("London", testRecord("London")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	got, err := cache.Get("London")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() returned stale entry %+v", got)
	}
}

func TestPutOverwritesExistingEntry(t *testing.T) {
	cache := newTestCache(t, 10*time.Minute)

	cache.Put("London", testRecord("London"))

	updated := testRecord("London")
	updated.Current.TempC = 25
	if err := cache.Put("London", updated); err != nil {
		t.Fatalf("Put() overwrite error = %v", err)
	}

	got, _ := cache.Get("London")
	if got == nil || got.Current.TempC != 25 {
		t.Errorf("cached record after overwrite = %+v, want TempC 25", got)
	}
}

func TestPutRejectsNilRecord(t *testing.T) {
	cache := newTestCache(t, 10*time.Minute)

	if err := cache.Put("London", nil); err == nil {
		t.Error("Put(nil) succeeded")
	}
}

func TestPruneRemovesStaleRows(t *testing.T) {
	cache := newTestCache(t, time.Millisecond)

	cache.Put("London", testRecord("London"))
	time.Sleep(10 * time.Millisecond)

	if err := cache.Prune(); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	var count int
	if err := cache.db.QueryRow(`SELECT COUNT(*) FROM weather_snapshots`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("rows after prune = %d, want 0", count)
	}
}
