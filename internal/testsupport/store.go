package testsupport

import (
	"testing"

	"astrogen/internal/config"
	"astrogen/internal/subsectorcache"
)

// MustOpenCache opens the subsector cache database for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *subsectorcache.Store {
	t.Helper()

	store, err := subsectorcache.Open(cfg.CacheDBPath())
	if err != nil {
		t.Fatalf("subsectorcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
