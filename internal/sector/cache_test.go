package sector_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"astrogen/internal/progress"
	"astrogen/internal/sector"
	"astrogen/internal/subsectorcache"
	"astrogen/internal/testsupport"
)

func TestCachedBuildSkipsUpstreamOnRepeat(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCache(), testsupport.WithFetchConcurrency(2))
	store := testsupport.MustOpenCache(t, cfg)
	fake := testsupport.NewSpinwardFake()
	cache := subsectorcache.New(store, fake, cfg.CacheTTL(), nil)
	b := sector.New(cache, cache, cfg.Paths.OutputDir, sector.WithConcurrency(cfg.Build.FetchConcurrency))

	var first, second progress.Recorder
	if _, err := b.Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, &first); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, &second); err != nil {
		t.Fatalf("second build: %v", err)
	}

	if fake.MetadataCalls() != 1 {
		t.Fatalf("expected one metadata fetch, got %d", fake.MetadataCalls())
	}
	if got := len(fake.SubsectorCalls()); got != 3 {
		t.Fatalf("expected three subsector fetches, got %d", got)
	}
	assertMessages(t, second.Messages(), first.Messages())

	if filepath.Dir(cfg.Paths.OutputDir) != testsupport.BaseDir(cfg) {
		t.Fatalf("output dir %q outside test base", cfg.Paths.OutputDir)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, spinward, spinward+" systems.txt")); err != nil {
		t.Fatalf("expected listing: %v", err)
	}
}
