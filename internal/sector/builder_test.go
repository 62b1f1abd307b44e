package sector_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"astrogen/internal/progress"
	"astrogen/internal/sector"
	"astrogen/internal/services"
	"astrogen/internal/testsupport"
	"astrogen/internal/travellermap"
)

const spinward = "Spinward Marches"

func TestRunSystemFormatProgressSequence(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	root := t.TempDir()
	b := sector.New(fake, fake, root)
	rec := &progress.Recorder{}

	result, err := b.Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, rec)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Systems != 4 || result.Rejected != 1 || result.Subsectors != 3 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.BuildID == "" {
		t.Fatal("expected a build id")
	}
	listing := filepath.Join(root, spinward, spinward+" systems.txt")
	want := []string{
		"Fetching subsector: Aramis (O)",
		"2 systems in Aramis",
		"Fetching subsector: Regina (C)",
		"1 systems in Regina",
		"Fetching subsector: Lunion (G)",
		"1 systems in Lunion",
		"Formatting 4 total systems",
		fmt.Sprintf("System listing written: %s (4 systems)", listing),
		"Build complete: Spinward Marches (system)",
		progress.Done,
	}
	assertMessages(t, rec.Messages(), want)

	if len(result.Artifacts) != 1 || result.Artifacts[0] != listing {
		t.Fatalf("unexpected artifacts: %v", result.Artifacts)
	}
	data, err := os.ReadFile(listing)
	if err != nil {
		t.Fatalf("read listing: %v", err)
	}
	assertOrder(t, string(data), "Traltha", "Hammermium", "Trin", "Chamois")
}

func TestRunModuleFormatWritesArchive(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	root := t.TempDir()
	b := sector.New(fake, fake, root)

	result, err := b.Run(context.Background(), sector.Request{Sector: spinward, Format: "MODULE"}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %v", result.Artifacts)
	}
	if _, err := os.Stat(filepath.Join(root, spinward, spinward+" Worlds.mod")); err != nil {
		t.Fatalf("expected module archive: %v", err)
	}
}

func TestConcurrentFetchMatchesSequentialOutput(t *testing.T) {
	seqFake := testsupport.NewSpinwardFake()
	seqRoot := t.TempDir()
	seqRec := &progress.Recorder{}
	if _, err := sector.New(seqFake, seqFake, seqRoot).Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, seqRec); err != nil {
		t.Fatalf("sequential Run: %v", err)
	}

	parFake := testsupport.NewSpinwardFake()
	parFake.Delays = map[int]time.Duration{14: 80 * time.Millisecond, 2: 40 * time.Millisecond}
	parRoot := t.TempDir()
	parRec := &progress.Recorder{}
	b := sector.New(parFake, parFake, parRoot, sector.WithConcurrency(3))
	if _, err := b.Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, parRec); err != nil {
		t.Fatalf("concurrent Run: %v", err)
	}

	if parFake.MaxInFlight() < 2 {
		t.Fatalf("expected overlapping fetches, max in flight %d", parFake.MaxInFlight())
	}
	seqMsgs := stripRoot(seqRec.Messages(), seqRoot)
	parMsgs := stripRoot(parRec.Messages(), parRoot)
	assertMessages(t, parMsgs, seqMsgs)

	name := filepath.Join(spinward, spinward+" systems.txt")
	seqData, err := os.ReadFile(filepath.Join(seqRoot, name))
	if err != nil {
		t.Fatalf("read sequential listing: %v", err)
	}
	parData, err := os.ReadFile(filepath.Join(parRoot, name))
	if err != nil {
		t.Fatalf("read concurrent listing: %v", err)
	}
	if string(seqData) != string(parData) {
		t.Fatalf("listings differ:\n%s\n---\n%s", seqData, parData)
	}
}

func TestRunRejectsBadRequestsWithoutFetching(t *testing.T) {
	tests := []struct {
		name   string
		req    sector.Request
		marker error
	}{
		{"unsupported format", sector.Request{Sector: spinward, Format: "pdf"}, services.ErrUnsupportedFormat},
		{"empty format", sector.Request{Sector: spinward}, services.ErrUnsupportedFormat},
		{"blank sector", sector.Request{Sector: "   ", Format: "module"}, services.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testsupport.NewSpinwardFake()
			root := t.TempDir()
			rec := &progress.Recorder{}
			_, err := sector.New(fake, fake, root).Run(context.Background(), tt.req, rec)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
			if fake.MetadataCalls() != 0 || len(fake.SubsectorCalls()) != 0 {
				t.Fatal("expected no provider calls")
			}
			msgs := rec.Messages()
			if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "[ERROR] ") {
				t.Fatalf("expected a lone error token, got %q", msgs)
			}
			entries, err := os.ReadDir(root)
			if err != nil {
				t.Fatalf("read root: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("expected no output, found %d entries", len(entries))
			}
		})
	}
}

func TestRunMetadataFailureIsFatal(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	fake.MetadataErr = testsupport.ErrUpstreamDown
	root := t.TempDir()
	rec := &progress.Recorder{}

	_, err := sector.New(fake, fake, root).Run(context.Background(), sector.Request{Sector: spinward, Format: "module"}, rec)
	if !errors.Is(err, services.ErrUpstream) || !errors.Is(err, testsupport.ErrUpstreamDown) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	if len(fake.SubsectorCalls()) != 0 {
		t.Fatalf("expected no subsector fetches, got %v", fake.SubsectorCalls())
	}
	if !strings.HasPrefix(rec.Last(), "[ERROR] ") {
		t.Fatalf("expected error token, got %q", rec.Last())
	}
	if _, err := os.Stat(filepath.Join(root, spinward)); !os.IsNotExist(err) {
		t.Fatalf("expected no sector directory after metadata failure, got %v", err)
	}
}

func TestRunSubsectorFailureStopsBuild(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	fake.Errors = map[int]error{2: testsupport.ErrUpstreamDown}
	root := t.TempDir()
	rec := &progress.Recorder{}

	_, err := sector.New(fake, fake, root).Run(context.Background(), sector.Request{Sector: spinward, Format: "module"}, rec)
	if !errors.Is(err, testsupport.ErrUpstreamDown) {
		t.Fatalf("expected subsector failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "Regina (C)") {
		t.Fatalf("expected subsector in error, got %v", err)
	}
	msgs := rec.Messages()
	want := []string{
		"Fetching subsector: Aramis (O)",
		"2 systems in Aramis",
		"Fetching subsector: Regina (C)",
	}
	if len(msgs) != len(want)+1 {
		t.Fatalf("unexpected messages %q", msgs)
	}
	assertMessages(t, msgs[:len(want)], want)
	if got := fake.SubsectorCalls(); len(got) != 2 {
		t.Fatalf("expected fetching to stop after the failure, got %v", got)
	}
	assertNoArtifacts(t, filepath.Join(root, spinward))
}

func TestConcurrentFailureReportsRootCause(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	fake.Errors = map[int]error{6: testsupport.ErrUpstreamDown}
	fake.Delays = map[int]time.Duration{14: 2 * time.Second}
	root := t.TempDir()

	done := make(chan error, 1)
	go func() {
		_, err := sector.New(fake, fake, root, sector.WithConcurrency(3)).
			Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, nil)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, testsupport.ErrUpstreamDown) {
			t.Fatalf("expected root cause, got %v", err)
		}
		if !strings.Contains(err.Error(), "Lunion (G)") {
			t.Fatalf("expected failing subsector in error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("build did not cancel outstanding fetches")
	}
	assertNoArtifacts(t, filepath.Join(root, spinward))
}

func TestRunHonorsCancellation(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	fake.Delays = map[int]time.Duration{14: 5 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := sector.New(fake, fake, t.TempDir()).Run(ctx, sector.Request{Sector: spinward, Format: "system"}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestRunReturnsBusyWhenSectorLocked(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	root := t.TempDir()
	b := sector.New(fake, fake, root)

	locks := filepath.Join(root, ".locks")
	if err := os.MkdirAll(locks, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(locks, spinward+".lock"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock failed: %v", err)
	}
	defer held.Unlock()

	rec := &progress.Recorder{}
	_, err = b.Run(context.Background(), sector.Request{Sector: spinward, Format: "system"}, rec)
	if !errors.Is(err, services.ErrBusy) {
		t.Fatalf("expected busy error, got %v", err)
	}
	if services.HTTPStatus(err) != 409 || services.ExitCode(err) != 3 {
		t.Fatalf("unexpected classification for %v", err)
	}
	if fake.MetadataCalls() != 0 {
		t.Fatal("expected no metadata fetch while locked")
	}
	if _, err := os.Stat(b.OutputDir(spinward)); !os.IsNotExist(err) {
		t.Fatalf("expected no sector directory while locked, got %v", err)
	}
}

func TestRunFetchFailureLeavesOutputRootEmpty(t *testing.T) {
	const misspelled = "Spinwrad Marhces"
	fake := testsupport.NewSpinwardFake()
	fake.MetadataErr = testsupport.ErrUpstreamDown
	root := t.TempDir()
	b := sector.New(fake, fake, root)

	if _, err := b.Run(context.Background(), sector.Request{Sector: misspelled, Format: "system"}, nil); err == nil {
		t.Fatal("expected metadata failure")
	}
	if _, err := os.Stat(b.OutputDir(misspelled)); !os.IsNotExist(err) {
		t.Fatalf("expected no sector directory, got %v", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read root: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != ".locks" {
			t.Fatalf("unexpected entry %q in output root", entry.Name())
		}
	}
	lockEntries, err := os.ReadDir(filepath.Join(root, ".locks"))
	if err != nil {
		t.Fatalf("read locks: %v", err)
	}
	for _, entry := range lockEntries {
		if entry.Name() != misspelled+".lock" {
			t.Fatalf("unexpected lock file %q", entry.Name())
		}
	}
}

func TestRunSuggestsSectorNames(t *testing.T) {
	fake := testsupport.NewSpinwardFake()
	fake.MetadataErr = fmt.Errorf("metadata: %w", travellermap.ErrNotFound)
	b := sector.New(fake, fake, t.TempDir(), sector.WithSectorLister(fake))

	_, err := b.Run(context.Background(), sector.Request{Sector: "Spinward Marchs", Format: "module"}, nil)
	if !errors.Is(err, travellermap.ErrNotFound) || !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected not-found upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean Spinward Marches") {
		t.Fatalf("expected suggestion, got %v", err)
	}
}

func TestOutputDirSanitizesSectorName(t *testing.T) {
	b := sector.New(nil, nil, "out")
	if got := b.OutputDir("Foo/Bar"); got == filepath.Join("out", "Foo", "Bar") {
		t.Fatalf("expected sanitized directory, got %q", got)
	}
	if got := b.OutputDir("..."); got != filepath.Join("out", "sector") {
		t.Fatalf("expected fallback directory, got %q", got)
	}
}

func assertMessages(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d messages %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("message %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func assertOrder(t *testing.T, text string, names ...string) {
	t.Helper()
	last := -1
	for _, name := range names {
		idx := strings.Index(text, name)
		if idx < 0 {
			t.Fatalf("%q missing from output", name)
		}
		if idx < last {
			t.Fatalf("%q out of order", name)
		}
		last = idx
	}
}

func assertNoArtifacts(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		t.Fatalf("read %s: %v", dir, err)
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			t.Fatalf("unexpected artifact %s", entry.Name())
		}
	}
}

func stripRoot(msgs []string, root string) []string {
	out := make([]string, len(msgs))
	for i, msg := range msgs {
		out[i] = strings.ReplaceAll(msg, root, "<root>")
	}
	return out
}
