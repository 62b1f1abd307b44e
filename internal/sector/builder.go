package sector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"astrogen/internal/format"
	"astrogen/internal/logging"
	"astrogen/internal/progress"
	"astrogen/internal/services"
	"astrogen/internal/textutil"
	"astrogen/internal/travellermap"
	"astrogen/internal/world"
)

// MetadataProvider lists the subsectors of a sector in display order.
type MetadataProvider interface {
	Subsectors(ctx context.Context, sector string) ([]world.SubsectorMetadata, error)
}

// SubsectorProvider returns the raw sec-format listing of one subsector.
type SubsectorProvider interface {
	Subsector(ctx context.Context, sector string, index int) (string, error)
}

// SectorLister lists known sector names. It is only used for suggestions.
type SectorLister interface {
	SectorNames(ctx context.Context) ([]string, error)
}

// State names a step of the build state machine.
type State string

const (
	StateValidating       State = "validating"
	StateFetchingMetadata State = "fetching_metadata"
	StatePerSubsector     State = "per_subsector"
	StateFormatting       State = "formatting"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

const (
	lockDirName    = ".locks"
	maxSuggestions = 3
	maxConcurrency = 16
	componentName  = "builder"
)

// Request is an unvalidated build request.
type Request struct {
	Sector string
	Format string
}

// Result describes a finished build.
type Result struct {
	BuildID    string
	Sector     string
	Format     format.Format
	OutputDir  string
	Artifacts  []string
	Subsectors int
	Systems    int
	Rejected   int
	Duration   time.Duration
}

// Builder runs sector builds. A Builder is safe for concurrent use; builds of
// the same sector are serialized by a lock file below <output>/.locks
// directory.
type Builder struct {
	metadata    MetadataProvider
	subsectors  SubsectorProvider
	lister      SectorLister
	registry    *format.Registry
	outputRoot  string
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry overrides the emitter registry.
func WithRegistry(r *format.Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithConcurrency sets how many subsectors are fetched in parallel.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		b.concurrency = min(max(n, 1), maxConcurrency)
	}
}

// WithSectorLister enables "did you mean" hints for unknown sectors.
func WithSectorLister(l SectorLister) Option {
	return func(b *Builder) { b.lister = l }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logging.NewComponentLogger(logger, componentName)
	}
}

// New creates a Builder writing below outputRoot.
func New(metadata MetadataProvider, subsectors SubsectorProvider, outputRoot string, opts ...Option) *Builder {
	b := &Builder{
		metadata:    metadata,
		subsectors:  subsectors,
		registry:    format.DefaultRegistry(),
		outputRoot:  outputRoot,
		concurrency: 1,
		logger:      logging.NewComponentLogger(nil, componentName),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Validate normalizes req and checks it without contacting any provider.
func Validate(req Request) (string, format.Format, error) {
	sectorName := strings.TrimSpace(req.Sector)
	f, err := format.Parse(req.Format)
	if err != nil {
		return "", "", err
	}
	if sectorName == "" {
		return "", "", fmt.Errorf("%w: sector name must not be empty", services.ErrValidation)
	}
	return sectorName, f, nil
}

// OutputDir returns the directory a build of sectorName writes into.
func (b *Builder) OutputDir(sectorName string) string {
	name := textutil.SanitizeFileName(sectorName)
	if name == "" {
		name = "sector"
	}
	return filepath.Join(b.outputRoot, name)
}

// lockPath places the lock for a sector directory under the output root so
// a failed build leaves nothing inside the sector directory.
func (b *Builder) lockPath(sectorDir string) string {
	return filepath.Join(b.outputRoot, lockDirName, filepath.Base(sectorDir)+".lock")
}

// Run executes Build and finishes sink with exactly one terminal token.
func (b *Builder) Run(ctx context.Context, req Request, sink progress.Sink) (Result, error) {
	if sink == nil {
		sink = progress.Discard
	}
	result, err := b.Build(ctx, req, sink)
	if err != nil {
		sink.Send(progress.ErrorToken(err.Error()))
		return result, err
	}
	sink.Send(progress.Done)
	return result, nil
}

// Build runs the state machine. Progress messages go to sink; the terminal
// token is left to the caller (see Run).
func (b *Builder) Build(ctx context.Context, req Request, sink progress.Sink) (Result, error) {
	if sink == nil {
		sink = progress.Discard
	}
	started := b.now()
	result := Result{BuildID: uuid.NewString()}
	ctx = services.WithBuildID(ctx, result.BuildID)
	logger := logging.WithContext(ctx, b.logger)

	fail := func(state State, err error) (Result, error) {
		result.Duration = b.now().Sub(started)
		logging.ErrorWithContext(logger, "build failed", "build_failed",
			logging.String("failed_state", string(state)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return result, err
	}

	// Validating
	sectorName, f, err := Validate(req)
	if err != nil {
		return fail(StateValidating, err)
	}
	emitter, err := b.registry.Lookup(f)
	if err != nil {
		return fail(StateValidating, err)
	}
	result.Sector = sectorName
	result.Format = f
	result.OutputDir = b.OutputDir(sectorName)
	ctx = services.WithSector(ctx, sectorName)
	logger = logging.WithContext(ctx, b.logger).With(logging.String(logging.FieldFormat, f.String()))

	lock, err := acquireLock(b.lockPath(result.OutputDir))
	if err != nil {
		return fail(StateValidating, err)
	}
	defer lock.release(logger)

	logger.Info("build started", logging.Int("fetch_concurrency", b.concurrency))

	// FetchingMetadata
	ctx = services.WithStage(ctx, string(StateFetchingMetadata))
	subsectors, err := b.metadata.Subsectors(ctx, sectorName)
	if err != nil {
		return fail(StateFetchingMetadata, b.metadataError(ctx, sectorName, err))
	}
	result.Subsectors = len(subsectors)

	// PerSubsector
	ctx = services.WithStage(ctx, string(StatePerSubsector))
	worlds, rejected, err := b.collect(ctx, logger, sectorName, subsectors, sink)
	if err != nil {
		return fail(StatePerSubsector, err)
	}
	result.Systems = len(worlds)
	result.Rejected = rejected

	// Formatting
	ctx = services.WithStage(ctx, string(StateFormatting))
	sink.Send(fmt.Sprintf("Formatting %d total systems", len(worlds)))
	artifacts, err := emitter.Emit(ctx, format.Job{
		SectorName: sectorName,
		OutputDir:  result.OutputDir,
		Worlds:     worlds,
	}, sink)
	if err != nil {
		return fail(StateFormatting, err)
	}
	result.Artifacts = artifacts

	// Done
	sink.Send(fmt.Sprintf("Build complete: %s (%s)", sectorName, f))
	result.Duration = b.now().Sub(started)
	logger.Info("build complete",
		logging.String(logging.FieldStage, string(StateDone)),
		logging.Int("subsectors", result.Subsectors),
		logging.Int("systems", result.Systems),
		logging.Int("rejected_lines", result.Rejected),
		logging.Int("artifacts", len(artifacts)),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

func (b *Builder) metadataError(ctx context.Context, sectorName string, err error) error {
	if !errors.Is(err, travellermap.ErrNotFound) {
		return services.Wrap(services.ErrUpstream, "fetch", "metadata", "sector "+sectorName, err)
	}
	message := fmt.Sprintf("sector %q not found", sectorName)
	if suggestions := b.suggest(ctx, sectorName); len(suggestions) > 0 {
		message += "; did you mean " + strings.Join(suggestions, ", ") + "?"
	}
	return services.Wrap(services.ErrUpstream, "fetch", "metadata", message, err)
}

func (b *Builder) suggest(ctx context.Context, sectorName string) []string {
	if b.lister == nil {
		return nil
	}
	names, err := b.lister.SectorNames(ctx)
	if err != nil {
		b.logger.Debug("sector suggestions unavailable", logging.Error(err))
		return nil
	}
	return textutil.SuggestNames(sectorName, names, maxSuggestions)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat), errors.Is(err, services.ErrValidation):
		return "check the sector name and format (module, system, refmanual)"
	case errors.Is(err, services.ErrBusy):
		return "wait for the running build of this sector to finish"
	case errors.Is(err, services.ErrUpstream):
		return "check network access to TravellerMap and the sector spelling"
	case errors.Is(err, services.ErrEmission):
		return "check free space and permissions of the output directory"
	default:
		return "check logs for details"
	}
}
