package sector

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"astrogen/internal/logging"
	"astrogen/internal/progress"
	"astrogen/internal/services"
	"astrogen/internal/world"
)

type fetchResult struct {
	blob string
	err  error
}

// collect fetches and decodes every subsector and concatenates the worlds in
// metadata order. It returns the number of rejected lines alongside.
func (b *Builder) collect(ctx context.Context, logger *slog.Logger, sectorName string, subsectors []world.SubsectorMetadata, sink progress.Sink) ([]world.World, int, error) {
	logger = logger.With(logging.String(logging.FieldStage, string(StatePerSubsector)))

	next, stop := b.sequential(ctx, sectorName, subsectors)
	if b.concurrency > 1 && len(subsectors) > 1 {
		next, stop = b.prefetch(ctx, sectorName, subsectors)
	}

	var (
		worlds   []world.World
		rejected int
	)
	for i, meta := range subsectors {
		sink.Send(fmt.Sprintf("Fetching subsector: %s (%s)", meta.Name, meta.Letter()))
		blob, err := next(i)
		if err != nil {
			return nil, 0, stop(err)
		}
		agg := world.Aggregate(sectorName, meta, blob)
		if agg.Rejected > 0 {
			logger.Debug("skipped undecodable lines",
				logging.String(logging.FieldSubsector, meta.Name),
				logging.Int("rejected_lines", agg.Rejected),
			)
		}
		worlds = append(worlds, agg.Worlds...)
		rejected += agg.Rejected
		sink.Send(fmt.Sprintf("%d systems in %s", len(agg.Worlds), meta.Name))
	}
	if err := stop(nil); err != nil {
		return nil, 0, err
	}
	return worlds, rejected, nil
}

func (b *Builder) sequential(ctx context.Context, sectorName string, subsectors []world.SubsectorMetadata) (func(int) (string, error), func(error) error) {
	next := func(i int) (string, error) {
		return b.fetchOne(ctx, sectorName, subsectors[i])
	}
	stop := func(err error) error { return err }
	return next, stop
}

// prefetch starts up to b.concurrency fetches ahead of the consumer. Results
// land in per-index slots so the consumer still reads them in order. stop
// cancels outstanding work and returns the first failure the group saw, which
// may differ from the error the consumer hit when a later subsector failed
// first and cancelled an earlier one.
func (b *Builder) prefetch(ctx context.Context, sectorName string, subsectors []world.SubsectorMetadata) (func(int) (string, error), func(error) error) {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	slots := make([]chan fetchResult, len(subsectors))
	for i := range slots {
		slots[i] = make(chan fetchResult, 1)
	}

	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, meta := range subsectors {
			if err := gctx.Err(); err != nil {
				slots[i] <- fetchResult{err: err}
				continue
			}
			g.Go(func() error {
				blob, err := b.fetchOne(gctx, sectorName, meta)
				slots[i] <- fetchResult{blob: blob, err: err}
				return err
			})
		}
	}()

	next := func(i int) (string, error) {
		select {
		case r := <-slots[i]:
			return r.blob, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	stop := func(err error) error {
		cancel()
		<-launched
		if werr := g.Wait(); werr != nil {
			return werr
		}
		return err
	}
	return next, stop
}

func (b *Builder) fetchOne(ctx context.Context, sectorName string, meta world.SubsectorMetadata) (string, error) {
	blob, err := b.subsectors.Subsector(ctx, sectorName, meta.Index)
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "fetch", "subsector",
			fmt.Sprintf("%s (%s)", meta.Name, meta.Letter()), err)
	}
	return blob, nil
}
