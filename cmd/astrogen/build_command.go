package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"astrogen/internal/progress"
	"astrogen/internal/sector"
	"astrogen/internal/services"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputFlag string
	var concurrency int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "build <sector name>",
		Short: "Fetch a sector from TravellerMap and write one output format",
		Long: "Fetch every subsector of a sector, decode its worlds, and write a\n" +
			"Fantasy Grounds module (module), a system table (system), or a\n" +
			"reference manual (refmanual) below <output_dir>/<sector>/.",
		Example: "  astrogen build \"Spinward Marches\" --format system",
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorName := strings.TrimSpace(strings.Join(args, " "))
			if sectorName == "" {
				return fmt.Errorf("%w: sector name is required", services.ErrValidation)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			format := strings.TrimSpace(formatFlag)
			if format == "" {
				format = cfg.Build.DefaultFormat
			}

			builder, _, cleanup, err := ctx.newBuilder(builderOptions{
				outputDir:   outputFlag,
				concurrency: concurrency,
				noCache:     noCache,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			printer := newProgressPrinter(out, shouldColorize(out))
			result, err := builder.Run(runCtx, sector.Request{Sector: sectorName, Format: format}, printer)
			if err != nil {
				return &reportedError{err: err}
			}
			printArtifacts(out, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: module, system, or refmanual (default from config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output root directory (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Subsectors fetched in parallel (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the subsector cache for this build")
	return cmd
}

// progressPrinter writes progress messages one per line, colouring the
// terminal tokens when writing to a terminal.
type progressPrinter struct {
	out      io.Writer
	colorize bool
}

func newProgressPrinter(out io.Writer, colorize bool) *progressPrinter {
	return &progressPrinter{out: out, colorize: colorize}
}

func (p *progressPrinter) Send(msg string) {
	kind := statusInfo
	switch {
	case msg == progress.Done:
		kind = statusOK
	case progress.IsTerminal(msg):
		kind = statusError
	}
	fmt.Fprintln(p.out, renderProgressLine(kind, msg, p.colorize))
}

func printArtifacts(out io.Writer, result sector.Result) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d systems from %d subsectors in %s", result.Systems, result.Subsectors, result.Duration.Round(time.Millisecond))
	if result.Rejected > 0 {
		fmt.Fprintf(out, " (%d lines skipped)", result.Rejected)
	}
	fmt.Fprintln(out)
	for _, path := range result.Artifacts {
		fmt.Fprintf(out, "  %s\n", path)
	}
}
