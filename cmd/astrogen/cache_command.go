package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"astrogen/internal/subsectorcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the subsector cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withCacheStore(ctx *commandContext, fn func(*subsectorcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := subsectorcache.Open(cfg.CacheDBPath())
	if err != nil {
		return fmt.Errorf("open subsector cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withCacheStore(ctx, func(store *subsectorcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Database", store.Path()},
					{"Enabled", yesNo(cfg.Cache.Enabled)},
					{"TTL", cfg.CacheTTL().String()},
					{"Sectors", fmt.Sprintf("%d", stats.Sectors)},
					{"Subsectors", fmt.Sprintf("%d", stats.Subsectors)},
					{"Oldest entry", formatCacheTime(stats.Oldest)},
					{"Newest entry", formatCacheTime(stats.Newest)},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(fieldColumns, rows))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [sector name]",
		Short: "Remove cached entries for one sector, or everything",
		RunE: func(cmd *cobra.Command, args []string) error {
			sectorName := strings.TrimSpace(strings.Join(args, " "))
			return withCacheStore(ctx, func(store *subsectorcache.Store) error {
				removed, err := store.Purge(cmd.Context(), sectorName)
				if err != nil {
					return err
				}
				scope := "all sectors"
				if sectorName != "" {
					scope = sectorName
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries (%s)\n", removed, scope)
				return nil
			})
		},
	}
}

func formatCacheTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
