package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/cli/styles"
	"github.com/bnema/iconscope/internal/domain/entity"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the icon cache",
	Long: `Inspect and clear the icon cache.

The in-memory cache only outlives a single command when cache.persist is
enabled in the configuration.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats [local|fallback|both]",
	Short: "Show entry counts per tier",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [local|fallback|both]",
	Short: "Remove every entry of a tier",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func tierArg(args []string) (entity.CacheTier, error) {
	var s string
	if len(args) > 0 {
		s = args[0]
	}
	tier, ok := entity.ParseCacheTier(s)
	if !ok {
		return "", fmt.Errorf("unknown cache tier %q (use: local, fallback, both)", s)
	}
	return tier, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	tier, err := tierArg(args)
	if err != nil {
		return err
	}
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	stats := make([]entity.CacheStats, 0, 2)
	for _, t := range tier.Tiers() {
		stats = append(stats, icons.Resolve.CacheStats(t))
	}
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewIconRenderer(app.Theme).RenderCacheStats(stats...))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	tier, err := tierArg(args)
	if err != nil {
		return err
	}
	app, err := GetApp()
	if err != nil {
		return err
	}
	icons, err := app.Icons()
	if err != nil {
		return err
	}

	icons.Resolve.ClearCache(app.Ctx(), tier)
	fmt.Fprintln(cmd.OutOrStdout(), styles.NewIconRenderer(app.Theme).RenderCleared(tier))
	return nil
}
