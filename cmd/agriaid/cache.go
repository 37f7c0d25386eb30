package main

import (
	"path/filepath"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/storage/filecache"
	"github.com/sandevgo/agriaid/pkg/log"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached resolver payloads",
}

var cacheClearCmd = &cobra.Command{
	Use:           "clear",
	Short:         "Drop all cached resolver payloads",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}

		appCfg := config.NewAppConfig(ctx)

		// One subdirectory per cached payload kind
		for _, sub := range []string{"search"} {
			cache, err := filecache.New(filepath.Join(appCfg.GetCacheDir(), sub), appCfg.CacheTTL())
			if err != nil {
				return err
			}
			if err := cache.Clear(ctx); err != nil {
				return err
			}
			logger.Info().Str("cache", sub).Msg("cache cleared")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
