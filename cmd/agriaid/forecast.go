package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/providers/search"
	"github.com/sandevgo/agriaid/internal/providers/weather"
	"github.com/sandevgo/agriaid/pkg/log"
	"github.com/spf13/cobra"
)

var forecastDays int

var forecastCmd = &cobra.Command{
	Use:           "forecast [location]",
	Short:         "Print the multi-day weather forecast for a location",
	Args:          cobra.MinimumNArgs(1),
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

		searcher := search.New(config.NewSearchConfig(ctx), nil)
		resolver := weather.New(config.NewWeatherConfig(ctx), searcher)

		forecast, err := resolver.Forecast(ctx, strings.Join(args, " "), forecastDays)
		if err != nil {
			return err
		}

		fmt.Printf("Forecast for %s (%s)\n\n", forecast.Location, forecast.SourceTitle)
		for _, day := range forecast.Days {
			fmt.Printf("%s  %s\n", day.Date, day.Condition)
			fmt.Printf("  temp %.1f–%.1f°C (avg %.1f°C), rain %.1f mm, humidity %.0f%%\n",
				day.MinTempC, day.MaxTempC, day.AvgTempC, day.RainfallMM, day.AvgHumidity)
			if day.Sunrise != "" {
				fmt.Printf("  sunrise %s\n", day.Sunrise)
			}
		}
		return nil
	},
}

func init() {
	forecastCmd.Flags().IntVarP(&forecastDays, "days", "n", 0, "number of days (0 uses the configured default)")
	rootCmd.AddCommand(forecastCmd)
}
