package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/agriaid/internal/config"
	"github.com/sandevgo/agriaid/internal/core"
	"github.com/sandevgo/agriaid/pkg/log"
	"github.com/spf13/cobra"
)

var askLocation string

var askCmd = &cobra.Command{
	Use:           "ask [question]",
	Short:         "Ask a single question and print the answer",
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

		appCfg := config.NewAppConfig(ctx)
		asst, cleanups := buildAssistant(ctx, appCfg)
		defer func() {
			for _, c := range cleanups {
				if err := c.Shutdown(ctx); err != nil {
					logger.Error().Err(err).Msgf("%T failed to shutdown", c)
				}
			}
		}()

		ans, err := asst.Ask(ctx, core.Query{
			Text:     strings.Join(args, " "),
			Location: askLocation,
		})
		if err != nil {
			return err
		}

		fmt.Println(ans.Text)
		if len(ans.Sources) > 0 {
			fmt.Println("\nSources:")
			for _, src := range ans.Sources {
				if src.URL != "" {
					fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
					continue
				}
				fmt.Printf("  - %s\n", src.Title)
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askLocation, "location", "l", "", "province or municipality the question is about")
	rootCmd.AddCommand(askCmd)
}
