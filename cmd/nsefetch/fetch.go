package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"nsefetch/internal/config"
	"nsefetch/internal/runner"
	"nsefetch/pkg/aggregate"
	"nsefetch/pkg/logging"
	"nsefetch/pkg/nse"
	"nsefetch/pkg/store"
)

func fetchCMD() *cobra.Command {
	var cfgPath string
	var outputDir string
	var proceed bool

	var fetch = &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all datasets from the NSE event board API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if proceed {
				cfg.ProceedWithoutReady = true
			}

			logger := logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.LogLevel),
				Pretty: cfg.LogPretty,
			})

			clientCfg := nse.DefaultConfig(cfg.BaseURL)
			clientCfg.Timeout = cfg.RequestTimeout
			clientCfg.HealthTimeout = cfg.HealthTimeout
			if cfg.RedisAddr != "" {
				clientCfg.Redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				clientCfg.CacheTTL = cfg.CacheTTL
			}

			client, err := nse.New(clientCfg)
			if err != nil {
				return err
			}

			st, err := store.New(cfg.OutputDir)
			if err != nil {
				return err
			}

			agg := aggregate.New(client, aggregate.Config{
				PerPage: cfg.PerPage,
				Delay:   cfg.PageDelay,
			})

			r := runner.New(client, agg, st, runner.Options{
				ProceedWithoutReady: cfg.ProceedWithoutReady,
				SourceURL:           client.BaseURL(),
			})

			// Ctrl-C stops further requests; everything fetched so far
			// is still written out.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, results, err := r.Run(ctx)
			if err != nil {
				return err
			}

			for _, res := range results {
				switch {
				case res.Skipped:
					fmt.Printf("  %-24s no records\n", res.Name)
				case res.Err != nil:
					fmt.Printf("  %-24s %d records, %d pages (partial: %v) -> %s\n",
						res.Name, res.Records, res.Pages, res.Err, res.File)
				default:
					fmt.Printf("  %-24s %d records, %d pages -> %s\n",
						res.Name, res.Records, res.Pages, res.File)
				}
			}
			fmt.Printf("Saved %d datasets (%d records) to %s\n",
				summary.TotalFiles, summary.TotalRecords, cfg.OutputDir)

			logger.Info().
				Int("datasets", summary.TotalFiles).
				Int("records", summary.TotalRecords).
				Msg("fetch complete")
			return nil
		},
	}

	fetch.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	fetch.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (overrides config)")
	fetch.Flags().BoolVar(&proceed, "proceed-without-ready", false, "fetch even when no monitors are ready")
	return fetch
}
