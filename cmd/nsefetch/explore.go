package main

import (
	"os"

	"github.com/spf13/cobra"

	"nsefetch/internal/config"
	"nsefetch/internal/explorer"
	"nsefetch/pkg/store"
)

func exploreCMD() *cobra.Command {
	var cfgPath string
	var dataDir string

	var explore = &cobra.Command{
		Use:   "explore",
		Short: "Interactively browse fetched datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				dataDir = cfg.OutputDir
			}

			st, err := store.New(dataDir)
			if err != nil {
				return err
			}
			return explorer.New(st, os.Stdin, os.Stdout).Run()
		},
	}

	explore.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	explore.Flags().StringVarP(&dataDir, "dir", "d", "", "data directory (overrides config)")
	return explore
}
