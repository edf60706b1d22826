package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:   "nsefetch",
		Short: "Fetch and explore NSE corporate filings",
	}

	root.AddCommand(fetchCMD(), exploreCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
