// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command rosterctl probes, imports and exports voter files without the console.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rosterctl",
		Short: "Operate on voter roster files and the roster store",
		Long: `Operate on voter roster files and the roster store.

Examples:
  rosterctl probe votantes.csv                 # Show how a file would be read
  rosterctl import votantes.csv                # Probe and save to the store
  rosterctl export --leader "Juan Gómez"       # Write that leader's voters as CSV
  rosterctl export --q 1234 --out -            # Write matches to stdout
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Database URL (default $DATABASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.databaseType, "database-type", "", "Database type, sqlite or postgres (default $DATABASE_TYPE or sqlite)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "Optional env file")

	cmd.AddCommand(probeCmd())
	cmd.AddCommand(importCmd(opts))
	cmd.AddCommand(exportCmd(opts))

	return cmd
}
