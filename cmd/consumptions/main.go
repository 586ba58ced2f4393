package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "consumptions",
		Short: "Utility bill allocation for buildings and their occupants",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(calculateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "HTTP server port (overrides PORT)")
	cmd.Flags().StringVar(&opts.driver, "db-driver", "", "storage driver: memory, sqlite or postgres")
	cmd.Flags().StringVar(&opts.dsn, "db-dsn", "", "storage connection string")
	return cmd
}

func migrateCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.driver, "db-driver", "", "storage driver: sqlite or postgres")
	cmd.Flags().StringVar(&opts.dsn, "db-dsn", "", "storage connection string")
	return cmd
}

func calculateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "calculate [input.yaml]",
		Short: "Calculate the bills of one energy type from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd.OutOrStdout(), args[0], format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table or json")
	return cmd
}
