// Package main is the simpledb CLI: a thin cobra-based wrapper around the
// simpledb library, a demonstration driver for the engine rather than a
// full-featured client shell.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"simpledb/internal/config"
	"simpledb/pkg/schema"
)

var (
	dbPath     string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "simpledb",
		Short: "A small embeddable relational SQL engine",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			schema.SetDefaultVarcharLength(cfg.Database.DefaultVarcharLength)
			if dbPath == "" {
				dbPath = cfg.Database.SnapshotPath
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "snapshot file path (omitted: in-memory only, or config's database.snapshot_path)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional TOML config file (database.snapshot_path, database.default_varchar_length)")

	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
