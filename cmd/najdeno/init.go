package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/najdeno/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and its signing secret",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := os.Stat(cfg.DBPath); err == nil {
			return fmt.Errorf("database file %s already exists", cfg.DBPath)
		}

		closeLog, err := setupLogger(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		database, err := openDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		if _, err := store.New(database).SigningSecret(cmd.Context()); err != nil {
			return fmt.Errorf("creating signing secret: %w", err)
		}

		fmt.Printf("Database created: %s\n", cfg.DBPath)
		fmt.Println("Schema initialized.")
		return nil
	},
}
