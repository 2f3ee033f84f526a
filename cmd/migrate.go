package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/mull/pkg/config"
	"github.com/killallgit/mull/pkg/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if cfg.Database.URL == "" {
			return fmt.Errorf("no database configured: set database.url or MULL_DATABASE_URL")
		}

		db, err := store.OpenMigrationDB(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.RunMigrations(db); err != nil {
			return err
		}

		fmt.Println("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
