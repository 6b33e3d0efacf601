package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.UsesPostgres() {
				return fmt.Errorf("migrations need DB_DRIVER=postgres, got %q", cfg.Database.Driver)
			}
			return applyMigrations(cmd.Context(), cfg, down)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration instead")

	return cmd
}
