package server

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwantia/gomaterials/internal/agent"
	config "github.com/mwantia/gomaterials/internal/config/server"
	"github.com/mwantia/gomaterials/pkg/db/migrations"
	"github.com/mwantia/gomaterials/pkg/db/store"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage metadata schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migrations.Migrator) error {
				if err := m.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migrations.Migrator) error {
				status, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tDESCRIPTION\tSTATE")
				for _, s := range status {
					state := "pending"
					if s.Applied {
						state = "applied"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Description, state)
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Revert the most recently applied migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *migrations.Migrator) error {
				if err := m.Rollback(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Rolled back last migration")
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(*migrations.Migrator) error) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load server configuration: %w", err)
	}

	metadata, err := agent.OpenMetadataStore(cfg.Metadata)
	if err != nil {
		return err
	}
	return runMigrator(cmd, metadata, fn)
}

func runMigrator(cmd *cobra.Command, metadata *store.GormStore, fn func(*migrations.Migrator) error) error {
	if err := metadata.Connect(cmd.Context()); err != nil {
		return fmt.Errorf("failed to connect metadata store: %w", err)
	}
	defer metadata.Close()

	return fn(migrations.NewMigrator(metadata.DB()))
}
