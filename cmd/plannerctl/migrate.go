package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wedding-planner-api/internal/database"
)

func migrateCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the account store schema",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "migrations directory (default: MIGRATIONS_PATH)")

	// connect opens the account store configured by the DB_* variables
	connect := func(cmd *cobra.Command) (*database.DB, string, error) {
		if path == "" {
			path = a.cfg.Database.MigrationsPath
		}
		db, err := database.New(cmd.Context(), &a.cfg.Database, a.log)
		if err != nil {
			return nil, "", err
		}
		return db, path, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, path, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				return db.RunMigrations(path)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, path, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateDown(path)
			},
		},
		&cobra.Command{
			Use:   "to <version>",
			Short: "Migrate up or down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				db, path, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateToVersion(path, uint(version))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, path, err := connect(cmd)
				if err != nil {
					return err
				}
				defer db.Close()

				version, dirty, err := db.MigrationVersion(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d", version)
				if dirty {
					fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			},
		},
	)
	return cmd
}
