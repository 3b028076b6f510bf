// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/qanda/internal/config"
	"github.com/holomush/qanda/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return newMigrateCmdWithDeps(&MigrateDeps{})
}

func newMigrateCmdWithDeps(deps *MigrateDeps) *cobra.Command {
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL migrations for database.url.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	})

	var all bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration, or all of them with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m Migrator) error {
				var err error
				if all {
					err = m.Down()
				} else {
					err = m.Steps(-1)
				}
				if err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	}
	down.Flags().BoolVar(&all, "all", false, "roll back every migration, dropping all tables")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the applied schema version and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, deps, func(m Migrator) error {
				return printStatus(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("MIGRATION_INVALID_VERSION").With("version", args[0]).Wrap(err)
			}
			return withMigrator(cmd, deps, func(m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				return printStatus(cmd, m)
			})
		},
	})

	return cmd
}

// withMigrator loads database settings, opens a migrator and closes it after fn.
func withMigrator(cmd *cobra.Command, deps *MigrateDeps, fn func(Migrator) error) (err error) {
	cfg, err := config.Load(config.Options{File: configFile, DotEnv: envFile})
	if err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}

	m, err := deps.MigratorFactory(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(m)
}

func printStatus(cmd *cobra.Command, m Migrator) error {
	status, err := m.Status()
	if err != nil {
		return err
	}

	if status.Version == 0 {
		cmd.Println("version: none")
	} else {
		cmd.Printf("version: %d (%s)\n", status.Version, status.Name)
	}
	cmd.Printf("dirty: %t\n", status.Dirty)

	pending := make([]string, 0, len(status.Pending))
	for _, v := range status.Pending {
		pending = append(pending, strconv.FormatUint(uint64(v), 10))
	}
	if len(pending) == 0 {
		cmd.Println("pending: none")
	} else {
		cmd.Printf("pending: %s\n", strings.Join(pending, ", "))
	}
	return nil
}
