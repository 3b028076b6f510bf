// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// NewRootCmd creates the root command for the qanda CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qanda",
		Short: "qanda - a question and answer service",
		Long: `qanda serves a JSON API where registered accounts post questions
and answers. Only the account that created a question or answer may change it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading QANDA_* variables")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
