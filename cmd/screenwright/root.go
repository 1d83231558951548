/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"github.com/spf13/cobra"

	"screenwright/internal/telemetry"
)

func newRootCommand() *cobra.Command {
	var projectFlag string

	cc := newCommandContext(&projectFlag)

	rootCmd := &cobra.Command{
		Use:           "screenwright",
		Short:         "Fountain screenplay normalizer, tagger and project tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := cc.config()
			telemetry.NewDefault(telemetry.FromConfigOptIn(cfg.General.TelemetryOptIn))
			telemetry.Event("command", map[string]any{"name": cmd.Name()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", ".", "Project directory")

	rootCmd.AddCommand(newInitCommand(cc))
	rootCmd.AddCommand(newOpenCommand(cc))
	rootCmd.AddCommand(newFmtCommand(cc))
	rootCmd.AddCommand(newTagsCommand(cc))
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExportCommand(cc))
	rootCmd.AddCommand(newSnapshotCommand(cc))
	rootCmd.AddCommand(newSearchCommand(cc))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
