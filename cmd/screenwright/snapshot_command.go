/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screenwright/internal/storage"
)

func newSnapshotCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage the script snapshot history",
	}
	cmd.AddCommand(newSnapshotSaveCommand(cc))
	cmd.AddCommand(newSnapshotListCommand(cc))
	return cmd
}

func newSnapshotSaveCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current script text as a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := cc.handle()
			if err != nil {
				return err
			}
			script, err := storage.ReadScript(ph)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if err := storage.SaveScriptSnapshot(cmd.Context(), ph, script, now); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved snapshot at", now.Format(time.RFC3339))
			return nil
		},
	}
}

func newSnapshotListCommand(cc *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := cc.handle()
			if err != nil {
				return err
			}
			list, err := storage.ListScriptSnapshots(cmd.Context(), ph, limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots")
				return nil
			}
			for _, s := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", s.TS.Format(time.RFC3339), snapshotSummary(s.Text))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of snapshots to list")
	return cmd
}

// snapshotSummary returns the first non-blank line, truncated.
func snapshotSummary(text string) string {
	for _, ln := range strings.Split(text, "\n") {
		s := strings.TrimSpace(ln)
		if s == "" {
			continue
		}
		if len(s) > 60 {
			return s[:57] + "..."
		}
		return s
	}
	return "(empty)"
}
