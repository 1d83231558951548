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

	"github.com/spf13/cobra"

	"screenwright/internal/storage"
	"screenwright/internal/tags"
)

func newOpenCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the project, refresh its index and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := cc.handle()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if rebuilt, err := storage.DetectAndRebuildIndex(ctx, ph); err != nil {
				return err
			} else if rebuilt {
				fmt.Fprintln(cmd.OutOrStdout(), "Index was corrupted and has been rebuilt")
			}
			if err := storage.UpdateIndex(ctx, ph); err != nil {
				return err
			}

			script, err := storage.ReadScript(ph)
			if err != nil {
				return err
			}
			scenes := tags.Extract(script)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:    %s\n", ph.Project.Name)
			if t := ph.Project.Metadata.Title; t != "" {
				fmt.Fprintf(out, "Title:      %s\n", t)
			}
			if a := ph.Project.Metadata.Author; a != "" {
				fmt.Fprintf(out, "Author:     %s\n", a)
			}
			fmt.Fprintf(out, "Root:       %s\n", ph.Root)
			fmt.Fprintf(out, "Scenes:     %d\n", len(scenes))
			fmt.Fprintf(out, "Characters: %d\n", len(ph.Project.Characters))
			fmt.Fprintf(out, "Locations:  %d\n", len(ph.Project.Locations))
			return nil
		},
	}
}
