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

	"github.com/spf13/cobra"

	"screenwright/internal/storage"
)

func newSearchCommand(cc *commandContext) *cobra.Command {
	var character, scene string
	var types []string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search the project index (scenes, dialogue, action, registry)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := cc.handle()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := storage.DetectAndRebuildIndex(ctx, ph); err != nil {
				return err
			}
			if err := storage.UpdateIndex(ctx, ph); err != nil {
				return err
			}

			q := storage.SearchQuery{
				Character: character,
				Scene:     scene,
				Types:     types,
				Limit:     limit,
				Offset:    offset,
			}
			if len(args) > 0 {
				q.Text = args[0]
			}
			results, err := storage.Search(ctx, ph.Root, q)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches")
				return nil
			}
			for _, r := range results {
				loc := r.Scene
				if r.Line >= 0 {
					loc = fmt.Sprintf("%s:%d", r.Scene, r.Line+1)
				}
				line := fmt.Sprintf("%-10s %s", r.Type, loc)
				if s := strings.TrimSpace(r.Snippet); s != "" {
					line += "  " + s
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&character, "character", "", "Filter by character cue or registry ID")
	cmd.Flags().StringVar(&scene, "scene", "", "Filter by scene heading substring")
	cmd.Flags().StringSliceVar(&types, "type", nil, "Filter by document type (scene, dialogue, action, character, location)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum number of results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Result offset for paging")
	return cmd
}
