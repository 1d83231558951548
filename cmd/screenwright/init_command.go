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
	"path/filepath"

	"github.com/spf13/cobra"

	"screenwright/internal/domain"
	"screenwright/internal/storage"
)

func newInitCommand(cc *commandContext) *cobra.Command {
	var name, title, author string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new screenplay project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cc.projectRoot()
			if len(args) > 0 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				dir = abs
			}
			if name == "" {
				name = filepath.Base(dir)
			}
			proj := domain.Project{
				Name:     name,
				Metadata: domain.Metadata{Title: title, Author: author},
			}
			ph, err := storage.InitProject(dir, proj)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created project at", ph.Root)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (defaults to the directory name)")
	cmd.Flags().StringVar(&title, "title", "", "Screenplay title for the title page")
	cmd.Flags().StringVar(&author, "author", "", "Author for the title page")
	return cmd
}
