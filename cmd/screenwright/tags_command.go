/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"screenwright/internal/tags"
)

func newTagsCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Extract, inject or strip scene tag directives",
	}
	cmd.AddCommand(newTagsExtractCommand(cc))
	cmd.AddCommand(newTagsInjectCommand(cc))
	cmd.AddCommand(newTagsStripCommand(cc))
	return cmd
}

func newTagsExtractCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file]",
		Short: "Print per-scene tag metadata as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := cc.readScript(args)
			if err != nil {
				return err
			}
			scenes := tags.Extract(text)
			b, err := json.MarshalIndent(scenes, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newTagsInjectCommand(cc *commandContext) *cobra.Command {
	var write bool
	var scene, location string
	var characters []string

	cmd := &cobra.Command{
		Use:   "inject [file]",
		Short: "Insert tag directives below a scene heading",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := cc.readScript(args)
			if err != nil {
				return err
			}
			out, ok := tags.Inject(text, scene, characters, location)
			if !ok {
				return fmt.Errorf("scene heading not found: %s", scene)
			}
			return cc.writeResult(cmd.OutOrStdout(), out, path, write, len(args) > 0)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the source in place instead of printing")
	cmd.Flags().StringVar(&scene, "scene", "", "Scene heading to tag (exact match)")
	cmd.Flags().StringVar(&location, "location", "", "Location ID to attach")
	cmd.Flags().StringSliceVar(&characters, "characters", nil, "Character IDs to attach")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func newTagsStripCommand(cc *commandContext) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "Remove all tag directives from the text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := cc.readScript(args)
			if err != nil {
				return err
			}
			return cc.writeResult(cmd.OutOrStdout(), tags.Remove(text), path, write, len(args) > 0)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the source in place instead of printing")
	return cmd
}
