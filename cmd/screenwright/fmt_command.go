/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/fountain"
)

func newFmtCommand(cc *commandContext) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Normalize screenplay text (encoding, whitespace, headings, spacing)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, path, err := cc.readScript(args)
			if err != nil {
				return err
			}
			out := canonicalizeHeadings(fountain.Normalize(text))
			return cc.writeResult(cmd.OutOrStdout(), out, path, write, len(args) > 0)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite the source in place instead of printing")
	return cmd
}

// canonicalizeHeadings rebuilds each scene heading from its parsed parts so
// the type token reaches its canonical punctuated form.
func canonicalizeHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		s := strings.TrimSpace(ln)
		if !fountain.IsSceneHeading(s) {
			continue
		}
		if built := fountain.BuildSceneHeading(fountain.ParseSceneHeading(s)); built != "" {
			lines[i] = built
		}
	}
	return strings.Join(lines, "\n")
}
