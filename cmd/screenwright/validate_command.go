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
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"screenwright/internal/validate"
)

func newValidateCommand() *cobra.Command {
	var kind string
	var contextFile string
	var sceneCount int

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a model response payload and print the merged text",
		Long: `Validate reads a model response (from a file or stdin), extracts the JSON
envelope, checks it against the schema for the given kind and prints the
merged screenplay text on success. Violations are reported all at once.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) > 0 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			prior := ""
			if contextFile != "" {
				b, err := os.ReadFile(contextFile)
				if err != nil {
					return fmt.Errorf("read context: %w", err)
				}
				prior = string(b)
			}

			var res validate.Result
			switch kind {
			case "screenplay":
				res = validate.ValidateScreenplayContent(string(raw), prior)
			case "director":
				res = validate.ValidateDirectorContent(string(raw), sceneCount)
			case "rewrite":
				res = validate.ValidateRewriteContent(string(raw))
			case "dialogue":
				res = validate.ValidateDialogueContent(string(raw))
			case "director-modal":
				res = validate.ValidateDirectorModalContent(string(raw))
			default:
				return fmt.Errorf("unknown kind %q (want screenplay, director, rewrite, dialogue or director-modal)", kind)
			}

			if !res.Valid {
				return fmt.Errorf("payload invalid:\n  - %s", strings.Join(res.Errors, "\n  - "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "screenplay", "Payload kind: screenplay, director, rewrite, dialogue, director-modal")
	cmd.Flags().StringVar(&contextFile, "context", "", "File with prior screenplay context for duplicate detection")
	cmd.Flags().IntVar(&sceneCount, "scenes", 0, "Scene count bound for director payloads (0 disables)")
	return cmd
}
