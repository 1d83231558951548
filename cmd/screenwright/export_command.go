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

	"screenwright/internal/export"
	"screenwright/internal/storage"
)

func newExportCommand(cc *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the screenplay",
	}
	cmd.AddCommand(newExportPDFCommand(cc))
	return cmd
}

func newExportPDFCommand(cc *commandContext) *cobra.Command {
	var titlePage bool
	var pageNumbers bool

	cmd := &cobra.Command{
		Use:   "pdf [out]",
		Short: "Render the script to a PDF in standard screenplay layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ph, err := cc.handle()
			if err != nil {
				return err
			}
			script, err := storage.ReadScript(ph)
			if err != nil {
				return err
			}
			out := "screenplay.pdf"
			if len(args) > 0 {
				out = args[0]
			}
			opt := export.PDFOptions{IncludeTitlePage: titlePage, PageNumbers: pageNumbers}
			if err := export.ExportScreenplayPDF(ph, script, out, opt); err != nil {
				return err
			}
			if !filepath.IsAbs(out) {
				out = filepath.Join(ph.Root, "exports", out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&titlePage, "title-page", true, "Include a title page from project metadata")
	cmd.Flags().BoolVar(&pageNumbers, "page-numbers", true, "Print page numbers from page 2 on")
	return cmd
}
