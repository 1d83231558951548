/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"screenwright/internal/fountain"
	"screenwright/internal/storage"
	"screenwright/internal/tags"
)

// PDFOptions controls screenplay PDF export behavior.
//
// The layout follows the standard US screenplay format: US Letter, Courier
// 12pt, six lines per inch, with per-element indents measured from the left
// page edge. Tag directives (@location etc.) are always stripped before
// rendering; they are editor metadata, not screenplay content.
type PDFOptions struct {
	IncludeTitlePage bool
	PageNumbers      bool
}

// Page geometry in points. US Letter, 1in top/bottom margins,
// 1.5in left binding margin.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	marginTop  = 72.0
	marginBot  = 72.0
	lineHeight = 12.0 // 6 lines per inch at 12pt
	charWidth  = 7.2  // Courier 12pt is fixed-pitch at 10 cpi
)

// elementLayout gives the left edge and maximum width for one element kind.
type elementLayout struct {
	x     float64
	width float64
}

// Indents per the standard screenplay layout, from the left page edge.
var layoutFor = map[fountain.ElementKind]elementLayout{
	fountain.SceneHeading:  {108, 432}, // 1.5in
	fountain.Action:        {108, 432},
	fountain.CharacterName: {266, 238}, // 3.7in
	fountain.Parenthetical: {223, 160}, // 3.1in
	fountain.Dialogue:      {180, 252}, // 2.5in, 3.5in wide
	fountain.Transition:    {108, 432}, // right-aligned within the text column
}

// ExportScreenplayPDF renders the given screenplay text to a PDF at outPath.
// A relative outPath is placed under the project's exports folder.
func ExportScreenplayPDF(ph *storage.ProjectHandle, script string, outPath string, opt PDFOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(ph.Project.Name, false)
	if a := strings.TrimSpace(ph.Project.Metadata.Author); a != "" {
		pdf.SetAuthor(a, false)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Courier", "", 12)

	if opt.IncludeTitlePage {
		renderTitlePage(pdf, ph)
	}

	body := tags.Remove(script)
	renderScript(pdf, body, opt)

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(ph.Root, "exports", outPath)
	}
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderTitlePage(pdf *gofpdf.Fpdf, ph *storage.ProjectHandle) {
	pdf.AddPage()
	meta := ph.Project.Metadata
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = ph.Project.Name
	}

	centerText := func(y float64, s string) {
		w := float64(len(s)) * charWidth
		pdf.Text((pageWidth-w)/2, y, s)
	}
	centerText(pageHeight/3, strings.ToUpper(title))
	if a := strings.TrimSpace(meta.Author); a != "" {
		centerText(pageHeight/3+3*lineHeight, "Written by")
		centerText(pageHeight/3+5*lineHeight, a)
	}
	if c := strings.TrimSpace(meta.Contact); c != "" {
		y := pageHeight - marginBot - lineHeight*float64(len(strings.Split(c, "\n"))-1)
		for _, ln := range strings.Split(c, "\n") {
			pdf.Text(108, y, ln)
			y += lineHeight
		}
	}
	if d := strings.TrimSpace(meta.Draft); d != "" {
		w := float64(len(d)) * charWidth
		pdf.Text(pageWidth-72-w, pageHeight-marginBot, d)
	}
}

func renderScript(pdf *gofpdf.Fpdf, script string, opt PDFOptions) {
	lines := strings.Split(script, "\n")
	pageNum := 0
	y := pageHeight // force a page on first line

	newPage := func() {
		pdf.AddPage()
		pageNum++
		if opt.PageNumbers && pageNum > 1 {
			n := fmt.Sprintf("%d.", pageNum)
			pdf.Text(pageWidth-72-float64(len(n))*charWidth, marginTop-lineHeight, n)
		}
		y = marginTop + lineHeight
	}

	emit := func(x float64, s string) {
		if y > pageHeight-marginBot {
			newPage()
		}
		pdf.Text(x, y, s)
		y += lineHeight
	}

	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			// Blank lines advance the cursor but never spill onto a new page
			if y <= pageHeight-marginBot {
				y += lineHeight
			}
			continue
		}
		prev, next := "", ""
		if i > 0 {
			prev = lines[i-1]
		}
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		kind := fountain.Classify(line, prev, next)
		lay := layoutFor[kind]
		text := strings.TrimSpace(line)
		if kind == fountain.Transition {
			// Right-aligned within the text column
			w := float64(len(text)) * charWidth
			emit(lay.x+lay.width-w, text)
			continue
		}
		for _, wrapped := range wrapText(text, int(lay.width/charWidth)) {
			emit(lay.x, wrapped)
		}
	}
	if pageNum == 0 {
		newPage()
	}
}

// wrapText breaks s into lines of at most maxChars using greedy word wrap.
// A single word longer than maxChars is emitted on its own line unbroken.
func wrapText(s string, maxChars int) []string {
	if maxChars <= 0 || len(s) <= maxChars {
		return []string{s}
	}
	words := strings.Fields(s)
	var out []string
	var cur strings.Builder
	for _, w := range words {
		if cur.Len() == 0 {
			cur.WriteString(w)
			continue
		}
		if cur.Len()+1+len(w) > maxChars {
			out = append(out, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
