/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package validate

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"screenwright/internal/fountain"
)

// Result is the outcome of validating one model response. On success Content
// holds the merged text; on failure Errors collects every violation found,
// not just the first, so a retry prompt can name them all.
type Result struct {
	Valid   bool
	Errors  []string
	Content string
}

func invalid(errs ...string) Result { return Result{Errors: errs} }

const duplicateMinLength = 20

var whitespaceRunRe = regexp.MustCompile(`\s+`)

// ValidateScreenplayContent checks a chat-continuation payload:
// {"content": [...], "lineCount": n} with 1-10 string items. Scene headings
// are forbidden inside continuation content, and items already present in
// priorContext are flagged as duplicates. Pass "" to skip duplicate checks.
func ValidateScreenplayContent(raw string, priorContext string) Result {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return invalid("no JSON object found in response")
	}
	errs := schemaErrors("screenplay", doc)

	var env struct {
		Content   []string `json:"content"`
		LineCount int      `json:"lineCount"`
	}
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		errs = append(errs, fmt.Sprintf("envelope decode failed: %v", err))
		return invalid(errs...)
	}
	if env.LineCount != len(env.Content) {
		errs = append(errs, fmt.Sprintf("lineCount %d does not match content length %d", env.LineCount, len(env.Content)))
	}
	for i, item := range env.Content {
		if fountain.IsSceneHeading(item) {
			errs = append(errs, fmt.Sprintf("content[%d] is a scene heading, which is not allowed in continuation content", i))
		}
	}
	errs = append(errs, duplicateErrors(env.Content, priorContext)...)
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return Result{Valid: true, Content: joinItems(env.Content)}
}

// ValidateDirectorContent checks a full-scene generation payload with the
// same envelope but a scene-proportional bound: up to sceneCount*50 items.
// Synopsis ("=") and section/act ("#") markers invalidate the payload.
func ValidateDirectorContent(raw string, sceneCount int) Result {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return invalid("no JSON object found in response")
	}
	errs := schemaErrors("director", doc)

	var env struct {
		Content   []string `json:"content"`
		LineCount int      `json:"lineCount"`
	}
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		errs = append(errs, fmt.Sprintf("envelope decode failed: %v", err))
		return invalid(errs...)
	}
	if env.LineCount != len(env.Content) {
		errs = append(errs, fmt.Sprintf("lineCount %d does not match content length %d", env.LineCount, len(env.Content)))
	}
	if sceneCount > 0 {
		if max := sceneCount * 50; len(env.Content) > max {
			errs = append(errs, fmt.Sprintf("content has %d items, exceeding the limit of %d for %d scene(s)", len(env.Content), max, sceneCount))
		}
	}
	errs = append(errs, forbiddenMarkerErrors(env.Content)...)
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return Result{Valid: true, Content: joinItems(env.Content)}
}

// ValidateRewriteContent checks {"rewrittenText": "..."}.
func ValidateRewriteContent(raw string) Result {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return invalid("no JSON object found in response")
	}
	errs := schemaErrors("rewrite", doc)

	var env struct {
		RewrittenText string `json:"rewrittenText"`
	}
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		errs = append(errs, fmt.Sprintf("envelope decode failed: %v", err))
		return invalid(errs...)
	}
	if strings.TrimSpace(env.RewrittenText) == "" {
		errs = append(errs, "rewrittenText is empty")
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return Result{Valid: true, Content: strings.TrimSpace(env.RewrittenText)}
}

// ValidateDialogueContent checks {"dialogue": [{character, line, subtext?}]}
// and renders the exchanges as Fountain blocks: cue, optional parenthetical
// from subtext, then the spoken line.
func ValidateDialogueContent(raw string) Result {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return invalid("no JSON object found in response")
	}
	errs := schemaErrors("dialogue", doc)

	var env struct {
		Dialogue []struct {
			Character string `json:"character"`
			Line      string `json:"line"`
			Subtext   string `json:"subtext"`
		} `json:"dialogue"`
	}
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		errs = append(errs, fmt.Sprintf("envelope decode failed: %v", err))
		return invalid(errs...)
	}
	for i, d := range env.Dialogue {
		if fountain.IsSceneHeading(d.Line) {
			errs = append(errs, fmt.Sprintf("dialogue[%d].line is a scene heading", i))
		}
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	blocks := make([]string, 0, len(env.Dialogue))
	for _, d := range env.Dialogue {
		var b strings.Builder
		b.WriteString(strings.ToUpper(strings.TrimSpace(d.Character)))
		if s := strings.TrimSpace(d.Subtext); s != "" {
			b.WriteString("\n(")
			b.WriteString(s)
			b.WriteString(")")
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(d.Line))
		blocks = append(blocks, b.String())
	}
	return Result{Valid: true, Content: strings.Join(blocks, "\n\n")}
}

// ValidateDirectorModalContent checks {"scenes": [{heading, content,
// breakdown?}]}. Every heading must classify as a scene heading and scene
// content must not carry synopsis or section markers.
func ValidateDirectorModalContent(raw string) Result {
	doc, ok := ExtractJSON(raw)
	if !ok {
		return invalid("no JSON object found in response")
	}
	errs := schemaErrors("director_modal", doc)

	var env struct {
		Scenes []struct {
			Heading   string `json:"heading"`
			Content   string `json:"content"`
			Breakdown string `json:"breakdown"`
		} `json:"scenes"`
	}
	if err := json.Unmarshal([]byte(doc), &env); err != nil {
		errs = append(errs, fmt.Sprintf("envelope decode failed: %v", err))
		return invalid(errs...)
	}
	for i, sc := range env.Scenes {
		if sc.Heading != "" && !fountain.IsSceneHeading(sc.Heading) {
			errs = append(errs, fmt.Sprintf("scenes[%d].heading %q is not a valid scene heading", i, sc.Heading))
		}
		errs = append(errs, prefixMarkerErrors(sc.Content, fmt.Sprintf("scenes[%d].content", i))...)
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}
	blocks := make([]string, 0, len(env.Scenes))
	for _, sc := range env.Scenes {
		blocks = append(blocks, strings.TrimSpace(sc.Heading)+"\n\n"+strings.TrimSpace(sc.Content))
	}
	return Result{Valid: true, Content: strings.Join(blocks, "\n\n\n")}
}

// joinItems merges array items with newlines. Edge whitespace is trimmed but
// internal empty items survive; they are intentional blank lines.
func joinItems(items []string) string {
	return strings.TrimSpace(strings.Join(items, "\n"))
}

// forbiddenMarkerErrors flags synopsis and section markers in generated
// scene content.
func forbiddenMarkerErrors(items []string) []string {
	var errs []string
	for i, item := range items {
		t := strings.TrimSpace(item)
		if strings.HasPrefix(t, "=") {
			errs = append(errs, fmt.Sprintf("content[%d] is a synopsis marker, which is not allowed in scene content", i))
		} else if strings.HasPrefix(t, "#") {
			errs = append(errs, fmt.Sprintf("content[%d] is a section/act marker, which is not allowed in scene content", i))
		}
	}
	return errs
}

func prefixMarkerErrors(content, label string) []string {
	var errs []string
	for _, ln := range strings.Split(content, "\n") {
		t := strings.TrimSpace(ln)
		if strings.HasPrefix(t, "=") || strings.HasPrefix(t, "#") {
			errs = append(errs, fmt.Sprintf("%s contains a synopsis or section marker", label))
			break
		}
	}
	return errs
}

// duplicateErrors flags items of 20+ characters whose normalized form exactly
// equals a normalized line in the prior context. Exact-line comparison only;
// substring containment would false-positive on short common phrases.
func duplicateErrors(items []string, context string) []string {
	if strings.TrimSpace(context) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, ln := range strings.Split(context, "\n") {
		if n := normalizeForDup(ln); n != "" {
			seen[n] = struct{}{}
		}
	}
	var errs []string
	for i, item := range items {
		if len(item) < duplicateMinLength {
			continue
		}
		if _, ok := seen[normalizeForDup(item)]; ok {
			errs = append(errs, fmt.Sprintf("content[%d] duplicates a line already present in the scene", i))
		}
	}
	return errs
}

func normalizeForDup(s string) string {
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(strings.ToLower(s), " "))
}

// BuildRetryPrompt formats the corrective follow-up sent back to the model
// when validation fails. Retry count is the caller's policy.
func BuildRetryPrompt(original string, errors []string) string {
	var b strings.Builder
	b.WriteString("Your previous response was invalid:\n")
	for _, e := range errors {
		b.WriteString("- ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString("\nOriginal request:\n")
	b.WriteString(original)
	b.WriteString("\n\nRespond again with only the corrected JSON object and no surrounding text.")
	return b.String()
}
