/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"regexp"
	"strings"
	"unicode"
)

var multiSpaceRe = regexp.MustCompile(`  +`)

// NormalizeWhitespace cleans up pasted or imported text: line endings become
// \n, non-blank lines are trimmed and internal space runs collapsed, and
// soft-wrapped lines are joined back together. Blank lines are never touched;
// they delimit elements and their count and order must survive exactly.
func NormalizeWhitespace(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, ln := range raw {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			ln = multiSpaceRe.ReplaceAllString(ln, " ")
		}
		lines[i] = ln
	}

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		cur := lines[i]
		if cur == "" {
			out = append(out, "")
			continue
		}
		for i+1 < len(lines) && isSoftWrapped(cur, lines[i+1]) {
			cur = cur + " " + lines[i+1]
			i++
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

// isSoftWrapped reports whether next is a continuation of cur produced by a
// hard wrap rather than an intentional new element.
func isSoftWrapped(cur, next string) bool {
	if cur == "" || next == "" {
		return false
	}
	if endsInTerminalPunctuation(cur) {
		return false
	}
	r := firstRune(next)
	if unicode.IsUpper(r) {
		return false
	}
	if IsSceneHeading(next) {
		return false
	}
	// Anything under a character cue (parenthetical or lowercase dialogue) is
	// an intentional element, never a wrap. The broader check keeps the
	// normalizer idempotent: joining under a cue once would make the pair
	// joinable again on the next pass.
	if isCharacterCue(cur, next) {
		return false
	}
	return true
}

func endsInTerminalPunctuation(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return false
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
