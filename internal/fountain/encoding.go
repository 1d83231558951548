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

// mojibakeFix is one ordered repair rule. The table order is load-bearing:
// several corrupted sequences are prefixes of others (bare "â€" must run after
// every longer "â€x" form), so the rules are applied strictly in sequence.
type mojibakeFix struct {
	pattern     *regexp.Regexp
	replacement string
}

var mojibakeTable = []mojibakeFix{
	// UTF-8 punctuation decoded as Windows-1252.
	{regexp.MustCompile(`â€™`), "'"},
	{regexp.MustCompile(`â€˜`), "'"},
	{regexp.MustCompile(`â€œ`), `"`},
	{regexp.MustCompile("â€"), `"`},
	{regexp.MustCompile(`â€”`), "—"},
	{regexp.MustCompile(`â€“`), "–"},
	{regexp.MustCompile(`â€¦`), "…"},
	// Common accented letters.
	{regexp.MustCompile(`Ã©`), "é"},
	{regexp.MustCompile(`Ã¨`), "è"},
	{regexp.MustCompile(`Ã¡`), "á"},
	{regexp.MustCompile(`Ã³`), "ó"},
	{regexp.MustCompile(`Ãº`), "ú"},
	{regexp.MustCompile(`Ã±`), "ñ"},
	{regexp.MustCompile(`Ã¼`), "ü"},
	{regexp.MustCompile(`Ã¶`), "ö"},
	{regexp.MustCompile(`Ã¤`), "ä"},
	// Non-breaking space artifacts.
	{regexp.MustCompile(`Â `), " "},
	// Leftover prefix once the longer sequences are gone.
	{regexp.MustCompile(`â€`), `"`},
}

// FixCharacterEncoding repairs mojibake from mis-decoded UTF-8 in pasted or
// imported text. Clean input passes through unchanged, and repairing twice is
// a no-op.
func FixCharacterEncoding(text string) string {
	if text == "" {
		return text
	}
	for _, f := range mojibakeTable {
		text = f.pattern.ReplaceAllString(text, f.replacement)
	}
	if strings.ContainsRune(text, '�') {
		text = repairReplacementRunes(text)
	}
	return text
}

// repairReplacementRunes resolves U+FFFD heuristically: between alphanumerics
// it was almost certainly an apostrophe (contractions survive paste-mangling
// that way), next to whitespace it was most likely a quote.
func repairReplacementRunes(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		if r != '�' {
			b.WriteRune(r)
			continue
		}
		var before, after rune
		if i > 0 {
			before = runes[i-1]
		}
		if i+1 < len(runes) {
			after = runes[i+1]
		}
		switch {
		case isAlphanumeric(before) && isAlphanumeric(after):
			b.WriteRune('\'')
		case unicode.IsSpace(before) || unicode.IsSpace(after):
			b.WriteRune('"')
		default:
			b.WriteRune('\'')
		}
	}
	return b.String()
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// DetectEncodingIssues reports whether the text contains any repairable
// corruption. It never mutates; use it as a cheap gate before
// FixCharacterEncoding.
func DetectEncodingIssues(text string) bool {
	if text == "" {
		return false
	}
	if strings.ContainsRune(text, '�') {
		return true
	}
	for _, f := range mojibakeTable {
		if f.pattern.MatchString(text) {
			return true
		}
	}
	return false
}
