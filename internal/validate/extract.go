/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package validate checks AI-generated JSON payloads against the fixed
// response envelopes before their content is merged into a screenplay.
// Failures come back as data, never as panics or errors: the generation
// pipeline retries with a corrective prompt, the editor keeps running.
package validate

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonFenceRe    = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	genericFenceRe = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// ExtractJSON pulls the first well-formed top-level JSON object out of a raw
// model response. Models wrap JSON in markdown fences or surround it with
// prose; each strategy is tried in order until one parses:
// the raw string, a ```json fence, a generic ``` fence, then the first
// balanced {...} span.
func ExtractJSON(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isJSONObject(trimmed) {
		return trimmed, true
	}
	if m := jsonFenceRe.FindStringSubmatch(raw); m != nil {
		if c := strings.TrimSpace(m[1]); isJSONObject(c) {
			return c, true
		}
	}
	if m := genericFenceRe.FindStringSubmatch(raw); m != nil {
		if c := strings.TrimSpace(m[1]); isJSONObject(c) {
			return c, true
		}
	}
	if c, ok := firstBalancedObject(raw); ok && isJSONObject(c) {
		return c, true
	}
	return "", false
}

func isJSONObject(s string) bool {
	if !strings.HasPrefix(s, "{") {
		return false
	}
	var v map[string]any
	return json.Unmarshal([]byte(s), &v) == nil
}

// firstBalancedObject scans for the first brace-balanced {...} span,
// honoring strings and escapes so braces inside values do not miscount.
func firstBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
