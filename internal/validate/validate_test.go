/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package validate

import (
	"strings"
	"testing"
)

func TestExtractJSONRaw(t *testing.T) {
	got, ok := ExtractJSON(`{"a": 1}`)
	if !ok || got != `{"a": 1}` {
		t.Fatalf("raw extraction failed: %q %v", got, ok)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	raw := "Here you go:\n```json\n{\"content\": [\"x\"], \"lineCount\": 1}\n```\nHope that helps."
	got, ok := ExtractJSON(raw)
	if !ok || !strings.HasPrefix(got, "{") {
		t.Fatalf("fenced extraction failed: %q %v", got, ok)
	}
}

func TestExtractJSONGenericFence(t *testing.T) {
	raw := "```\n{\"a\": true}\n```"
	got, ok := ExtractJSON(raw)
	if !ok || got != `{"a": true}` {
		t.Fatalf("generic fence extraction failed: %q %v", got, ok)
	}
}

func TestExtractJSONEmbeddedObject(t *testing.T) {
	raw := `Sure! The result is {"content": ["He runs."], "lineCount": 1} as requested.`
	got, ok := ExtractJSON(raw)
	if !ok || !strings.Contains(got, "He runs.") {
		t.Fatalf("embedded extraction failed: %q %v", got, ok)
	}
}

func TestExtractJSONBracesInsideStrings(t *testing.T) {
	raw := `prefix {"text": "a } inside \" quote"} suffix`
	got, ok := ExtractJSON(raw)
	if !ok || got != `{"text": "a } inside \" quote"}` {
		t.Fatalf("string-aware scan failed: %q %v", got, ok)
	}
}

func TestExtractJSONNothing(t *testing.T) {
	if _, ok := ExtractJSON("no json here at all"); ok {
		t.Fatalf("expected failure on prose-only input")
	}
}

func TestScreenplayContentValid(t *testing.T) {
	res := ValidateScreenplayContent(`{"content": ["He stands.", "", "He sits."], "lineCount": 3}`, "")
	if !res.Valid {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Content != "He stands.\n\nHe sits." {
		t.Fatalf("content: %q", res.Content)
	}
}

func TestScreenplayContentEmptyArray(t *testing.T) {
	res := ValidateScreenplayContent(`{"content": [], "lineCount": 0}`, "")
	if res.Valid {
		t.Fatalf("empty content must be invalid")
	}
}

func TestScreenplayContentLineCountMismatch(t *testing.T) {
	res := ValidateScreenplayContent(`{"content": ["a", "b"], "lineCount": 5}`, "")
	if res.Valid {
		t.Fatalf("mismatched lineCount must be invalid")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "lineCount") {
			found = true
		}
	}
	if !found {
		t.Fatalf("mismatch not reported: %v", res.Errors)
	}
}

func TestScreenplayContentForbiddenHeading(t *testing.T) {
	res := ValidateScreenplayContent(`{"content": ["INT. ROOM"], "lineCount": 1}`, "")
	if res.Valid {
		t.Fatalf("scene heading in continuation content must be invalid")
	}
}

func TestScreenplayContentDuplicateDetection(t *testing.T) {
	ctx := "SARAH\nShe walks slowly toward the door.\nShe stops."
	res := ValidateScreenplayContent(`{"content": ["She walks  slowly toward the door."], "lineCount": 1}`, ctx)
	if res.Valid {
		t.Fatalf("duplicate of context line must be invalid")
	}
	// Short lines never count as duplicates.
	res = ValidateScreenplayContent(`{"content": ["She stops."], "lineCount": 1}`, ctx)
	if !res.Valid {
		t.Fatalf("short line flagged as duplicate: %v", res.Errors)
	}
}

func TestScreenplayContentCollectsAllErrors(t *testing.T) {
	res := ValidateScreenplayContent(`{"content": ["INT. ROOM", "EXT. PARK"], "lineCount": 9}`, "")
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if len(res.Errors) < 3 {
		t.Fatalf("expected every violation collected, got %v", res.Errors)
	}
}

func TestDirectorContentSceneBound(t *testing.T) {
	items := make([]string, 51)
	for i := range items {
		items[i] = `"line"`
	}
	raw := `{"content": [` + strings.Join(items, ",") + `], "lineCount": 51}`
	res := ValidateDirectorContent(raw, 1)
	if res.Valid {
		t.Fatalf("51 items for one scene must be invalid")
	}
	res = ValidateDirectorContent(raw, 2)
	if !res.Valid {
		t.Fatalf("51 items for two scenes rejected: %v", res.Errors)
	}
}

func TestDirectorContentForbiddenMarkers(t *testing.T) {
	res := ValidateDirectorContent(`{"content": ["= She confronts him."], "lineCount": 1}`, 1)
	if res.Valid {
		t.Fatalf("synopsis marker must be invalid")
	}
	res = ValidateDirectorContent(`{"content": ["# ACT TWO"], "lineCount": 1}`, 1)
	if res.Valid {
		t.Fatalf("act marker must be invalid")
	}
}

func TestRewriteContent(t *testing.T) {
	res := ValidateRewriteContent(`{"rewrittenText": "Hello"}`)
	if !res.Valid || res.Content != "Hello" {
		t.Fatalf("rewrite: %+v", res)
	}
	if ValidateRewriteContent(`{"rewrittenText": "   "}`).Valid {
		t.Fatalf("blank rewrite must be invalid")
	}
	if ValidateRewriteContent(`{"wrong": "Hello"}`).Valid {
		t.Fatalf("missing field must be invalid")
	}
}

func TestDialogueContent(t *testing.T) {
	raw := `{"dialogue": [
		{"character": "Sarah", "line": "We need to talk.", "subtext": "quietly"},
		{"character": "ROBERT", "line": "Not now."}
	]}`
	res := ValidateDialogueContent(raw)
	if !res.Valid {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	want := "SARAH\n(quietly)\nWe need to talk.\n\nROBERT\nNot now."
	if res.Content != want {
		t.Fatalf("rendered dialogue:\n%q\nwant\n%q", res.Content, want)
	}
}

func TestDialogueContentEmpty(t *testing.T) {
	if ValidateDialogueContent(`{"dialogue": []}`).Valid {
		t.Fatalf("empty dialogue must be invalid")
	}
}

func TestDirectorModalContent(t *testing.T) {
	raw := `{"scenes": [{"heading": "INT. OFFICE - DAY", "content": "She types."}]}`
	res := ValidateDirectorModalContent(raw)
	if !res.Valid {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if res.Content != "INT. OFFICE - DAY\n\nShe types." {
		t.Fatalf("content: %q", res.Content)
	}
}

func TestDirectorModalBadHeading(t *testing.T) {
	raw := `{"scenes": [{"heading": "THE OFFICE", "content": "She types."}]}`
	if ValidateDirectorModalContent(raw).Valid {
		t.Fatalf("non-heading must be invalid")
	}
}

func TestBuildRetryPrompt(t *testing.T) {
	p := BuildRetryPrompt("Write the next lines.", []string{"lineCount 5 does not match content length 2"})
	if !strings.Contains(p, "lineCount 5") || !strings.Contains(p, "Write the next lines.") {
		t.Fatalf("retry prompt missing parts:\n%s", p)
	}
	if !strings.Contains(p, "only the corrected JSON object") {
		t.Fatalf("retry prompt missing instruction:\n%s", p)
	}
}
