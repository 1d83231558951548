/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package tags reads and writes the inline @location:/@characters: directive
// lines that persist scene/character/location relationships alongside the
// screenplay text. Directives live inside a scene's span (from its heading to
// the next heading), are stripped for display and re-injected before save.
//
// The singular @character: form deduplicates accumulated ids while the plural
// @characters: form appends as-is. The asymmetry is inherited from stored
// documents and is kept for compatibility.
package tags

import (
	"regexp"
	"strings"

	"screenwright/internal/fountain"
)

// SceneTags is the relationship metadata attached to one scene.
// StartLine and EndLine are zero-based inclusive bounds of the scene's span.
type SceneTags struct {
	SceneHeading string
	Characters   []string
	Location     string
	StartLine    int
	EndLine      int
}

var (
	locationRe   = regexp.MustCompile(`^@location:\s*(.+)$`)
	charactersRe = regexp.MustCompile(`^@characters:\s*(.+)$`)
	characterRe  = regexp.MustCompile(`^@character:\s*(.+)$`)
	anyTagRe     = regexp.MustCompile(`^@(location|characters?|scene):`)
)

// Extract scans the document top to bottom and returns per-scene tag records.
// A scene's span opens at its heading and closes just before the next heading
// (or at end of document).
func Extract(document string) []SceneTags {
	lines := strings.Split(document, "\n")
	var scenes []SceneTags
	open := -1

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if fountain.IsSceneHeading(line) {
			if open >= 0 {
				scenes[open].EndLine = i - 1
			}
			scenes = append(scenes, SceneTags{SceneHeading: line, StartLine: i, EndLine: len(lines) - 1})
			open = len(scenes) - 1
			continue
		}
		if open < 0 {
			continue
		}
		if m := locationRe.FindStringSubmatch(line); m != nil {
			scenes[open].Location = strings.TrimSpace(m[1])
			continue
		}
		if m := charactersRe.FindStringSubmatch(line); m != nil {
			for _, id := range strings.Split(m[1], ",") {
				if id = strings.TrimSpace(id); id != "" {
					scenes[open].Characters = append(scenes[open].Characters, id)
				}
			}
			continue
		}
		if m := characterRe.FindStringSubmatch(line); m != nil {
			id := strings.TrimSpace(m[1])
			if id != "" && !contains(scenes[open].Characters, id) {
				scenes[open].Characters = append(scenes[open].Characters, id)
			}
		}
	}
	return scenes
}

// Inject writes fresh directive lines for the scene identified by an exact
// heading match. Any stale directives inside the scene's span are removed
// first so re-injection never duplicates or leaves old state behind.
// The second return value is false when no line matches the heading.
func Inject(document, sceneHeading string, characters []string, location string) (string, bool) {
	lines := strings.Split(document, "\n")
	heading := strings.TrimSpace(sceneHeading)

	at := -1
	for i, raw := range lines {
		if strings.TrimSpace(raw) == heading {
			at = i
			break
		}
	}
	if at < 0 {
		return document, false
	}

	end := len(lines)
	for i := at + 1; i < len(lines); i++ {
		if fountain.IsSceneHeading(strings.TrimSpace(lines[i])) {
			end = i
			break
		}
	}

	kept := make([]string, 0, len(lines))
	kept = append(kept, lines[:at+1]...)
	var fresh []string
	if location != "" {
		fresh = append(fresh, "@location: "+location)
	}
	if len(characters) > 0 {
		fresh = append(fresh, "@characters: "+strings.Join(characters, ", "))
	}
	kept = append(kept, fresh...)
	for i := at + 1; i < end; i++ {
		if anyTagRe.MatchString(strings.TrimSpace(lines[i])) {
			continue
		}
		kept = append(kept, lines[i])
	}
	kept = append(kept, lines[end:]...)
	return strings.Join(kept, "\n"), true
}

// Remove strips every directive line from the document. It is a pure filter,
// independent of scene boundaries, and idempotent.
func Remove(document string) string {
	lines := strings.Split(document, "\n")
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		if anyTagRe.MatchString(strings.TrimSpace(raw)) {
			continue
		}
		out = append(out, raw)
	}
	return strings.Join(out, "\n")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
