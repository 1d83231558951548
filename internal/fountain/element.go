/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fountain implements parsing and normalization for the Fountain
// screenplay plain-text format: element classification, mojibake repair,
// whitespace normalization, blank-line spacing enforcement and scene heading
// field parsing. All functions are pure transformations over strings.
package fountain

import (
	"regexp"
	"strings"
	"unicode"
)

// ElementKind classifies a single non-blank line of a screenplay.
type ElementKind int

const (
	Action ElementKind = iota
	SceneHeading
	CharacterName
	Parenthetical
	Dialogue
	Transition
)

func (k ElementKind) String() string {
	switch k {
	case SceneHeading:
		return "scene_heading"
	case CharacterName:
		return "character"
	case Parenthetical:
		return "parenthetical"
	case Dialogue:
		return "dialogue"
	case Transition:
		return "transition"
	default:
		return "action"
	}
}

// Combined forms must come before their single-token prefixes, otherwise
// "INT/EXT. HOUSE" would stop matching at "INT".
var sceneHeadingRe = regexp.MustCompile(`^(?i)(INT\./EXT|INT/EXT|I\./E|I/E|INT|EXT|EST)[.\s]`)

// tagDirectiveRe matches inline relationship metadata lines. These are
// invisible to classification and are stripped for display.
var tagDirectiveRe = regexp.MustCompile(`^@(location|characters?|scene):`)

// IsSceneHeading reports whether the line opens a scene (slugline).
func IsSceneHeading(line string) bool {
	return sceneHeadingRe.MatchString(strings.TrimSpace(line))
}

// IsTagDirective reports whether the line is an @key: metadata directive.
func IsTagDirective(line string) bool {
	return tagDirectiveRe.MatchString(strings.TrimSpace(line))
}

// isTransition reports an uppercase line ending in "TO:".
func isTransition(line string) bool {
	return line == strings.ToUpper(line) && strings.HasSuffix(line, "TO:")
}

func isParenthetical(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")")
}

// isCharacterCue applies the structural character-name rules: uppercase only,
// 1-4 whitespace tokens, 2-50 characters, not a heading or transition, and a
// following non-blank line must exist for it to speak to.
func isCharacterCue(line string, next string) bool {
	if next == "" {
		return false
	}
	n := len(line)
	if n < 2 || n > 50 {
		return false
	}
	if line != strings.ToUpper(line) {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	tokens := strings.Fields(line)
	if len(tokens) < 1 || len(tokens) > 4 {
		return false
	}
	if IsSceneHeading(line) || isTransition(line) || isParenthetical(line) {
		return false
	}
	return true
}

// Classify maps one non-blank line to its element kind. prev and next carry the
// nearest non-blank neighbor lines; the empty string means no such neighbor.
// Classification depends only on the line itself and those two neighbors, which
// keeps the whole pipeline single-pass.
func Classify(line string, prev, next string) ElementKind {
	line = strings.TrimSpace(line)
	prev = strings.TrimSpace(prev)
	next = strings.TrimSpace(next)

	switch {
	case IsSceneHeading(line):
		return SceneHeading
	case isTransition(line):
		return Transition
	case isParenthetical(line):
		return Parenthetical
	case isCharacterCue(line, next):
		return CharacterName
	}
	// Dialogue follows a character cue or a parenthetical. The cue check for
	// prev uses line as its own next neighbor, so recursion stays bounded.
	if prev != "" && (isParenthetical(prev) || isCharacterCue(prev, line)) {
		return Dialogue
	}
	return Action
}
