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
)

// HeadingParts is the decomposition of a scene heading line.
// Type normalizes to one of INT., EXT., INT./EXT., I./E., EST.;
// Location and Time are free text and Time is optional.
type HeadingParts struct {
	Type     string
	Location string
	Time     string
}

// HeadingField names one of the three editable sub-fields of a heading.
type HeadingField string

const (
	FieldType     HeadingField = "type"
	FieldLocation HeadingField = "location"
	FieldTime     HeadingField = "time"
)

// FieldPosition describes which sub-field a cursor offset falls into, for
// Tab-style field navigation in an editor.
type FieldPosition struct {
	Field         HeadingField
	CursorInField int
	FieldStart    int
	FieldEnd      int
	Parts         HeadingParts
}

// timeSeparator is the literal location/time divider. A plain hyphen inside a
// location ("HIGH-RISE") must not split the heading.
const timeSeparator = " - "

var (
	// Punctuated type prefix, combined forms first.
	headingTypeRe = regexp.MustCompile(`^(?i)(INT\./EXT\.|INT/EXT\.|I\./E\.|I/E\.|INT\.|EXT\.|EST\.)`)
	// Mid-typing prefix with no trailing period yet.
	partialTypeRe = regexp.MustCompile(`^(?i)(INT/EXT|I/E|INT|EXT|EST)(\s|$)`)
)

// ParseSceneHeading splits a heading line into type, location and time.
// It degrades gracefully for interactive half-typed input: a full punctuated
// prefix parses completely, an unpunctuated prefix ("int office") parses as a
// partial match, and any line starting with I or E is treated as a bare type
// so the editor can keep offering field navigation while the writer types.
func ParseSceneHeading(line string) HeadingParts {
	line = strings.TrimSpace(line)
	if line == "" {
		return HeadingParts{}
	}
	if m := headingTypeRe.FindString(line); m != "" {
		loc, t := splitLocationTime(line[len(m):])
		return HeadingParts{Type: strings.ToUpper(m), Location: loc, Time: t}
	}
	if m := partialTypeRe.FindStringSubmatch(line); m != nil {
		loc, t := splitLocationTime(line[len(m[1]):])
		return HeadingParts{Type: strings.ToUpper(m[1]), Location: loc, Time: t}
	}
	first := strings.ToUpper(line[:1])
	if first == "I" || first == "E" {
		tok := strings.Fields(line)[0]
		return HeadingParts{Type: strings.ToUpper(tok)}
	}
	return HeadingParts{}
}

func splitLocationTime(rest string) (location, timeOfDay string) {
	rest = strings.TrimSpace(rest)
	if idx := strings.Index(rest, timeSeparator); idx >= 0 {
		return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+len(timeSeparator):])
	}
	return rest, ""
}

// FormatSceneHeadingType canonicalizes any casing/spacing variant of a type
// token. The combined INT/EXT and I/E forms are checked before the single
// tokens; "INT/EXT" contains "INT" and would otherwise be misread.
func FormatSceneHeadingType(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.TrimSuffix(t, ".")
	t = strings.ReplaceAll(t, " ", "")
	switch {
	case t == "INT./EXT" || t == "INT/EXT" || t == "INT/EXT.":
		return "INT./EXT."
	case t == "I/E" || t == "I./E" || t == "I./E.":
		return "I./E."
	case strings.HasPrefix(t, "INT"):
		return "INT."
	case strings.HasPrefix(t, "EXT"):
		return "EXT."
	case strings.HasPrefix(t, "EST"):
		return "EST."
	}
	return t
}

// BuildSceneHeading reassembles parts into a heading line. Building from the
// parse of any valid heading reaches a fixed point after one round trip.
func BuildSceneHeading(p HeadingParts) string {
	if p.Type == "" && p.Location == "" && p.Time == "" {
		return ""
	}
	var b strings.Builder
	if p.Type != "" {
		b.WriteString(FormatSceneHeadingType(p.Type))
	}
	if p.Location != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Location)
	}
	if p.Time != "" {
		b.WriteString(timeSeparator)
		b.WriteString(p.Time)
	}
	return b.String()
}

// DetectSceneHeadingField resolves which sub-field the cursor offset sits in.
// Offsets are code-unit indices as supplied by the hosting editor; anything
// past the end clamps into the last field.
func DetectSceneHeadingField(line string, cursor int) FieldPosition {
	parts := ParseSceneHeading(line)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(line) {
		cursor = len(line)
	}

	typeEnd := 0
	if m := headingTypeRe.FindString(line); m != "" {
		typeEnd = len(m)
	} else if m := partialTypeRe.FindStringSubmatch(line); m != nil {
		typeEnd = len(m[1])
	} else if parts.Type != "" {
		typeEnd = len(parts.Type)
		if typeEnd > len(line) {
			typeEnd = len(line)
		}
	}

	sepIdx := strings.Index(line, timeSeparator)

	if cursor <= typeEnd {
		return FieldPosition{Field: FieldType, CursorInField: cursor, FieldStart: 0, FieldEnd: typeEnd, Parts: parts}
	}

	locStart := typeEnd
	for locStart < len(line) && line[locStart] == ' ' {
		locStart++
	}
	if sepIdx >= 0 && cursor > sepIdx+len(timeSeparator)-1 {
		timeStart := sepIdx + len(timeSeparator)
		c := cursor - timeStart
		if c < 0 {
			c = 0
		}
		return FieldPosition{Field: FieldTime, CursorInField: c, FieldStart: timeStart, FieldEnd: len(line), Parts: parts}
	}
	locEnd := len(line)
	if sepIdx >= 0 {
		locEnd = sepIdx
	}
	c := cursor - locStart
	if c < 0 {
		c = 0
	}
	return FieldPosition{Field: FieldLocation, CursorInField: c, FieldStart: locStart, FieldEnd: locEnd, Parts: parts}
}
