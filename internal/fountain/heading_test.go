/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import "testing"

func TestParseSceneHeadingFull(t *testing.T) {
	p := ParseSceneHeading("INT. OFFICE - DAY")
	if p.Type != "INT." || p.Location != "OFFICE" || p.Time != "DAY" {
		t.Fatalf("got %+v", p)
	}
	p = ParseSceneHeading("INT./EXT. CAR - CONTINUOUS")
	if p.Type != "INT./EXT." || p.Location != "CAR" || p.Time != "CONTINUOUS" {
		t.Fatalf("got %+v", p)
	}
	p = ParseSceneHeading("EXT. HIGH-RISE ROOFTOP - NIGHT")
	if p.Location != "HIGH-RISE ROOFTOP" || p.Time != "NIGHT" {
		t.Fatalf("hyphenated location mangled: %+v", p)
	}
}

func TestParseSceneHeadingPartial(t *testing.T) {
	// Mid-typing: no period yet.
	p := ParseSceneHeading("int office")
	if p.Type != "INT" || p.Location != "office" || p.Time != "" {
		t.Fatalf("got %+v", p)
	}
	p = ParseSceneHeading("INT/EXT car")
	if p.Type != "INT/EXT" || p.Location != "car" {
		t.Fatalf("got %+v", p)
	}
}

func TestParseSceneHeadingBareFallback(t *testing.T) {
	p := ParseSceneHeading("In")
	if p.Type != "IN" || p.Location != "" || p.Time != "" {
		t.Fatalf("got %+v", p)
	}
	p = ParseSceneHeading("Quiet morning.")
	if p.Type != "" || p.Location != "" || p.Time != "" {
		t.Fatalf("non-heading parsed: %+v", p)
	}
}

func TestFormatSceneHeadingType(t *testing.T) {
	cases := map[string]string{
		"int":      "INT.",
		"INT.":     "INT.",
		"ext":      "EXT.",
		"est":      "EST.",
		"int/ext":  "INT./EXT.",
		"INT/EXT.": "INT./EXT.",
		"i/e":      "I./E.",
		"I/E.":     "I./E.",
	}
	for raw, want := range cases {
		if got := FormatSceneHeadingType(raw); got != want {
			t.Fatalf("FormatSceneHeadingType(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestBuildSceneHeadingRoundTrip(t *testing.T) {
	for _, h := range []string{
		"INT. OFFICE - DAY",
		"EXT. PARK - NIGHT",
		"INT./EXT. CAR - LATER",
		"I./E. TRUCK - DUSK",
		"EST. SKYLINE",
	} {
		built := BuildSceneHeading(ParseSceneHeading(h))
		if Classify(built, "", "") != SceneHeading {
			t.Fatalf("rebuilt %q no longer classifies as a heading", built)
		}
		again := BuildSceneHeading(ParseSceneHeading(built))
		if again != built {
			t.Fatalf("no fixed point: %q -> %q", built, again)
		}
	}
}

func TestDetectSceneHeadingFieldPositions(t *testing.T) {
	line := "INT. OFFICE - DAY"
	// Cursor inside the type prefix.
	fp := DetectSceneHeadingField(line, 2)
	if fp.Field != FieldType || fp.FieldStart != 0 || fp.FieldEnd != 4 {
		t.Fatalf("type field: %+v", fp)
	}
	// Cursor inside the location.
	fp = DetectSceneHeadingField(line, 7)
	if fp.Field != FieldLocation {
		t.Fatalf("location field: %+v", fp)
	}
	if fp.FieldStart != 5 || fp.FieldEnd != 11 {
		t.Fatalf("location bounds: %+v", fp)
	}
	// Cursor inside the time.
	fp = DetectSceneHeadingField(line, 15)
	if fp.Field != FieldTime || fp.FieldStart != 14 || fp.FieldEnd != len(line) {
		t.Fatalf("time field: %+v", fp)
	}
	if fp.CursorInField != 1 {
		t.Fatalf("cursor offset in time: %+v", fp)
	}
}

func TestDetectSceneHeadingFieldClamping(t *testing.T) {
	line := "INT. OFFICE"
	fp := DetectSceneHeadingField(line, 999)
	if fp.Field != FieldLocation || fp.FieldEnd != len(line) {
		t.Fatalf("got %+v", fp)
	}
	fp = DetectSceneHeadingField(line, -3)
	if fp.Field != FieldType || fp.CursorInField != 0 {
		t.Fatalf("got %+v", fp)
	}
}
