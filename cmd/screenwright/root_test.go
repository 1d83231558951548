/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screenwright/internal/version"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func initTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := runCommand(t, "init", dir, "--name", "Pilot", "--title", "The Merger", "--author", "A. Writer"); err != nil {
		t.Fatalf("init: %v", err)
	}
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version.String()) {
		t.Fatalf("version output %q missing %q", out, version.String())
	}
}

func TestInitAndOpen(t *testing.T) {
	dir := initTestProject(t)
	out, err := runCommand(t, "open", "-p", dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !strings.Contains(out, "Pilot") || !strings.Contains(out, "The Merger") {
		t.Fatalf("open summary missing fields: %q", out)
	}
}

func TestFmtFileArgument(t *testing.T) {
	f := filepath.Join(t.TempDir(), "raw.fountain")
	raw := "int OFFICE - DAY\n\n\n\n\nSARAH\nhello\n"
	if err := os.WriteFile(f, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCommand(t, "fmt", f)
	if err != nil {
		t.Fatalf("fmt: %v", err)
	}
	if !strings.Contains(out, "INT. OFFICE - DAY") {
		t.Fatalf("heading not normalized: %q", out)
	}
	if strings.Contains(out, "\n\n\n\n") {
		t.Fatalf("blank run not capped: %q", out)
	}

	if _, err := runCommand(t, "fmt", "-w", f); err != nil {
		t.Fatalf("fmt -w: %v", err)
	}
	b, err := os.ReadFile(f)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(b), "INT. OFFICE - DAY") {
		t.Fatalf("in-place rewrite missing: %q", string(b))
	}
}

func TestTagsInjectExtractStrip(t *testing.T) {
	f := filepath.Join(t.TempDir(), "s.fountain")
	script := "INT. OFFICE - DAY\n\nShe types.\n"
	if err := os.WriteFile(f, []byte(script), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := runCommand(t, "tags", "inject", f, "-w", "--scene", "INT. OFFICE - DAY", "--location", "l-1", "--characters", "c-1,c-2"); err != nil {
		t.Fatalf("inject: %v", err)
	}
	b, _ := os.ReadFile(f)
	if !strings.Contains(string(b), "@location: l-1") || !strings.Contains(string(b), "@characters: c-1, c-2") {
		t.Fatalf("directives missing after inject: %q", string(b))
	}

	out, err := runCommand(t, "tags", "extract", f)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "l-1") || !strings.Contains(out, "c-2") {
		t.Fatalf("extract output missing tags: %q", out)
	}

	out, err = runCommand(t, "tags", "strip", f)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if strings.Contains(out, "@location") {
		t.Fatalf("strip left directives: %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	f := filepath.Join(t.TempDir(), "payload.txt")
	payload := `{"content": ["INT. LAB - DAY", "", "She works."], "lineCount": 3}`
	if err := os.WriteFile(f, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runCommand(t, "validate", f, "--kind", "screenplay")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "She works.") {
		t.Fatalf("merged content missing: %q", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte(`{"content": ["a"], "lineCount": 5}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCommand(t, "validate", bad); err == nil {
		t.Fatalf("expected validation failure")
	}
}

func TestSnapshotSaveAndList(t *testing.T) {
	dir := initTestProject(t)
	script := filepath.Join(dir, "script", "screenplay.fountain")
	if err := os.WriteFile(script, []byte("INT. LAB - DAY\n\nShe works.\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := runCommand(t, "snapshot", "save", "-p", dir); err != nil {
		t.Fatalf("snapshot save: %v", err)
	}
	out, err := runCommand(t, "snapshot", "list", "-p", dir)
	if err != nil {
		t.Fatalf("snapshot list: %v", err)
	}
	if !strings.Contains(out, "INT. LAB - DAY") {
		t.Fatalf("snapshot list missing entry: %q", out)
	}
}

func TestSearchCommand(t *testing.T) {
	dir := initTestProject(t)
	script := filepath.Join(dir, "script", "screenplay.fountain")
	text := "INT. OFFICE - DAY\n\nSARAH\nWe need to talk.\n\nRobert leaves.\n"
	if err := os.WriteFile(script, []byte(text), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	out, err := runCommand(t, "search", "talk", "-p", dir)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "dialogue") {
		t.Fatalf("search output missing dialogue hit: %q", out)
	}
}

func TestExportPDFCommand(t *testing.T) {
	dir := initTestProject(t)
	script := filepath.Join(dir, "script", "screenplay.fountain")
	if err := os.WriteFile(script, []byte("INT. LAB - DAY\n\nShe works.\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	if _, err := runCommand(t, "export", "pdf", "-p", dir); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "exports", "screenplay.pdf")); err != nil {
		t.Fatalf("pdf missing: %v", err)
	}
}
