/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"testing"
	"time"

	"screenwright/internal/domain"
)

func TestScriptSnapshotHistory(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, domain.Project{Name: "Snapshots"})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, text := range []string{"draft one", "draft two", "draft three"} {
		if err := SaveScriptSnapshot(ctx, ph, text, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveScriptSnapshot: %v", err)
		}
	}

	// Latest first
	txt, ts, err := GetLatestScriptSnapshot(ctx, ph)
	if err != nil {
		t.Fatalf("GetLatestScriptSnapshot: %v", err)
	}
	if txt != "draft three" || !ts.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("latest snapshot: %q at %v", txt, ts)
	}

	list, err := ListScriptSnapshots(ctx, ph, 10)
	if err != nil {
		t.Fatalf("ListScriptSnapshots: %v", err)
	}
	if len(list) != 3 || list[0].Text != "draft three" || list[2].Text != "draft one" {
		t.Fatalf("snapshot ordering: %+v", list)
	}

	// Prune down to the latest two
	n, err := PruneOldScriptSnapshots(ctx, ph, 2)
	if err != nil {
		t.Fatalf("PruneOldScriptSnapshots: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 pruned row, got %d", n)
	}
	list, err = ListScriptSnapshots(ctx, ph, 10)
	if err != nil {
		t.Fatalf("ListScriptSnapshots: %v", err)
	}
	if len(list) != 2 || list[1].Text != "draft two" {
		t.Fatalf("after prune: %+v", list)
	}
}

func TestLatestScriptSnapshotEmpty(t *testing.T) {
	root := t.TempDir()
	ph, err := InitProject(root, domain.Project{Name: "Empty"})
	if err != nil {
		t.Fatalf("InitProject: %v", err)
	}
	ctx := context.Background()
	txt, ts, err := GetLatestScriptSnapshot(ctx, ph)
	if err != nil {
		t.Fatalf("GetLatestScriptSnapshot: %v", err)
	}
	if txt != "" || !ts.IsZero() {
		t.Fatalf("expected empty history, got %q %v", txt, ts)
	}
}
