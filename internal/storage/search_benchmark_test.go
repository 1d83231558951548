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

func benchProject(b *testing.B) *ProjectHandle {
	b.Helper()
	root := b.TempDir()
	ph, err := InitProject(root, domain.Project{Name: "Bench"})
	if err != nil || ph == nil {
		b.Fatalf("InitProject: %v", err)
	}
	if err := WriteScript(ph, indexedScript); err != nil {
		b.Fatalf("WriteScript: %v", err)
	}
	return ph
}

func BenchmarkSearchFTS(b *testing.B) {
	ph := benchProject(b)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RebuildIndex(ctx, ph); err != nil {
		b.Fatalf("RebuildIndex: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Search(ctx, ph.Root, SearchQuery{Text: "talk"})
		if err != nil {
			b.Fatalf("Search: %v", err)
		}
	}
}

func BenchmarkRebuildIndex(b *testing.B) {
	ph := benchProject(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = RebuildIndex(ctx, ph)
		cancel()
	}
}
