/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

import (
	"strings"
	"testing"
)

func TestNormalizePipeline(t *testing.T) {
	in := "INT. OFFICE - DAY\r\nSheâ€™s  typing.\nSARAH\nItâ€™s late."
	got := Normalize(in)
	if strings.Contains(got, "â€") {
		t.Fatalf("mojibake survived: %q", got)
	}
	if strings.Contains(got, "\r") {
		t.Fatalf("carriage returns survived")
	}
	want := "INT. OFFICE - DAY\n\nShe's typing.\n\nSARAH\nIt's late."
	if got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestNormalizeStable(t *testing.T) {
	in := "ext. alley - night\n\n\n\nA cat darts across.\nBOB\nwho's there?"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Fatalf("pipeline not stable:\n%q\nvs\n%q", once, twice)
	}
}
