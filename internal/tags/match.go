/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tags

import "strings"

// SceneRef identifies a stored scene for heading matching.
type SceneRef struct {
	ID      string
	Heading string
}

// CharacterRef identifies a stored character for name matching.
type CharacterRef struct {
	ID   string
	Name string
}

const (
	sceneMatchThreshold     = 0.85
	characterMatchThreshold = 0.80
)

// MatchSceneHeading resolves a heading to a stored scene id. Exact
// case-insensitive comparison wins; otherwise the best normalized Levenshtein
// similarity above 0.85 is accepted. Returns "" when nothing matches.
func MatchSceneHeading(heading string, scenes []SceneRef) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	if h == "" {
		return ""
	}
	for _, s := range scenes {
		if strings.ToLower(strings.TrimSpace(s.Heading)) == h {
			return s.ID
		}
	}
	bestID := ""
	bestScore := 0.0
	for _, s := range scenes {
		score := similarity(h, strings.ToLower(strings.TrimSpace(s.Heading)))
		if score >= sceneMatchThreshold && score > bestScore {
			bestScore = score
			bestID = s.ID
		}
	}
	return bestID
}

// MatchCharacterNames resolves spoken names to stored character ids. Exact
// case-insensitive match first; otherwise the first candidate in iteration
// order whose similarity clears 0.80 wins. Unresolvable names are absent from
// the result.
func MatchCharacterNames(names []string, characters []CharacterRef) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		matched := false
		for _, c := range characters {
			if strings.ToLower(strings.TrimSpace(c.Name)) == n {
				out[name] = c.ID
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, c := range characters {
			if similarity(n, strings.ToLower(strings.TrimSpace(c.Name))) >= characterMatchThreshold {
				out[name] = c.ID
				break
			}
		}
	}
	return out
}

// similarity is normalized Levenshtein: (longer - distance) / longer.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1
	}
	return float64(longer-levenshtein(a, b)) / float64(longer)
}

// levenshtein computes edit distance with the two-row method.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		ai := a[i-1]
		for j := 1; j <= lb; j++ {
			cost := 0
			if ai != b[j-1] {
				cost = 1
			}
			m := prev[j] + 1
			if v := curr[j-1] + 1; v < m {
				m = v
			}
			if v := prev[j-1] + cost; v < m {
				m = v
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
