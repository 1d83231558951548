/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package fountain

// Normalize runs the full import pipeline over raw text: encoding repair,
// whitespace normalization, then blank-line spacing enforcement. Each stage is
// idempotent, so re-normalizing an already clean document is a no-op.
func Normalize(text string) string {
	if DetectEncodingIssues(text) {
		text = FixCharacterEncoding(text)
	}
	text = NormalizeWhitespace(text)
	return EnforceSpacing(text)
}
