/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ai

import (
	"context"
	"fmt"
	"log/slog"

	"screenwright/internal/validate"
)

// Validator checks one raw model response and either accepts it (returning
// the merged content) or lists what was wrong. The validate package supplies
// these; closures adapt the ones that take extra arguments.
type Validator func(raw string) validate.Result

// Completer is the transport seam; *Client satisfies it, tests substitute
// scripted responses.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// GenerateValidated runs one generation request through the validator,
// re-prompting with the collected violations on each failure. maxRetries
// bounds the re-prompts, not the total attempts: 2 retries means up to 3
// calls. The last failure's errors come back in the returned error.
func GenerateValidated(ctx context.Context, c Completer, logger *slog.Logger, prompt string, check Validator, maxRetries int) (string, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	messages := []Message{{Role: "user", Content: prompt}}
	var last validate.Result
	for attempt := 0; attempt <= maxRetries; attempt++ {
		raw, err := c.Complete(ctx, messages)
		if err != nil {
			return "", err
		}
		last = check(raw)
		if last.Valid {
			if attempt > 0 {
				logger.Info("generation recovered after retry", "attempts", attempt+1)
			}
			return last.Content, nil
		}
		logger.Warn("generation response rejected", "attempt", attempt+1, "violations", len(last.Errors))
		if attempt == maxRetries {
			break
		}
		// Carry the rejected answer forward so the model can see what it
		// produced, then ask again with the violations spelled out.
		messages = append(messages,
			Message{Role: "assistant", Content: raw},
			Message{Role: "user", Content: validate.BuildRetryPrompt(prompt, last.Errors)},
		)
	}
	return "", fmt.Errorf("generation failed validation after %d attempt(s): %v", maxRetries+1, last.Errors)
}
