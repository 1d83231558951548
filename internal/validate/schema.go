/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package validate

import (
	"fmt"
	"sync"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// The response envelopes are fixed wire formats; field names here must not
// drift (content, lineCount, rewrittenText, scenes, heading, dialogue,
// character, line, subtext, breakdown).

const screenplaySchema = `{
	"type": "object",
	"required": ["content", "lineCount"],
	"properties": {
		"content": {
			"type": "array",
			"minItems": 1,
			"maxItems": 10,
			"items": {"type": "string"}
		},
		"lineCount": {"type": "integer", "minimum": 0}
	}
}`

const directorSchema = `{
	"type": "object",
	"required": ["content", "lineCount"],
	"properties": {
		"content": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string"}
		},
		"lineCount": {"type": "integer", "minimum": 0}
	}
}`

const rewriteSchema = `{
	"type": "object",
	"required": ["rewrittenText"],
	"properties": {
		"rewrittenText": {"type": "string", "minLength": 1}
	}
}`

const dialogueSchema = `{
	"type": "object",
	"required": ["dialogue"],
	"properties": {
		"dialogue": {
			"type": "array",
			"minItems": 1,
			"maxItems": 20,
			"items": {
				"type": "object",
				"required": ["character", "line"],
				"properties": {
					"character": {"type": "string", "minLength": 1},
					"line": {"type": "string", "minLength": 1},
					"subtext": {"type": "string"}
				}
			}
		}
	}
}`

const directorModalSchema = `{
	"type": "object",
	"required": ["scenes"],
	"properties": {
		"scenes": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["heading", "content"],
				"properties": {
					"heading": {"type": "string", "minLength": 1},
					"content": {"type": "string", "minLength": 1},
					"breakdown": {"type": "string"}
				}
			}
		}
	}
}`

var (
	schemaOnce sync.Once
	schemas    map[string]*gojsonschema.Schema
)

func compiledSchema(name string) *gojsonschema.Schema {
	schemaOnce.Do(func() {
		schemas = make(map[string]*gojsonschema.Schema)
		for n, src := range map[string]string{
			"screenplay":     screenplaySchema,
			"director":       directorSchema,
			"rewrite":        rewriteSchema,
			"dialogue":       dialogueSchema,
			"director_modal": directorModalSchema,
		} {
			s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
			if err != nil {
				panic(fmt.Sprintf("compile %s schema: %v", n, err))
			}
			schemas[n] = s
		}
	})
	return schemas[name]
}

// schemaErrors runs the named schema over the document and returns its
// violations as plain strings.
func schemaErrors(name, document string) []string {
	res, err := compiledSchema(name).Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return []string{fmt.Sprintf("schema validation failed: %v", err)}
	}
	if res.Valid() {
		return nil
	}
	out := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, e.String())
	}
	return out
}
