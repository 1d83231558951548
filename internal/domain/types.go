/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model for a screenplay project: the
// manifest that serializes to screenplay.json plus the character and location
// registries that tag directives reference by ID.
package domain

import "github.com/google/uuid"

// Project represents a screenplay project and its metadata. It serializes to
// a human-readable JSON manifest next to the script file.
type Project struct {
	Name       string      `json:"name"`
	Metadata   Metadata    `json:"metadata,omitempty"`
	ScriptFile string      `json:"scriptFile"` // relative path inside the project dir
	Characters []Character `json:"characters,omitempty"`
	Locations  []Location  `json:"locations,omitempty"`
}

// Metadata contains optional descriptive metadata for a project.
type Metadata struct {
	Title   string `json:"title,omitempty"`
	Author  string `json:"author,omitempty"`
	Contact string `json:"contact,omitempty"`
	Draft   string `json:"draft,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Character is a registry entry referenced from @character/@characters
// directives by ID.
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Location is a registry entry referenced from @location directives by ID.
type Location struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// NewCharacter creates a registry entry with a fresh ID.
func NewCharacter(name string) Character {
	return Character{ID: uuid.NewString(), Name: name}
}

// NewLocation creates a registry entry with a fresh ID.
func NewLocation(name string) Location {
	return Location{ID: uuid.NewString(), Name: name}
}

// CharacterByID returns the registry entry for id, if present.
func (p *Project) CharacterByID(id string) (Character, bool) {
	for _, c := range p.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// LocationByID returns the registry entry for id, if present.
func (p *Project) LocationByID(id string) (Location, bool) {
	for _, l := range p.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
