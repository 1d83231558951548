package domain

import (
	"encoding/json"
	"testing"
)

func TestProjectJSONRoundTrip(t *testing.T) {
	p := Project{
		Name:       "RoundTrip",
		ScriptFile: "script/screenplay.fountain",
		Metadata:   Metadata{Title: "Untitled", Author: "A. Writer"},
		Characters: []Character{NewCharacter("Sarah")},
		Locations:  []Location{NewLocation("Office")},
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Project
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != p.Name || got.ScriptFile != p.ScriptFile {
		t.Fatalf("manifest mismatch: %+v", got)
	}
	if len(got.Characters) != 1 || got.Characters[0].Name != "Sarah" {
		t.Fatalf("characters: %+v", got.Characters)
	}
}

func TestRegistryLookups(t *testing.T) {
	c := NewCharacter("Robert")
	l := NewLocation("Park")
	if c.ID == "" || l.ID == "" || c.ID == l.ID {
		t.Fatalf("IDs not generated: %q %q", c.ID, l.ID)
	}
	p := Project{Characters: []Character{c}, Locations: []Location{l}}
	if got, ok := p.CharacterByID(c.ID); !ok || got.Name != "Robert" {
		t.Fatalf("CharacterByID: %+v %v", got, ok)
	}
	if _, ok := p.LocationByID("missing"); ok {
		t.Fatalf("unexpected hit for missing location")
	}
}
