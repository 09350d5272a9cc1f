package models

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNotFound is returned by path queries when the start name is unknown or
// no person with photo evidence is reachable from it.
var ErrNotFound = errors.New("not found")

// EntityKind classifies a graph node.
type EntityKind string

const (
	KindPerson EntityKind = "person"
	KindMovie  EntityKind = "movie"
)

// ValidEntityKinds is the set of all valid entity kinds.
var ValidEntityKinds = []EntityKind{
	KindPerson,
	KindMovie,
}

// IsValid returns true if the entity kind is recognized.
func (k EntityKind) IsValid() bool {
	for i := range ValidEntityKinds {
		if k == ValidEntityKinds[i] {
			return true
		}
	}
	return false
}

// PhotoEvidence is a social-media photo showing a person together with the target.
type PhotoEvidence struct {
	ImageURL string `json:"image_url"`
	Location string `json:"location,omitempty"`
}

// Entity is a person or movie node. Neighbors holds canonical keys in edge
// insertion order; edges are undirected.
type Entity struct {
	Key         string         `json:"key"`
	DisplayName string         `json:"display_name"`
	Kind        EntityKind     `json:"kind"`
	Neighbors   []string       `json:"neighbors,omitempty"`
	Evidence    *PhotoEvidence `json:"evidence,omitempty"`
}

// NewEntity builds an unconnected entity keyed by the canonical form of name.
func NewEntity(name string, kind EntityKind) Entity {
	return Entity{
		Key:         CanonicalKey(name),
		DisplayName: name,
		Kind:        kind,
	}
}

// HasEvidence reports whether the entity is directly linked to the target by a photo.
func (e *Entity) HasEvidence() bool {
	return e.Evidence != nil
}

// IsPerson reports whether the entity is a person.
func (e *Entity) IsPerson() bool {
	return e.Kind == KindPerson
}

// CanonicalKey lower-cases name and strips every whitespace rune.
// "Tom Hanks", "tom hanks" and "TOMHANKS" all map to "tomhanks".
func CanonicalKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// GraphStats summarizes the contents of an entity store.
type GraphStats struct {
	People        int64 `json:"people"`
	Movies        int64 `json:"movies"`
	Edges         int64 `json:"edges"`
	EvidenceLinks int64 `json:"evidence_links"`
}
