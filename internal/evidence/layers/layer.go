// Package layers is the boundary to the external verification layers (DOI
// lookup, title index search, URL resolution, AI review). Each layer turns a
// reference into a scoring.LayerResult; how it gets there is its own business.
package layers

import (
	"context"
	"fmt"
	"sort"

	"citeguard/internal/scoring"
)

// Reference is what a layer gets to look at.
type Reference struct {
	DOI   string
	URL   string
	Type  string
	Title string
	Claim string
}

// Request asks a layer to check one reference in the context of its domain.
type Request struct {
	Reference Reference
	Domain    scoring.Domain

	// AIInstruction is the domain's guidance for AI evaluators, passed
	// through untouched.
	AIInstruction string
}

// Layer is the interface every verification layer implements.
type Layer interface {
	// ID returns the layer id evidence is reported under.
	ID() scoring.LayerID

	// Check produces evidence for the request. Errors should be *LayerError
	// so callers can tell outages from bad data.
	Check(ctx context.Context, req Request) (scoring.LayerResult, error)
}

// Set holds the layers available to the service, one per layer id.
type Set struct {
	layers map[scoring.LayerID]Layer
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{
		layers: make(map[scoring.LayerID]Layer),
	}
}

// Register adds a layer. Each id may be registered once.
func (s *Set) Register(l Layer) error {
	id := l.ID()
	if _, exists := s.layers[id]; exists {
		return fmt.Errorf("layer %s already registered", id)
	}
	s.layers[id] = l
	return nil
}

// Get retrieves a layer by id.
func (s *Set) Get(id scoring.LayerID) (Layer, bool) {
	l, ok := s.layers[id]
	return l, ok
}

// IDs lists registered layer ids in sorted order.
func (s *Set) IDs() []scoring.LayerID {
	ids := make([]scoring.LayerID, 0, len(s.layers))
	for id := range s.layers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len is the number of registered layers.
func (s *Set) Len() int {
	return len(s.layers)
}
