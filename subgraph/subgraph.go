package subgraph

import (
	"bytes"
	"encoding/json"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/types"
)

// StructuralQuery selects root records with Filter and expands them by
// GraphResolveDepths.
type StructuralQuery[P query.Path] struct {
	Filter             query.Filter[P]    `json:"filter"`
	GraphResolveDepths GraphResolveDepths `json:"graphResolveDepths"`
}

// DecodeStructuralQuery decodes a structural query, rejecting unknown
// fields and trailing data. Both keys are required.
func DecodeStructuralQuery[P query.Path](data []byte) (StructuralQuery[P], error) {
	var raw struct {
		Filter             json.RawMessage     `json:"filter"`
		GraphResolveDepths *GraphResolveDepths `json:"graphResolveDepths"`
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return StructuralQuery[P]{}, errors.MarkDeserialization(errors.Wrap(err, "decode structural query"))
	}
	if dec.More() {
		return StructuralQuery[P]{}, errors.MarkDeserialization(errors.New("unexpected data after structural query"))
	}
	if raw.Filter == nil {
		return StructuralQuery[P]{}, errors.MarkDeserialization(errors.New(`structural query is missing "filter"`))
	}
	if raw.GraphResolveDepths == nil {
		return StructuralQuery[P]{}, errors.MarkDeserialization(errors.New(`structural query is missing "graphResolveDepths"`))
	}

	filter, err := query.DecodeFilter[P](raw.Filter)
	if err != nil {
		return StructuralQuery[P]{}, err
	}
	return StructuralQuery[P]{Filter: filter, GraphResolveDepths: *raw.GraphResolveDepths}, nil
}

// Edge is one traversed relation. Source is the vertex the traversal
// came from; for incoming edges the stored relation points from Target
// to Source.
type Edge struct {
	Source    types.VersionedID `json:"source"`
	Kind      types.EdgeKind    `json:"kind"`
	Direction Direction         `json:"direction"`
	Target    types.VersionedID `json:"target"`
}

// Vertex is a record together with its metadata.
type Vertex struct {
	Kind     types.RecordKind `json:"kind"`
	Inner    types.Record     `json:"inner"`
	Metadata types.Metadata   `json:"metadata"`
}

// Subgraph is the result of a structural query. Vertices is keyed by the
// textual versioned id and always contains every root.
type Subgraph struct {
	Roots    []types.VersionedID `json:"roots"`
	Vertices map[string]Vertex   `json:"vertices"`
	Edges    []Edge              `json:"edges"`
	Depths   GraphResolveDepths  `json:"depths"`
}

// Vertex returns the vertex for id.
func (s *Subgraph) Vertex(id types.VersionedID) (Vertex, bool) {
	v, ok := s.Vertices[id.String()]
	return v, ok
}
