package graph

import (
	"context"

	"github.com/google/uuid"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

// ExecuteStructuralQuery decodes raw as a structural query over records of
// kind and resolves it.
func (s *Service) ExecuteStructuralQuery(ctx context.Context, kind types.RecordKind, raw []byte) (*subgraph.Subgraph, error) {
	switch kind {
	case types.KindDataType:
		return Execute[query.DataTypePath](ctx, s, raw)
	case types.KindPropertyType:
		return Execute[query.PropertyTypePath](ctx, s, raw)
	case types.KindEntityType:
		return Execute[query.EntityTypePath](ctx, s, raw)
	case types.KindEntity:
		return Execute[query.EntityPath](ctx, s, raw)
	case types.KindLink:
		return Execute[query.LinkPath](ctx, s, raw)
	}
	return nil, errors.MarkDeserialization(errors.Newf("unknown record kind %q", kind))
}

// Execute decodes raw as a structural query over P and resolves it.
func Execute[P query.Path](ctx context.Context, s *Service, raw []byte) (*subgraph.Subgraph, error) {
	sq, err := subgraph.DecodeStructuralQuery[P](raw)
	if err != nil {
		return nil, s.fail("query", err)
	}
	return ExecuteQuery(ctx, s, sq)
}

// ExecuteQuery converts the query's parameters, finds its roots and
// expands them to the requested depths.
func ExecuteQuery[P query.Path](ctx context.Context, s *Service, sq subgraph.StructuralQuery[P]) (*subgraph.Subgraph, error) {
	var zero P
	kind := zero.RecordKind()

	if err := sq.Filter.ConvertParameters(); err != nil {
		return nil, s.fail("query", err)
	}
	depths := sq.GraphResolveDepths
	if s.maxDepth > 0 && depths.Max() > s.maxDepth {
		s.logger.Infow("Clamping resolve depths", logger.FieldDepths, depths.String(), "max", s.maxDepth)
		depths = depths.Clamp(s.maxDepth)
	}

	var sg *subgraph.Subgraph
	err := s.withStore(ctx, func(st store.Store) error {
		roots, err := st.FindRoots(ctx, kind, query.Erase(sq.Filter))
		if err != nil {
			return err
		}
		sg, err = subgraph.NewResolver(st, s.logger).Resolve(ctx, roots, depths)
		return err
	})
	if err != nil {
		return nil, s.fail("query", err)
	}

	s.logger.Debugw("Structural query resolved",
		logger.FieldRecordKind, kind,
		logger.FieldQuery, sq.Filter.String(),
		logger.FieldRoots, len(sg.Roots),
		logger.FieldVertices, len(sg.Vertices),
	)
	return sg, nil
}

// LatestEntity returns the latest version of entity id.
func (s *Service) LatestEntity(ctx context.Context, id uuid.UUID) (subgraph.Vertex, error) {
	sg, err := ExecuteQuery(ctx, s, subgraph.StructuralQuery[query.EntityPath]{
		Filter: query.ForLatestEntityByID(id),
	})
	if err != nil {
		return subgraph.Vertex{}, err
	}
	if len(sg.Roots) == 0 {
		return subgraph.Vertex{}, errors.NewNotFoundError("entity %s", id)
	}
	vertex, _ := sg.Vertex(sg.Roots[0])
	return vertex, nil
}

// LatestEntities returns the latest version of every entity, ordered by id.
func (s *Service) LatestEntities(ctx context.Context) ([]subgraph.Vertex, error) {
	sg, err := ExecuteQuery(ctx, s, subgraph.StructuralQuery[query.EntityPath]{
		Filter: query.ForAllLatestEntities(),
	})
	if err != nil {
		return nil, err
	}
	vertices := make([]subgraph.Vertex, 0, len(sg.Roots))
	for _, id := range sg.Roots {
		if v, ok := sg.Vertex(id); ok {
			vertices = append(vertices, v)
		}
	}
	return vertices, nil
}
