package subgraph

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
	"github.com/teranos/ontograph/types"
)

// EdgeSource is the storage the resolver walks.
type EdgeSource interface {
	// FetchEdges returns the records adjacent to id over kind in direction
	// dir. Kinds a record cannot carry yield no targets.
	FetchEdges(ctx context.Context, id types.VersionedID, kind types.EdgeKind, dir Direction) ([]types.VersionedID, error)
	LoadVertex(ctx context.Context, id types.VersionedID) (Vertex, error)
}

// Resolver expands roots breadth first.
type Resolver struct {
	source EdgeSource
	logger *zap.SugaredLogger
}

// NewResolver creates a resolver over source.
func NewResolver(source EdgeSource, log *zap.SugaredLogger) *Resolver {
	return &Resolver{source: source, logger: log.Named("subgraph.resolver")}
}

type visit struct {
	id     types.VersionedID
	depths GraphResolveDepths
}

type edgeKey struct {
	source    types.VersionedID
	kind      types.EdgeKind
	target    types.VersionedID
	direction Direction
}

// Resolve builds the subgraph reachable from roots within depths.
//
// Each hop spends one unit of the depth for the edge kind and direction it
// used. A vertex is expanded once, with the depths left when it was first
// discovered. Edges into already known vertices are still recorded, so
// cycles terminate with every edge on them present.
func (r *Resolver) Resolve(ctx context.Context, roots []types.VersionedID, depths GraphResolveDepths) (*Subgraph, error) {
	sg := &Subgraph{
		Roots:    roots,
		Vertices: make(map[string]Vertex, len(roots)),
		Edges:    []Edge{},
		Depths:   depths,
	}
	if sg.Roots == nil {
		sg.Roots = []types.VersionedID{}
	}

	visited := make(map[types.VersionedID]struct{})
	seenEdges := make(map[edgeKey]struct{})
	var queue []visit

	for _, root := range roots {
		if err := r.load(ctx, sg, root); err != nil {
			return nil, err
		}
		if _, ok := visited[root]; !ok {
			visited[root] = struct{}{}
			queue = append(queue, visit{id: root, depths: depths})
		}
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "resolve subgraph")
		}
		current := queue[0]
		queue = queue[1:]

		for _, kind := range types.EdgeKinds {
			for _, dir := range Directions {
				next, ok := current.depths.Decrement(kind, dir)
				if !ok {
					continue
				}
				targets, err := r.source.FetchEdges(ctx, current.id, kind, dir)
				if err != nil {
					return nil, errors.Wrapf(err, "fetch %s %s edges of %s", dir, kind, current.id)
				}
				for _, target := range targets {
					key := edgeKey{source: current.id, kind: kind, target: target, direction: dir}
					if _, ok := seenEdges[key]; !ok {
						seenEdges[key] = struct{}{}
						sg.Edges = append(sg.Edges, Edge{Source: current.id, Kind: kind, Direction: dir, Target: target})
					}
					if err := r.load(ctx, sg, target); err != nil {
						return nil, err
					}
					if _, ok := visited[target]; !ok {
						visited[target] = struct{}{}
						queue = append(queue, visit{id: target, depths: next})
					}
				}
			}
		}
	}

	r.logger.Debugw("Resolved subgraph",
		logger.FieldRoots, len(sg.Roots),
		logger.FieldVertices, len(sg.Vertices),
		logger.FieldEdges, len(sg.Edges),
		logger.FieldDepths, depths.String(),
	)
	return sg, nil
}

func (r *Resolver) load(ctx context.Context, sg *Subgraph, id types.VersionedID) error {
	key := id.String()
	if _, ok := sg.Vertices[key]; ok {
		return nil
	}
	vertex, err := r.source.LoadVertex(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "load vertex %s", id)
	}
	sg.Vertices[key] = vertex
	return nil
}
