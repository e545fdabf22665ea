// Package subgraph expands the records matched by a structural query into
// the subgraph reachable from them through typed edges.
package subgraph

import (
	"fmt"
	"strings"

	"github.com/teranos/ontograph/types"
)

// Direction is the side of an edge a traversal follows.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// Directions lists both directions, outgoing first.
var Directions = []Direction{Outgoing, Incoming}

// EdgeResolveDepths bounds how many hops of one edge kind may be followed
// in each direction.
type EdgeResolveDepths struct {
	Incoming uint8 `json:"incoming"`
	Outgoing uint8 `json:"outgoing"`
}

// GraphResolveDepths holds the remaining depth per edge kind.
type GraphResolveDepths struct {
	InheritsFrom                 EdgeResolveDepths `json:"inheritsFrom"`
	ConstrainsValuesOn           EdgeResolveDepths `json:"constrainsValuesOn"`
	ConstrainsPropertiesOn       EdgeResolveDepths `json:"constrainsPropertiesOn"`
	ConstrainsLinksOn            EdgeResolveDepths `json:"constrainsLinksOn"`
	ConstrainsLinkDestinationsOn EdgeResolveDepths `json:"constrainsLinkDestinationsOn"`
	IsOfType                     EdgeResolveDepths `json:"isOfType"`
	HasLeftEntity                EdgeResolveDepths `json:"hasLeftEntity"`
	HasRightEntity               EdgeResolveDepths `json:"hasRightEntity"`
}

func (d *GraphResolveDepths) edge(kind types.EdgeKind) *EdgeResolveDepths {
	switch kind {
	case types.EdgeInheritsFrom:
		return &d.InheritsFrom
	case types.EdgeConstrainsValuesOn:
		return &d.ConstrainsValuesOn
	case types.EdgeConstrainsPropertiesOn:
		return &d.ConstrainsPropertiesOn
	case types.EdgeConstrainsLinksOn:
		return &d.ConstrainsLinksOn
	case types.EdgeConstrainsLinkDestinationsOn:
		return &d.ConstrainsLinkDestinationsOn
	case types.EdgeIsOfType:
		return &d.IsOfType
	case types.EdgeHasLeftEntity:
		return &d.HasLeftEntity
	case types.EdgeHasRightEntity:
		return &d.HasRightEntity
	}
	return nil
}

// Get returns the depths of one edge kind. Unknown kinds have zero depth.
func (d GraphResolveDepths) Get(kind types.EdgeKind) EdgeResolveDepths {
	if e := d.edge(kind); e != nil {
		return *e
	}
	return EdgeResolveDepths{}
}

// Set replaces the depths of one edge kind.
func (d *GraphResolveDepths) Set(kind types.EdgeKind, depths EdgeResolveDepths) {
	if e := d.edge(kind); e != nil {
		*e = depths
	}
}

// Remaining returns the depth left for kind in direction dir.
func (d GraphResolveDepths) Remaining(kind types.EdgeKind, dir Direction) uint8 {
	e := d.Get(kind)
	if dir == Incoming {
		return e.Incoming
	}
	return e.Outgoing
}

// Decrement returns d after one hop of kind in direction dir. It reports
// false when no depth is left for that hop.
func (d GraphResolveDepths) Decrement(kind types.EdgeKind, dir Direction) (GraphResolveDepths, bool) {
	e := d.edge(kind)
	if e == nil {
		return d, false
	}
	switch dir {
	case Incoming:
		if e.Incoming == 0 {
			return d, false
		}
		e.Incoming--
	case Outgoing:
		if e.Outgoing == 0 {
			return d, false
		}
		e.Outgoing--
	default:
		return d, false
	}
	return d, true
}

// IsZero reports whether no edge may be followed.
func (d GraphResolveDepths) IsZero() bool {
	return d == GraphResolveDepths{}
}

// Max is the largest depth across all edge kinds and directions.
func (d GraphResolveDepths) Max() uint8 {
	var max uint8
	for _, kind := range types.EdgeKinds {
		e := d.Get(kind)
		if e.Incoming > max {
			max = e.Incoming
		}
		if e.Outgoing > max {
			max = e.Outgoing
		}
	}
	return max
}

// Clamp caps every depth at limit.
func (d GraphResolveDepths) Clamp(limit uint8) GraphResolveDepths {
	for _, kind := range types.EdgeKinds {
		e := d.edge(kind)
		e.Incoming = min(e.Incoming, limit)
		e.Outgoing = min(e.Outgoing, limit)
	}
	return d
}

// String lists the non-zero depths as kind=incoming/outgoing, for logs.
func (d GraphResolveDepths) String() string {
	var parts []string
	for _, kind := range types.EdgeKinds {
		if e := d.Get(kind); e != (EdgeResolveDepths{}) {
			parts = append(parts, fmt.Sprintf("%s=%d/%d", kind, e.Incoming, e.Outgoing))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
