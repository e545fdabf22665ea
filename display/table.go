package display

import (
	"fmt"
	"io"
	"sort"

	"github.com/pterm/pterm"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/subgraph"
)

// WriteTable renders rows under header as a pterm table.
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// WriteSubgraph prints a vertex table followed by an edge table. Roots are
// listed first, then the remaining vertices in id order.
func WriteSubgraph(w io.Writer, sg *subgraph.Subgraph) error {
	roots := make(map[string]bool, len(sg.Roots))
	ids := make([]string, 0, len(sg.Vertices))
	for _, r := range sg.Roots {
		roots[r.String()] = true
		ids = append(ids, r.String())
	}
	var rest []string
	for id := range sg.Vertices {
		if !roots[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	ids = append(ids, rest...)

	vertexRows := make([][]string, 0, len(ids))
	for _, id := range ids {
		v := sg.Vertices[id]
		role := ""
		if roots[id] {
			role = "root"
		}
		archived := ""
		if v.Metadata.Archived {
			archived = "archived"
		}
		vertexRows = append(vertexRows, []string{id, string(v.Kind), role, archived})
	}
	if err := WriteTable(w, []string{"Vertex", "Kind", "Role", "State"}, vertexRows); err != nil {
		return err
	}

	if len(sg.Edges) == 0 {
		_, err := fmt.Fprintln(w, "No edges")
		return err
	}

	edgeRows := make([][]string, 0, len(sg.Edges))
	for _, e := range sg.Edges {
		edgeRows = append(edgeRows, []string{e.Source.String(), string(e.Kind), string(e.Direction), e.Target.String()})
	}
	return WriteTable(w, []string{"Source", "Edge", "Direction", "Target"}, edgeRows)
}
