package commands

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/display"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/graph"
	"github.com/teranos/ontograph/query"
	"github.com/teranos/ontograph/subgraph"
	"github.com/teranos/ontograph/types"
)

type queryOptions struct {
	kind   string
	where  string
	depths []string
	file   string
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	qo := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a structural query",
		Long: `Select root records with a filter and expand them along typed edges.

The filter is written in text form; paths start with '.', clauses are joined
by "and" or "or". Without --where the latest version of every record of the
kind is selected. Depths are given per edge kind as kind=incoming/outgoing.

A complete structural query in JSON can be given with --file instead.

Examples:
  ontograph query --kind entityType --where '.title = Person'
  ontograph query --kind entity --depth isOfType=0/1 --format json
  ontograph query --kind link --file query.json --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := display.FormatFromCommand(cmd, display.FormatTable)
			if err != nil {
				return err
			}
			kind, err := types.ParseRecordKind(qo.kind)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			sg, err := runQuery(cmd.Context(), rt.svc, kind, qo)
			if err != nil {
				return err
			}

			if format == display.FormatTable {
				return display.WriteSubgraph(cmd.OutOrStdout(), sg)
			}
			return display.Render(cmd.OutOrStdout(), format, sg)
		},
	}

	cmd.Flags().StringVarP(&qo.kind, "kind", "k", string(types.KindEntity), "Record kind: dataType, propertyType, entityType, entity, link")
	cmd.Flags().StringVarP(&qo.where, "where", "w", "", "Filter in text form, e.g. '.title = Person'")
	cmd.Flags().StringSliceVarP(&qo.depths, "depth", "d", nil, "Resolve depth as edgeKind=incoming/outgoing (repeatable)")
	cmd.Flags().StringVarP(&qo.file, "file", "f", "", "Read a JSON structural query from this file")
	cmd.Flags().String("format", string(display.FormatTable), "Output format: table, json, yaml")
	cmd.Flags().Bool("json", false, "Shorthand for --format json")
	cmd.MarkFlagsMutuallyExclusive("file", "where")
	cmd.MarkFlagsMutuallyExclusive("file", "depth")
	return cmd
}

// runQuery dispatches on kind to the typed query path.
func runQuery(ctx context.Context, svc *graph.Service, kind types.RecordKind, qo *queryOptions) (*subgraph.Subgraph, error) {
	if qo.file != "" {
		raw, err := os.ReadFile(qo.file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", qo.file)
		}
		return svc.ExecuteStructuralQuery(ctx, kind, raw)
	}

	depths, err := parseDepths(qo.depths)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.KindDataType:
		return queryText[query.DataTypePath](ctx, svc, qo.where, depths)
	case types.KindPropertyType:
		return queryText[query.PropertyTypePath](ctx, svc, qo.where, depths)
	case types.KindEntityType:
		return queryText[query.EntityTypePath](ctx, svc, qo.where, depths)
	case types.KindEntity:
		return queryText[query.EntityPath](ctx, svc, qo.where, depths)
	case types.KindLink:
		return queryText[query.LinkPath](ctx, svc, qo.where, depths)
	}
	return nil, errors.Newf("unknown record kind %q", kind)
}

func queryText[P query.Path](ctx context.Context, svc *graph.Service, where string, depths subgraph.GraphResolveDepths) (*subgraph.Subgraph, error) {
	filter := query.ForLatestVersion[P]()
	if strings.TrimSpace(where) != "" {
		parsed, err := query.ParseFilter[P](where)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}
	return graph.ExecuteQuery(ctx, svc, subgraph.StructuralQuery[P]{
		Filter:             filter,
		GraphResolveDepths: depths,
	})
}

// parseDepths reads "edgeKind=incoming/outgoing" entries. A bare number
// after '=' sets the outgoing depth only.
func parseDepths(entries []string) (subgraph.GraphResolveDepths, error) {
	var depths subgraph.GraphResolveDepths
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return depths, errors.Newf("depth %q must look like edgeKind=incoming/outgoing", entry)
		}
		kind, err := types.ParseEdgeKind(strings.TrimSpace(name))
		if err != nil {
			return depths, err
		}

		var e subgraph.EdgeResolveDepths
		in, out, hasIn := strings.Cut(value, "/")
		if !hasIn {
			in, out = "0", value
		}
		if e.Incoming, err = parseDepth(in); err != nil {
			return depths, errors.Wrapf(err, "depth %q", entry)
		}
		if e.Outgoing, err = parseDepth(out); err != nil {
			return depths, errors.Wrapf(err, "depth %q", entry)
		}
		depths.Set(kind, e)
	}
	return depths, nil
}

func parseDepth(s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, errors.Newf("%q is not a depth between 0 and 255", s)
	}
	return uint8(n), nil
}
