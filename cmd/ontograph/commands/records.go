package commands

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teranos/ontograph/display"
	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/store"
	"github.com/teranos/ontograph/types"
)

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var (
		kind       string
		file       string
		owner      string
		actor      string
		onConflict string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create records from a JSON file",
		Long: `Create one record or a JSON list of records of a single kind at version 1.

The whole batch is created in one transaction. With --on-conflict skip,
records whose base id already exists are left out instead of failing the
batch. Use --file - to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recordKind, err := types.ParseRecordKind(kind)
			if err != nil {
				return err
			}
			conflict, ok := store.ParseConflictBehavior(onConflict)
			if !ok {
				return errors.Newf("unknown conflict behavior %q (supported: fail, skip)", onConflict)
			}
			ownerID, err := uuid.Parse(owner)
			if err != nil {
				return errors.Wrap(err, "invalid --owner")
			}
			actorID := ownerID
			if actor != "" {
				if actorID, err = uuid.Parse(actor); err != nil {
					return errors.Wrap(err, "invalid --actor")
				}
			}

			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			records, _, err := types.DecodeRecords(recordKind, raw)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			submissions := make([]store.Submission, len(records))
			for i, record := range records {
				submissions[i] = store.Submission{Record: record, OwnedByID: ownerID, ActorID: actorID}
			}
			created, err := rt.svc.CreateRecords(cmd.Context(), submissions, conflict)
			if err != nil {
				return err
			}
			return writeMetadata(cmd, created...)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Record kind: dataType, propertyType, entityType, entity, link")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file holding a record or a list of records ('-' for stdin)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owning account id")
	cmd.Flags().StringVar(&actor, "actor", "", "Acting account id (defaults to --owner)")
	cmd.Flags().StringVar(&onConflict, "on-conflict", "fail", "Existing base ids: fail or skip")
	cmd.Flags().String("format", string(display.FormatTable), "Output format: table, json, yaml")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// newArchiveCmd builds "archive" or, with archive false, "unarchive".
func newArchiveCmd(opts *rootOptions, archive bool) *cobra.Command {
	var actor, kindName string

	use, short := "archive", "Archive the latest version of a record"
	if !archive {
		use, short = "unarchive", "Restore an archived record"
	}

	cmd := &cobra.Command{
		Use:   use + " <versionedId>",
		Short: short,
		Long: short + `.

The id must name the latest version, e.g.
https://example.com/types/entity-type/person/v/3. Entities and links use
their uuid as the base id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseVersionedID(args[0])
			if err != nil {
				return err
			}
			actorID, err := uuid.Parse(actor)
			if err != nil {
				return errors.Wrap(err, "invalid --actor")
			}
			kind, err := types.ParseRecordKind(kindName)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			fn := rt.svc.Archive
			if !archive {
				fn = rt.svc.Unarchive
			}
			md, err := fn(cmd.Context(), kind, id, actorID)
			if err != nil {
				return err
			}
			return writeMetadata(cmd, md)
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", "", "Record kind: dataType, propertyType, entityType, entity, link")
	cmd.Flags().StringVar(&actor, "actor", "", "Acting account id")
	cmd.Flags().String("format", string(display.FormatTable), "Output format: table, json, yaml")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "failed to read stdin")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", file)
	}
	return data, nil
}

// writeMetadata prints revision metadata in the command's --format.
func writeMetadata(cmd *cobra.Command, mds ...types.Metadata) error {
	format, err := display.FormatFromCommand(cmd, display.FormatTable)
	if err != nil {
		return err
	}
	if format != display.FormatTable {
		return display.Render(cmd.OutOrStdout(), format, mds)
	}

	rows := make([][]string, 0, len(mds))
	for _, md := range mds {
		state := "active"
		if md.Archived {
			state = "archived"
		}
		rows = append(rows, []string{md.RecordID.String(), string(md.RecordKind), md.OwnedByID.String(), state})
	}
	return display.WriteTable(cmd.OutOrStdout(), []string{"Record", "Kind", "Owner", "State"}, rows)
}
