package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"podcut/internal/runctx"
	"podcut/internal/store"
	"podcut/internal/workspace"
)

const historyRunLimit = 20

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var artifact string
	var version int

	cmd := &cobra.Command{
		Use:   "history DIR",
		Short: "List stored runs and artifact versions",
		Long: "List the runs and artifact snapshots recorded for a workspace. " +
			"With --artifact and --version the stored file is printed as it was written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Store.Enabled {
				return runctx.Wrap(runctx.ErrConfiguration, "", "history", "snapshot store is disabled", nil)
			}
			if version > 0 && strings.TrimSpace(artifact) == "" {
				return errors.New("--version requires --artifact")
			}
			ws, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if version > 0 {
				snap, err := st.Get(cmd.Context(), ws.Dir(), artifact, version)
				if err != nil {
					return historyError(err, artifact, version)
				}
				_, err = cmd.OutOrStdout().Write(snap.Payload)
				return err
			}
			return showHistory(cmd, ctx, st, ws.Dir(), strings.TrimSpace(artifact))
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", "", "Limit to one artifact, e.g. edits.json")
	cmd.Flags().IntVar(&version, "version", 0, "Print the stored payload of this version")
	return cmd
}

type historyView struct {
	Runs      []store.Run      `json:"runs,omitempty"`
	Snapshots []store.Snapshot `json:"snapshots"`
}

func showHistory(cmd *cobra.Command, ctx *commandContext, st *store.Store, dir, artifact string) error {
	var view historyView
	var err error
	if artifact == "" {
		if view.Runs, err = st.ListRuns(cmd.Context(), dir, historyRunLimit); err != nil {
			return runctx.Wrap(runctx.ErrStorage, "", "list runs", "", err)
		}
	}
	if view.Snapshots, err = st.List(cmd.Context(), dir, artifact); err != nil {
		return runctx.Wrap(runctx.ErrStorage, "", "list snapshots", "", err)
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	if len(view.Runs) == 0 && len(view.Snapshots) == 0 {
		fmt.Fprintf(out, "No history recorded for %s\n", dir)
		return nil
	}
	if len(view.Runs) > 0 {
		rows := make([][]string, 0, len(view.Runs))
		for _, r := range view.Runs {
			rows = append(rows, []string{
				shortID(r.ID),
				string(r.Status),
				strings.Join(r.Stages, ","),
				formatTime(r.StartedAt),
				clip(r.Error, detailWidth),
			})
		}
		fmt.Fprint(out, renderTable("Runs", []string{"Run", "Status", "Stages", "Started", "Error"}, rows, nil))
	}
	if len(view.Snapshots) > 0 {
		rows := make([][]string, 0, len(view.Snapshots))
		for _, s := range view.Snapshots {
			rows = append(rows, []string{
				s.Artifact,
				strconv.Itoa(s.Version),
				s.Stage,
				shortID(s.RunID),
				strconv.Itoa(s.Size),
				formatTime(s.CreatedAt),
			})
		}
		fmt.Fprint(out, renderTable("Snapshots", []string{"Artifact", "Version", "Stage", "Run", "Bytes", "Created"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft}))
	}
	return nil
}

func historyError(err error, artifact string, version int) error {
	if errors.Is(err, store.ErrNotFound) {
		return runctx.Wrap(runctx.ErrMissingInput, "", "history", fmt.Sprintf("%s version %d not stored", artifact, version), nil)
	}
	return runctx.Wrap(runctx.ErrStorage, "", "history", "", err)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
