package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cassprep/internal/faults"
	"cassprep/internal/ledger"
	"cassprep/internal/split"
)

const displayTimeLayout = "2006-01-02 15:04:05"

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(cmd.Context(), true, func(store *ledger.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return faults.Wrap(faults.ErrIO, "runs", "list", "", err)
				}
				w := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(w, "No runs recorded")
					return nil
				}
				fmt.Fprintln(w, renderTable(
					[]string{"ID", "Command", "Status", "Started", "Duration", "Accepted", "Rejected"},
					buildRunRows(runs),
					4, 5, 6,
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newRunsShowCommand(ctx))
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run with its rejection and split counts",
		Long:  "Show one run. The identifier may be abbreviated to any unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(cmd.Context(), true, func(store *ledger.Store) error {
				detail, err := store.Detail(cmd.Context(), strings.TrimSpace(args[0]))
				switch {
				case errors.Is(err, ledger.ErrRunNotFound), errors.Is(err, ledger.ErrAmbiguousRun):
					return faults.Wrap(faults.ErrConfiguration, "runs", "show", args[0], err)
				case err != nil:
					return faults.Wrap(faults.ErrIO, "runs", "show", args[0], err)
				}

				w := cmd.OutOrStdout()
				fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, buildRunDetailRows(detail.Run)))
				if len(detail.Rejections) > 0 {
					fmt.Fprintln(w, renderTable([]string{"Reason", "Documents"}, buildCountRows(detail.Rejections, nil), 1))
				}
				if len(detail.Assignments) > 0 {
					order := make([]string, 0, len(split.Sets))
					for _, set := range split.Sets {
						order = append(order, set.String())
					}
					fmt.Fprintln(w, renderTable([]string{"Split", "Documents"}, buildCountRows(detail.Assignments, order), 1))
				}
				return nil
			})
		},
	}
}

func buildRunRows(runs []ledger.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.Command,
			run.Status,
			formatDisplayTime(run.StartedAt),
			formatDuration(run),
			strconv.Itoa(run.Accepted),
			strconv.Itoa(run.Rejected),
		})
	}
	return rows
}

func buildRunDetailRows(run ledger.Run) [][]string {
	rows := [][]string{
		{"ID", run.ID},
		{"Command", run.Command},
		{"Status", run.Status},
		{"Started", formatDisplayTime(run.StartedAt)},
		{"Finished", formatDisplayTime(run.FinishedAt)},
		{"Duration", formatDuration(run)},
		{"Input", run.InputDir},
		{"Output", run.OutputDir},
		{"Language", run.Language},
	}
	if run.Layout != "" {
		rows = append(rows, []string{"Layout", run.Layout})
	}
	if run.SplitMode != "" {
		rows = append(rows, []string{"Split", fmt.Sprintf("%s (seed %d)", run.SplitMode, run.Seed)})
	}
	rows = append(rows,
		[]string{"Accepted", strconv.Itoa(run.Accepted)},
		[]string{"Rejected", strconv.Itoa(run.Rejected)},
	)
	if run.ErrorMessage != "" {
		rows = append(rows, []string{"Error", run.ErrorMessage})
	}
	return rows
}

// buildCountRows lists counts in order first, then any remaining keys sorted.
func buildCountRows(counts map[string]int, order []string) [][]string {
	keys := make([]string, 0, len(counts))
	seen := make(map[string]bool, len(order))
	for _, key := range order {
		if _, ok := counts[key]; ok {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range counts {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{key, strconv.Itoa(counts[key])})
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(time.Local).Format(displayTimeLayout)
}

func formatDuration(run ledger.Run) string {
	if !run.Finished() {
		return "-"
	}
	return run.Duration().Round(time.Millisecond).String()
}
