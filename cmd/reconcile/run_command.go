package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

type runOptions struct {
	optionThreshold float64
	mergeThreshold  float64
	outPath         string
	addedPath       string
	removedPath     string
	jsonOutput      bool
}

// runOutput is the --json form of a run.
type runOutput struct {
	Run     core.RunRecord    `json:"run"`
	Merged  []mergedOutput    `json:"merged"`
	Added   []addedOutput     `json:"added"`
	Removed [][]string        `json:"removed"`
	Files   map[string]string `json:"files,omitempty"`
}

type addedOutput struct {
	NewIndex int      `json:"new_index"`
	Record   []string `json:"record"`
}

type mergedOutput struct {
	Old        []string `json:"old"`
	New        []string `json:"new"`
	Similarity float64  `json:"similarity"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := runOptions{
		optionThreshold: ctx.cfg.Reconcile.OptionThreshold,
		mergeThreshold:  ctx.cfg.Reconcile.MergeThreshold,
	}

	cmd := &cobra.Command{
		Use:   "run OLD NEW",
		Short: "Reconcile NEW against OLD and report merged, added and removed records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd, ctx, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.optionThreshold, "option-threshold", opts.optionThreshold, "Minimum similarity for a candidate match")
	flags.Float64Var(&opts.mergeThreshold, "merge-threshold", opts.mergeThreshold, "Similarity that must be exceeded to merge automatically")
	flags.StringVarP(&opts.outPath, "out", "o", "", "Write the final table to this CSV file")
	flags.StringVar(&opts.addedPath, "added", "", "Write the added records to this CSV file")
	flags.StringVar(&opts.removedPath, "removed", "", "Write the removed records to this CSV file")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print the run as JSON")

	return cmd
}

func runReconcile(cmd *cobra.Command, ctx *commandContext, opts runOptions, oldPath, newPath string) error {
	oldFile, err := os.Open(oldPath)
	if err != nil {
		return fmt.Errorf("open old file: %w", err)
	}
	defer oldFile.Close()

	newFile, err := os.Open(newPath)
	if err != nil {
		return fmt.Errorf("open new file: %w", err)
	}
	defer newFile.Close()

	svc := ctx.service()
	rr, err := svc.Reconcile(ctx.withLogger(cmd.Context()), core.ReconcileRequest{
		Old:             core.FileInput{Name: filepath.Base(oldPath), Data: oldFile},
		New:             core.FileInput{Name: filepath.Base(newPath), Data: newFile},
		OptionThreshold: &opts.optionThreshold,
		MergeThreshold:  &opts.mergeThreshold,
	})
	if err != nil {
		return err
	}

	written, err := writeOutputs(svc, rr.Result, opts)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), newRunOutput(rr, written))
	}

	out := cmd.OutOrStdout()
	printSummary(out, rr.Run)
	if len(rr.Result.Merged) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Merged")
		fmt.Fprintln(out, renderTable(out, []string{"Old", "New", "Similarity"}, mergedRows(rr.Result.Merged), []columnAlignment{alignLeft, alignLeft, alignRight}))
	}
	if len(rr.Result.RemovedDetail) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Removed")
		fmt.Fprintln(out, renderTable(out, []string{"Old", "Best candidate", "Similarity"}, removedRows(rr.Result.RemovedDetail), []columnAlignment{alignLeft, alignLeft, alignRight}))
	}
	for _, kind := range []string{"final", "added", "removed"} {
		if path, ok := written[kind]; ok {
			fmt.Fprintf(out, "Wrote %s table to %s\n", kind, path)
		}
	}
	return nil
}

// writeOutputs writes whichever CSV outputs were requested and returns their
// paths keyed by kind.
func writeOutputs(svc *core.Service, result reconcile.Result, opts runOptions) (map[string]string, error) {
	written := make(map[string]string)
	outputs := []struct {
		kind string
		path string
		rows []reconcile.Record
	}{
		{"final", opts.outPath, result.Table.Rows},
		{"added", opts.addedPath, result.Added},
		{"removed", opts.removedPath, result.Removed},
	}

	for _, o := range outputs {
		if o.path == "" {
			continue
		}
		if err := writeCSVFile(svc, o.path, result.Table.Header, o.rows); err != nil {
			return nil, fmt.Errorf("write %s table: %w", o.kind, err)
		}
		written[o.kind] = o.path
	}
	return written, nil
}

func writeCSVFile(svc *core.Service, path string, header []string, rows []reconcile.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := svc.WriteRows(f, header, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, run core.RunRecord) {
	rows := [][]string{
		{"Old rows", fmt.Sprint(run.OldRows)},
		{"New rows", fmt.Sprint(run.NewRows)},
		{"Merged", fmt.Sprint(run.Merged)},
		{"Added", fmt.Sprint(run.Added)},
		{"Removed", fmt.Sprint(run.Removed)},
		{"Option threshold", formatScore(run.OptionThreshold)},
		{"Merge threshold", formatScore(run.MergeThreshold)},
		{"Duration", fmt.Sprintf("%dms", run.DurationMS)},
	}
	fmt.Fprintln(w, renderTable(w, []string{"Run", run.ID}, rows, []columnAlignment{alignLeft, alignRight}))
}

func mergedRows(pairs []reconcile.MergedPair) [][]string {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{describeRecord(p.Old), describeRecord(p.New), formatScore(p.Similarity)})
	}
	return rows
}

func removedRows(removed []reconcile.RemovedRecord) [][]string {
	rows := make([][]string, 0, len(removed))
	for _, r := range removed {
		if !r.HasCandidate {
			rows = append(rows, []string{describeRecord(r.Record), "-", "-"})
			continue
		}
		rows = append(rows, []string{describeRecord(r.Record), describeRecord(r.Candidate.Record), formatScore(r.Candidate.Similarity)})
	}
	return rows
}

// describeRecord joins the first two fields of a record for display.
func describeRecord(r reconcile.Record) string {
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.Join(r, " ")
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func newRunOutput(rr *core.RunResult, written map[string]string) runOutput {
	out := runOutput{
		Run:     rr.Run,
		Merged:  make([]mergedOutput, 0, len(rr.Result.Merged)),
		Added:   make([]addedOutput, 0, len(rr.Result.Added)),
		Removed: recordsToStrings(rr.Result.Removed),
	}
	for i, rec := range rr.Result.Added {
		out.Added = append(out.Added, addedOutput{NewIndex: rr.Result.AddedIndexes[i], Record: rec})
	}
	for _, p := range rr.Result.Merged {
		out.Merged = append(out.Merged, mergedOutput{Old: p.Old, New: p.New, Similarity: p.Similarity})
	}
	if len(written) > 0 {
		out.Files = written
	}
	return out
}

func recordsToStrings(records []reconcile.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	return out
}
