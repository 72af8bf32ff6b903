package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

func newHeadersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "headers OLD NEW",
		Short: "Check that two CSV files share the same columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeaders(cmd, ctx, args[0], args[1])
		},
	}
}

func runHeaders(cmd *cobra.Command, ctx *commandContext, oldPath, newPath string) error {
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

	out := cmd.OutOrStdout()
	err = ctx.service().CompareHeaders(ctx.withLogger(cmd.Context()),
		core.FileInput{Name: filepath.Base(oldPath), Data: oldFile},
		core.FileInput{Name: filepath.Base(newPath), Data: newFile},
	)

	var mismatch *reconcile.SchemaMismatchError
	if errors.As(err, &mismatch) {
		fmt.Fprintln(out, renderTable(out, []string{"#", "Old", "New", ""}, headerRows(mismatch), []columnAlignment{alignRight}))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Headers match")
	return nil
}

// headerRows lines up both headers and marks the columns that differ.
func headerRows(m *reconcile.SchemaMismatchError) [][]string {
	n := max(len(m.OldHeader), len(m.NewHeader))
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		oldCol, newCol := "", ""
		if i < len(m.OldHeader) {
			oldCol = m.OldHeader[i]
		}
		if i < len(m.NewHeader) {
			newCol = m.NewHeader[i]
		}
		marker := ""
		if i == m.Index {
			marker = "<- " + m.Reason
		}
		rows = append(rows, []string{fmt.Sprint(i), oldCol, newCol, marker})
	}
	return rows
}
