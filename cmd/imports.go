/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iotrack"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/spf13/cobra"
)

// runView is the printed form of an import run.
type runView struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"startedAt"`
	EndedAt          *time.Time `json:"endedAt,omitempty"`
	RecordsProcessed int64      `json:"recordsProcessed"`
	Error            string     `json:"error,omitempty"`
	Details          string     `json:"details,omitempty"`
}

func newRunView(r schema.ImportRun) runView {
	res := runView{
		ID:               r.ID,
		Type:             r.Type,
		Status:           r.Status,
		StartedAt:        r.StartedAt,
		RecordsProcessed: r.RecordsProcessed,
		Error:            r.ErrorMessage.String,
		Details:          r.Details,
	}
	if r.EndedAt.Valid {
		t := r.EndedAt.Time
		res.EndedAt = &t
	}
	return res
}

// getImportsCmd returns the imports command.
func getImportsCmd() *cobra.Command {
	var limit int

	importsCmd := &cobra.Command{
		Use:   "imports",
		Short: "List recent import runs",
		Long: `Imports prints the latest tracked import runs as JSON,
newest first.

Examples:
  gngeo imports
  gngeo imports --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImports(cmd, limit)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importsCmd.Flags().IntVarP(&limit, "limit", "l", 20,
		"number of runs to show")
	return importsCmd
}

func runImports(cmd *cobra.Command, limit int) error {
	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	runs, err := iotrack.New(op).Recent(ctx, limit)
	if err != nil {
		return err
	}
	res := make([]runView, len(runs))
	for i, r := range runs {
		res[i] = newRunView(r)
	}
	return printJSON(cmd.OutOrStdout(), res)
}
