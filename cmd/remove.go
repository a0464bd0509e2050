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

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iocountry"
	"github.com/spf13/cobra"
)

// getRemoveCmd returns the remove command.
func getRemoveCmd() *cobra.Command {
	var hard, yes bool

	removeCmd := &cobra.Command{
		Use:   "remove CC",
		Short: "Remove a country and its places",
		Long: `Remove disables a country and deletes its data.

By default places are marked as deleted and disappear from search
results. With --hard places, their alternate names, hierarchy edges
and administrative units are removed from the database.

Examples:
  gngeo remove FR
  gngeo remove FR --hard --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRemove(args[0], hard, yes)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	removeCmd.Flags().BoolVar(&hard, "hard", false,
		"delete rows instead of marking places as deleted")
	removeCmd.Flags().BoolVarP(&yes, "yes", "y", false,
		"do not ask for confirmation")
	return removeCmd
}

func runRemove(code string, hard, yes bool) error {
	ctx := context.Background()

	if hard && !yes {
		ok, err := confirm(stdin,
			"Hard removal deletes all data of "+code+". Continue?")
		if err != nil {
			return err
		}
		if !ok {
			gn.Info("Aborted. No changes made.")
			return nil
		}
	}

	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := iocountry.New(op)
	if err != nil {
		return err
	}
	n, err := reg.Remove(ctx, code, hard)
	if err != nil {
		return err
	}

	if c := openCache(ctx); c != nil {
		defer c.Close()
		if err = c.Invalidate(ctx); err != nil {
			gn.Warn("Cannot clear search cache: <em>%s</em>", err)
		}
	}

	gn.Info("Removed <em>%s</em> places of <em>%s</em>", humanize.Comma(int64(n)), code)
	return nil
}
