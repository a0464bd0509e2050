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
	"fmt"
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iohierarchy"
	"github.com/spf13/cobra"
)

// getAncestorsCmd returns the ancestors command.
func getAncestorsCmd() *cobra.Command {
	var self bool

	ancestorsCmd := &cobra.Command{
		Use:   "ancestors <id>",
		Short: "Print administrative ancestors of a place",
		Long: `Ancestors prints the chain of administrative divisions of a
place as JSON, from the country down to the closest parent.

Examples:
  gngeo ancestors 3165524
  gngeo ancestors 3165524 --self`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAncestors(cmd, args[0], self)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ancestorsCmd.Flags().BoolVarP(&self, "self", "s", false,
		"append the place itself")
	return ancestorsCmd
}

func runAncestors(cmd *cobra.Command, arg string, self bool) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("place id %q: %w", arg, err)
	}

	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	res, err := iohierarchy.New(op, cfg).Ancestors(ctx, id, self)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
