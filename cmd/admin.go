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

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/ioadmin"
	"github.com/spf13/cobra"
)

// getAdminCmd returns the admin command.
func getAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Maintain administrative units",
	}

	var countries []string
	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild administrative units from stored places",
		Long: `Rebuild synthesizes administrative units of every level from
stored ADM1-ADM5 places. Units are normally kept up to date by
imports, rebuild repairs them after manual changes of the database.

Examples:
  gngeo admin rebuild
  gngeo admin rebuild --countries IT,FR`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAdminRebuild(countries)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
	rebuildCmd.Flags().StringSliceVarP(&countries, "countries", "c", nil,
		"rebuild units of these countries only")

	adminCmd.AddCommand(rebuildCmd)
	return adminCmd
}

func runAdminRebuild(countries []string) error {
	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	n, err := ioadmin.New(op, &cfg.Database).SyncFromStore(ctx, countries)
	if err != nil {
		return err
	}
	gn.Info("Rebuilt <em>%d</em> administrative units", n)
	return nil
}
