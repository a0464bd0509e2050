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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/internal/ioimport"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// statsView is the printed form of import statistics.
type statsView struct {
	Source    string `json:"source"`
	Processed int64  `json:"processed"`
	Skipped   int64  `json:"skipped"`
	Inserted  int64  `json:"inserted"`
	Updated   int64  `json:"updated"`
	Deleted   int64  `json:"deleted"`
	Elapsed   string `json:"elapsed"`
}

func newStatsView(src lifecycle.Source, s lifecycle.ImportStats) statsView {
	return statsView{
		Source:    src.Location,
		Processed: s.Processed,
		Skipped:   s.Skipped,
		Inserted:  s.Inserted,
		Updated:   s.Updated,
		Deleted:   s.Deleted,
		Elapsed:   gnfmt.TimeString(s.Elapsed.Seconds()),
	}
}

// importFunc runs one source through an importer.
type importFunc func(
	ctx context.Context,
	im lifecycle.Importer,
	src lifecycle.Source,
) (lifecycle.ImportStats, error)

// getImportCmd returns the import command with one subcommand per feed
// kind.
func getImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import one GeoNames file or URL",
		Long: `Import runs a single dump or feed through the import pipeline
outside of the scheduled sync. A source is a URL or a local file,
zip archives are extracted.

Examples:
  gngeo import places https://download.geonames.org/export/dump/IT.zip
  gngeo import places allCountries.zip --countries IT,FR
  gngeo import deletes deletes-2026-10-17.txt
  gngeo import alternates alternateNamesV2.zip --languages en,it
  gngeo import hierarchy hierarchy.zip
  gngeo import admin-codes admin1CodesASCII.txt`,
	}

	var countries []string
	places := importSubCmd(
		"places", "Import places of a full dump or a modifications feed",
		lifecycle.ImportFull,
		func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
			return im.ImportPlaces(ctx, src, cfg.Import.Countries)
		},
	)
	places.Flags().StringSliceVarP(&countries, "countries", "c", nil,
		"import only places of these country codes")
	addPreRun(places, func(cmd *cobra.Command) {
		if cmd.Flags().Changed("countries") {
			cfg.Update([]config.Option{config.OptImportCountries(countries)})
		}
	})

	var languages []string
	alternates := importSubCmd(
		"alternates", "Import alternate names",
		lifecycle.ImportAlternateNames,
		func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
			return im.ImportAlternateNames(ctx, src, cfg.Import.Languages)
		},
	)
	alternates.Flags().StringSliceVarP(&languages, "languages", "l", nil,
		"import only alternate names of these languages")
	addPreRun(alternates, func(cmd *cobra.Command) {
		if cmd.Flags().Changed("languages") {
			cfg.Update([]config.Option{config.OptImportLanguages(languages)})
		}
	})

	importCmd.AddCommand(
		places,
		importSubCmd(
			"deletes", "Soft-delete places of a deletes feed",
			lifecycle.ImportDailyDelete,
			func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
				return im.ImportDeletes(ctx, src)
			},
		),
		alternates,
		importSubCmd(
			"alternate-deletes", "Remove alternate names of a deletes feed",
			lifecycle.ImportDailyAlternateDelete,
			func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
				return im.ImportAlternateDeletes(ctx, src)
			},
		),
		importSubCmd(
			"hierarchy", "Import parent-child edges",
			lifecycle.ImportHierarchy,
			func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
				return im.ImportHierarchy(ctx, src)
			},
		),
		importSubCmd(
			"admin-codes", "Import admin1 or admin2 code files",
			lifecycle.ImportAdminCodes,
			func(ctx context.Context, im lifecycle.Importer, src lifecycle.Source) (lifecycle.ImportStats, error) {
				return im.ImportAdminCodes(ctx, src)
			},
		),
	)
	return importCmd
}

func importSubCmd(
	use, short string,
	typ lifecycle.ImportType,
	fn importFunc,
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <url|file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := lifecycle.Source{Type: typ, Location: args[0]}
			err := runImport(cmd, src, fn)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

// addPreRun runs fn after the root bootstrap, so flags can update the
// loaded configuration.
func addPreRun(cmd *cobra.Command, fn func(*cobra.Command)) {
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		fn(cmd)
	}
}

func runImport(cmd *cobra.Command, src lifecycle.Source, fn importFunc) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	im := ioimport.New(cfg, op)
	stats, err := fn(ctx, im, src)
	if err != nil {
		return err
	}

	if c := openCache(ctx); c != nil {
		defer c.Close()
		if err = c.Invalidate(ctx); err != nil {
			gn.Warn("Cannot clear search cache: <em>%s</em>", err)
		}
	}

	return printJSON(cmd.OutOrStdout(), newStatsView(src, stats))
}
