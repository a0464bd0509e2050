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
	"errors"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iosearch"
	"github.com/gnames/gngeo/pkg/search"
	"github.com/spf13/cobra"
)

// searchFlags keeps values of search command flags.
type searchFlags struct {
	countries     []string
	classes       []string
	codes         []string
	admin1        string
	minPopulation int64
	limit         int
	adminNames    bool
	order         string

	near     string
	bbox     string
	id       int64
	children string
}

// options converts flags to search options.
func (f searchFlags) options() search.Options {
	return search.Options{
		Countries:      f.countries,
		FeatureClasses: f.classes,
		FeatureCodes:   f.codes,
		Admin1Code:     f.admin1,
		MinPopulation:  f.minPopulation,
		Limit:          f.limit,
		WithAdminNames: f.adminNames,
		OrderBy:        search.OrderBy(strings.ToLower(f.order)),
	}
}

// mode returns the name of the selected query mode. Only one of --near,
// --bbox, --id and --children can be used.
func (f searchFlags) mode(args []string) (string, error) {
	var modes []string
	if f.near != "" {
		modes = append(modes, "near")
	}
	if f.bbox != "" {
		modes = append(modes, "bbox")
	}
	if f.id > 0 {
		modes = append(modes, "id")
	}
	if f.children != "" {
		modes = append(modes, "children")
	}

	switch len(modes) {
	case 0:
		if len(args) == 0 {
			return "", errors.New("provide a search term or one of " +
				"--near, --bbox, --id, --children")
		}
		return "term", nil
	case 1:
		if len(args) > 0 {
			return "", errors.New("a search term cannot be combined with --" + modes[0])
		}
		return modes[0], nil
	default:
		return "", errors.New("use only one of --" + strings.Join(modes, ", --"))
	}
}

// getSearchCmd returns the search command.
func getSearchCmd() *cobra.Command {
	var f searchFlags

	searchCmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search places and print them as JSON",
		Long: `Search finds places by name, location or administrative codes.

A term matches names and ASCII names by prefix and alternate names
by full text (PostgreSQL with search.use_fulltext) or by substring.
Terms shorter than 3 characters need --countries or --admin1.

Only one of --near, --bbox, --id and --children can be used, and
none of them together with a term.

Examples:
  gngeo search Torino --countries IT
  gngeo search Tor --classes P --admin-names --limit 5
  gngeo search Milan --order relevance
  gngeo search --near 45.07,7.68 --classes P
  gngeo search --bbox 45.2,7.8,44.9,7.5
  gngeo search --bbox -13,-171,-19,178 --countries FJ,WS
  gngeo search --id 3165524 --admin-names
  gngeo search --children IT.09.TO --classes P`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSearch(cmd, args, f)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	fs := searchCmd.Flags()
	fs.StringSliceVarP(&f.countries, "countries", "c", nil,
		"limit results to country codes")
	fs.StringSliceVar(&f.classes, "classes", nil,
		"limit results to feature classes, for example P,A")
	fs.StringSliceVar(&f.codes, "codes", nil,
		"limit results to feature codes, for example PPLC")
	fs.StringVar(&f.admin1, "admin1", "",
		"limit results to a first-level division code")
	fs.Int64Var(&f.minPopulation, "min-population", 0,
		"drop places with smaller or unknown population")
	fs.IntVarP(&f.limit, "limit", "l", 0,
		"maximum number of results (default from config)")
	fs.BoolVarP(&f.adminNames, "admin-names", "a", false,
		"add names of administrative divisions")
	fs.StringVarP(&f.order, "order", "o", "",
		"order of results: population, relevance, distance")
	fs.StringVar(&f.near, "near", "",
		"find places nearest to 'lat,lon'")
	fs.StringVar(&f.bbox, "bbox", "",
		"find places inside 'north,east,south,west'")
	fs.Int64Var(&f.id, "id", 0,
		"get one place by its GeoNames id")
	fs.StringVar(&f.children, "children", "",
		"find places under a code path 'CC[.A1[.A2...]]'")

	return searchCmd
}

func runSearch(cmd *cobra.Command, args []string, f searchFlags) error {
	mode, err := f.mode(args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	var sOpts []iosearch.Option
	if c := openCache(ctx); c != nil {
		defer c.Close()
		sOpts = append(sOpts, iosearch.OptCache(c))
	}
	s := iosearch.New(op, cfg, sOpts...)

	opts := f.options()
	var res any
	switch mode {
	case "near":
		pt, err := parsePoint(f.near)
		if err != nil {
			return err
		}
		res, err = s.FindNearest(ctx, pt, opts)
		if err != nil {
			return err
		}
	case "bbox":
		box, err := parseBBox(f.bbox)
		if err != nil {
			return err
		}
		res, err = s.FindInBoundingBox(ctx, box, opts)
		if err != nil {
			return err
		}
	case "id":
		place, err := s.GetByID(ctx, f.id, opts)
		if err != nil {
			return err
		}
		if place == nil {
			gn.Warn("Place <em>%d</em> is not found", f.id)
			return nil
		}
		res = place
	case "children":
		cc, codes, err := parseCodePath(f.children)
		if err != nil {
			return err
		}
		res, err = s.GetChildren(ctx, cc, codes, opts)
		if err != nil {
			return err
		}
	default:
		res, err = s.Search(ctx, args[0], opts)
		if err != nil {
			return err
		}
	}

	return printJSON(cmd.OutOrStdout(), res)
}
