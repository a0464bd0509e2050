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
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iocountry"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/spf13/cobra"
)

// countryView is the printed form of a registered country.
type countryView struct {
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Continent      string     `json:"continent"`
	Enabled        bool       `json:"enabled"`
	LastImportedAt *time.Time `json:"lastImportedAt,omitempty"`
}

func newCountryView(c schema.Country) countryView {
	res := countryView{
		Code:      c.Code,
		Name:      c.Name,
		Continent: c.Continent,
		Enabled:   c.IsEnabled,
	}
	if c.LastImportedAt.Valid {
		t := c.LastImportedAt.Time
		res.LastImportedAt = &t
	}
	return res
}

// getCountriesCmd returns the countries command with its subcommands.
func getCountriesCmd() *cobra.Command {
	countriesCmd := &cobra.Command{
		Use:   "countries",
		Short: "Manage countries selected for synchronization",
		Long: `Enable, disable and list countries that 'gngeo sync' keeps
up to date. Disabling a country keeps its data, use 'gngeo remove'
to delete it.

Examples:
  gngeo countries enable IT FR
  gngeo countries enable --continent OC
  gngeo countries disable FR
  gngeo countries list --enabled`,
	}

	countriesCmd.AddCommand(
		getCountriesEnableCmd(),
		getCountriesDisableCmd(),
		getCountriesListCmd(),
	)
	return countriesCmd
}

func getCountriesEnableCmd() *cobra.Command {
	var continent string

	cmd := &cobra.Command{
		Use:   "enable [CC...]",
		Short: "Enable countries by ISO code or by continent",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCountriesEnable(args, continent)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&continent, "continent", "c", "",
		"enable all countries of a continent (AF, AN, AS, EU, NA, OC, SA)")
	return cmd
}

func runCountriesEnable(codes []string, continent string) error {
	if len(codes) == 0 && continent == "" {
		return errors.New("provide country codes or --continent")
	}

	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := iocountry.New(op)
	if err != nil {
		return err
	}

	var enabled []string
	if continent != "" {
		enabled, err = reg.EnableContinent(ctx, continent)
	} else {
		enabled, err = reg.Enable(ctx, codes)
	}
	if err != nil {
		return err
	}

	gn.Info("Enabled countries: <em>%s</em>", strings.Join(enabled, ", "))
	gn.Info("Run '<em>gngeo sync</em>' to import them")
	return nil
}

func getCountriesDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable CC...",
		Short: "Stop synchronization of countries, data stays",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCountriesDisable(args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runCountriesDisable(codes []string) error {
	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := iocountry.New(op)
	if err != nil {
		return err
	}
	n, err := reg.Disable(ctx, codes)
	if err != nil {
		return err
	}
	gn.Info("Disabled <em>%d</em> countries", n)
	return nil
}

func getCountriesListCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered countries as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCountriesList(cmd, enabledOnly)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&enabledOnly, "enabled", "e", false,
		"list only enabled countries")
	return cmd
}

func runCountriesList(cmd *cobra.Command, enabledOnly bool) error {
	ctx := context.Background()
	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := iocountry.New(op)
	if err != nil {
		return err
	}
	countries, err := reg.List(ctx, enabledOnly)
	if err != nil {
		return err
	}

	res := make([]countryView, len(countries))
	for i, c := range countries {
		res[i] = newCountryView(c)
	}
	return printJSON(cmd.OutOrStdout(), res)
}
