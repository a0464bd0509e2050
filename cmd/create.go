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
	"github.com/gnames/gngeo/internal/ioschema"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	var forceCreate, fullText bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create gazetteer database schema",
		Long: `Create the gazetteer database schema from scratch.

This command:
  1. Connects to PostgreSQL or SQLite using configuration settings
  2. Checks for existing tables and prompts for confirmation
  3. Creates tables of places, alternate names, hierarchy edges,
     administrative units, countries and import runs
     (GORM AutoMigrate on PostgreSQL)
  4. Creates lookup indexes and, with --fulltext on PostgreSQL,
     a GIN index for full-text search of alternate names

Use --force to skip confirmation and drop existing tables.

Examples:
  gngeo create
  gngeo create --force
  gngeo create -f --fulltext`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("fulltext") {
				cfg.Update([]config.Option{config.OptSearchUseFullText(fullText)})
			}
			err := runCreate(forceCreate)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&forceCreate, "force", "f",
		false, "drop existing tables without confirmation")
	createCmd.Flags().BoolVar(&fullText, "fulltext",
		false, "create full-text index (PostgreSQL only)")

	return createCmd
}

func runCreate(force bool) error {
	ctx := context.Background()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to <em>%s</em> database", op.Dialect().Name())

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if hasTables {
		if !force {
			gn.Warn("\nWarning: Database contains existing tables.")
			gn.Warn("Creating schema will drop ALL existing tables and data.")
			ok, err := confirm(stdin, "Do you want to continue?")
			if err != nil {
				gn.Warn("Failed to read user input")
				return err
			}
			if !ok {
				gn.Info("Aborted. No changes made.")
				return nil
			}
		}
		gn.Info("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("All tables dropped")
	}

	sm := ioschema.NewManager(op)

	gn.Info("Creating schema...")
	if err := sm.Create(ctx, cfg); err != nil {
		return err
	}

	gn.Info("\nDatabase schema creation complete!")
	gn.Info("\nNext steps:")
	gn.Info("  - Run '<em>gngeo countries enable CC</em>' to select countries")
	gn.Info("  - Run '<em>gngeo sync</em>' to import them")

	return nil
}
