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
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iocountry"
	"github.com/gnames/gngeo/internal/ioimport"
	"github.com/gnames/gngeo/internal/iosync"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/spf13/cobra"
)

// syncView is the printed form of a sync report.
type syncView struct {
	Full   []string          `json:"full"`
	Daily  []string          `json:"daily"`
	Failed map[string]string `json:"failed,omitempty"`
}

func newSyncView(r lifecycle.SyncReport) syncView {
	res := syncView{Full: r.Full, Daily: r.Daily}
	if len(r.Failed) > 0 {
		res.Failed = make(map[string]string, len(r.Failed))
		for k, v := range r.Failed {
			res.Failed[k] = v.Error()
		}
	}
	return res
}

// getSyncCmd returns the sync command.
func getSyncCmd() *cobra.Command {
	var (
		daemon bool
		hour   int
	)

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize enabled countries with GeoNames",
		Long: `Sync brings every enabled country up to date.

A country that was never imported, or was last imported before
yesterday, is re-imported from its full dump. Other countries get
yesterday's modification and deletion feeds (and alternate-name
feeds when import.alternate_names is set). Full imports run
concurrently, jobs_number countries at a time.

With --daemon the sync repeats every day at the configured hour
until the process is interrupted.

Examples:
  gngeo sync
  gngeo sync --daemon --hour 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("hour") {
				cfg.Update([]config.Option{config.OptSyncHour(hour)})
			}
			err := runSync(cmd, daemon)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	syncCmd.Flags().BoolVarP(&daemon, "daemon", "d", false,
		"repeat the sync every day")
	syncCmd.Flags().IntVar(&hour, "hour", 0,
		"hour of the day (0-23, local time) of the daily sync")
	return syncCmd
}

func runSync(cmd *cobra.Command, daemon bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	op, err := connectSchema(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	reg, err := iocountry.New(op)
	if err != nil {
		return err
	}

	var schedOpts []iosync.Option
	c := openCache(ctx)
	if c != nil {
		defer c.Close()
		schedOpts = append(schedOpts, iosync.OptCache(c))
	}

	im := ioimport.New(cfg, op, ioimport.OptProgress(!daemon))
	sched := iosync.New(cfg, reg, im, schedOpts...)

	if daemon {
		gn.Info("Daily sync at <em>%02d:00</em>, press Ctrl-C to stop", cfg.Sync.Hour)
		err = sched.RunEvery(ctx, cfg.Sync.Hour)
		if errors.Is(err, context.Canceled) {
			gn.Info("Sync daemon stopped")
			return nil
		}
		return err
	}

	report, err := sched.Run(ctx)
	if perr := printJSON(cmd.OutOrStdout(), newSyncView(report)); perr != nil && err == nil {
		err = perr
	}
	return err
}
