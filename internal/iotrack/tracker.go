// Package iotrack records import runs in the geo_imports table.
package iotrack

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// maxMessage bounds the stored error message, in code points.
const maxMessage = 4000

// Tracker implements lifecycle.Tracker.
type Tracker struct {
	db    *sqlx.DB
	table string
	now   func() time.Time
}

var _ lifecycle.Tracker = (*Tracker)(nil)

// New creates a Tracker.
func New(op db.Operator) *Tracker {
	return &Tracker{
		db:    op.DB(),
		table: schema.ImportRun{}.TableName(),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Start inserts a running import run.
func (t *Tracker) Start(
	ctx context.Context,
	typ lifecycle.ImportType,
	details string,
) (*schema.ImportRun, error) {
	run := &schema.ImportRun{
		ID:        uuid.NewString(),
		Type:      string(typ),
		Status:    lifecycle.StatusRunning,
		StartedAt: t.now(),
		Details:   details,
	}
	q := "INSERT INTO " + t.table + " (id, type, status, started_at, details)" +
		" VALUES (:id, :type, :status, :started_at, :details)"
	if _, err := t.db.NamedExecContext(ctx, q, run); err != nil {
		return nil, StartError(run.Type, err)
	}
	slog.Info("Import started", "id", run.ID, "type", run.Type,
		"details", details)
	return run, nil
}

// Progress raises records_processed of a running run. Smaller numbers
// are ignored.
func (t *Tracker) Progress(
	ctx context.Context,
	run *schema.ImportRun,
	n int64,
) error {
	q := t.db.Rebind("UPDATE " + t.table + " SET records_processed = ?" +
		" WHERE id = ? AND status = ? AND records_processed <= ?")
	_, err := t.db.ExecContext(ctx, q, n, run.ID, lifecycle.StatusRunning, n)
	if err != nil {
		return UpdateError(run.ID, err)
	}
	run.RecordsProcessed = max(run.RecordsProcessed, n)
	return nil
}

// Complete closes the run as completed.
func (t *Tracker) Complete(
	ctx context.Context,
	run *schema.ImportRun,
	n int64,
) error {
	err := t.close(ctx, run, lifecycle.StatusCompleted, max(n, run.RecordsProcessed),
		sql.NullString{})
	if err != nil {
		return err
	}
	slog.Info("Import completed", "id", run.ID, "type", run.Type,
		"records", run.RecordsProcessed)
	return nil
}

// Fail closes the run as failed and stores the error message.
func (t *Tracker) Fail(
	ctx context.Context,
	run *schema.ImportRun,
	cause error,
) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	msg = truncate(msg, maxMessage)
	err := t.close(ctx, run, lifecycle.StatusFailed, run.RecordsProcessed,
		sql.NullString{String: msg, Valid: true})
	if err != nil {
		return err
	}
	slog.Error("Import failed", "id", run.ID, "type", run.Type, "error", msg)
	return nil
}

// close moves a running run into a terminal state. Only one close can
// match the running status, later ones get ErrRunClosed.
func (t *Tracker) close(
	ctx context.Context,
	run *schema.ImportRun,
	status string,
	n int64,
	msg sql.NullString,
) error {
	ended := t.now()
	q := t.db.Rebind("UPDATE " + t.table +
		" SET status = ?, ended_at = ?, records_processed = ?, error_message = ?" +
		" WHERE id = ? AND status = ?")
	res, err := t.db.ExecContext(ctx, q,
		status, ended, n, msg, run.ID, lifecycle.StatusRunning)
	if err != nil {
		return UpdateError(run.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return UpdateError(run.ID, err)
	}
	if rows == 0 {
		var current string
		q = t.db.Rebind("SELECT status FROM " + t.table + " WHERE id = ?")
		if err = t.db.GetContext(ctx, &current, q, run.ID); err != nil {
			return UpdateError(run.ID, err)
		}
		run.Status = current
		return ClosedError(run.ID, current)
	}

	run.Status = status
	run.EndedAt = sql.NullTime{Time: ended, Valid: true}
	run.RecordsProcessed = n
	run.ErrorMessage = msg
	return nil
}

// Recent returns the latest runs, newest first.
func (t *Tracker) Recent(
	ctx context.Context,
	limit int,
) ([]schema.ImportRun, error) {
	var res []schema.ImportRun
	q := t.db.Rebind("SELECT * FROM " + t.table +
		" ORDER BY started_at DESC, id LIMIT ?")
	if err := t.db.SelectContext(ctx, &res, q, max(1, limit)); err != nil {
		return nil, ReadError(err)
	}
	return res, nil
}

// truncate cuts s to at most n code points.
func truncate(s string, n int) string {
	var count int
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
