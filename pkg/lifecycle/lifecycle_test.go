package lifecycle_test

import (
	"testing"

	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
)

func TestReconcileResult(t *testing.T) {
	var res lifecycle.ReconcileResult
	assert.Zero(t, res.Total())

	res.Add(lifecycle.ReconcileResult{Inserted: 3, Updated: 1})
	res.Add(lifecycle.ReconcileResult{Updated: 2, Skipped: 4})
	assert.Equal(t, lifecycle.ReconcileResult{Inserted: 3, Updated: 3, Skipped: 4}, res)
	assert.Equal(t, 10, res.Total())
}

func TestSyncModeString(t *testing.T) {
	assert.Equal(t, "NEEDS_FULL", lifecycle.NeedsFull.String())
	assert.Equal(t, "NEEDS_DAILY", lifecycle.NeedsDaily.String())
}
