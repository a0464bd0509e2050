package ioparse_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/ioparse"
	"github.com/gnames/gngeo/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.txt")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestBatches(t *testing.T) {
	content := "# comment\n1\ta\n\n2\tb\r\n3\tc\n4\td\n5\te"
	path := writeFile(t, []byte(content))

	var sizes []int
	var ids []string
	src := ioparse.NewRowSource(path, 2)
	for batch, err := range src.Batches(context.Background()) {
		require.NoError(t, err)
		sizes = append(sizes, len(batch))
		for _, r := range batch {
			ids = append(ids, r[0])
			assert.Len(t, r, 2)
		}
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
}

func TestBatchesEarlyStop(t *testing.T) {
	path := writeFile(t, []byte("1\n2\n3\n4\n"))

	var count int
	src := ioparse.NewRowSource(path, 1)
	for _, err := range src.Batches(context.Background()) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestBatchesCancelled(t *testing.T) {
	path := writeFile(t, []byte("1\n2\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range ioparse.NewRowSource(path, 1).Batches(ctx) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, context.Canceled)
}

func TestBatchesMissingFile(t *testing.T) {
	src := ioparse.NewRowSource(filepath.Join(t.TempDir(), "none.txt"), 10)
	var gotErr error
	for _, err := range src.Batches(context.Background()) {
		gotErr = err
	}
	var gnErr *gn.Error
	require.True(t, errors.As(gotErr, &gnErr))
	assert.Equal(t, errcode.ParseOpenFileError, gnErr.Code)
}

func TestBatchesDecoding(t *testing.T) {
	tests := []struct {
		msg   string
		input []byte
		res   string
	}{
		{"utf8", []byte("Zürich"), "Zürich"},
		{"latin1", []byte("Z\xfcrich"), "Zürich"},
		{"latin1 accents", []byte("S\xe3o Paulo"), "São Paulo"},
	}

	for _, v := range tests {
		path := writeFile(t, append(v.input, '\n'))
		var got string
		for batch, err := range ioparse.NewRowSource(path, 10).Batches(context.Background()) {
			require.NoError(t, err, v.msg)
			got = batch[0][0]
		}
		assert.Equal(t, v.res, got, v.msg)
	}
}
