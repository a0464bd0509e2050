// Package ioparse streams tab-separated GeoNames dumps in batches and
// maps their rows to schema records.
package ioparse

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gnlib"
	"golang.org/x/text/encoding/charmap"
)

// readerSize is the buffer of the line reader. Lines longer than the
// buffer are still read whole.
const readerSize = 1 << 20

// Row is one line of a dump split on tabs.
type Row []string

// RowSource reads a dump file in batches of rows.
type RowSource struct {
	path      string
	batchSize int
}

// NewRowSource creates a source for a dump file. Non-positive batchSize
// means 1000 rows per batch.
func NewRowSource(path string, batchSize int) *RowSource {
	if batchSize <= 0 {
		batchSize = 1_000
	}
	return &RowSource{path: path, batchSize: batchSize}
}

// Batches returns an iterator over batches of rows. Empty lines and
// lines starting with '#' are skipped. The file is opened when iteration
// starts and closed when it ends, even if the consumer stops early.
// A non-nil error ends the iteration.
func (s *RowSource) Batches(ctx context.Context) iter.Seq2[[]Row, error] {
	return func(yield func([]Row, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			yield(nil, OpenFileError(s.path, err))
			return
		}
		defer f.Close()

		r := bufio.NewReaderSize(f, readerSize)
		batch := make([]Row, 0, s.batchSize)
		var lineNum int
		for {
			line, err := r.ReadBytes('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				yield(nil, ReadError(s.path, lineNum, err))
				return
			}
			eof := err != nil
			lineNum++

			if row, ok := parseLine(line); ok {
				batch = append(batch, row)
			}

			if len(batch) == s.batchSize || (eof && len(batch) > 0) {
				if err := ctx.Err(); err != nil {
					yield(nil, err)
					return
				}
				if !yield(batch, nil) {
					return
				}
				batch = make([]Row, 0, s.batchSize)
			}
			if eof {
				return
			}
		}
	}
}

func parseLine(line []byte) (Row, bool) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 || line[0] == '#' {
		return nil, false
	}
	return strings.Split(decodeLine(line), "\t"), true
}

// decodeLine returns the line as valid UTF-8. Lines that are not UTF-8
// are taken for Latin-1, whatever remains broken is repaired.
func decodeLine(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	if s, err := charmap.ISO8859_1.NewDecoder().Bytes(b); err == nil &&
		utf8.Valid(s) {
		return string(s)
	}
	return gnlib.FixUtf8(string(b))
}
