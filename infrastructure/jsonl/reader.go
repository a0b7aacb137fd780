// Package jsonl reads and writes line-delimited JSON files: one JSON
// object per line, UTF-8, blank lines ignored on input.
package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Scanner sizing; input lines can carry long transcript texts.
const (
	initialBufSize = 64 * 1024
	maxLineSize    = 16 * 1024 * 1024
)

// Line is one non-blank input line together with its physical 1-based
// position in the file, for diagnostics.
type Line struct {
	Number int
	Text   string
}

// Reader yields the non-blank lines of an input file lazily. It is
// finite and non-restartable; the underlying file is held open for the
// duration of iteration and released by Close.
type Reader struct {
	closer io.Closer
	sc     *bufio.Scanner
	line   int
}

// Open opens a JSONL file for reading. It fails before any record is
// yielded when the path does not exist; the error wraps fs.ErrNotExist.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// NewReader wraps an arbitrary stream. Close is a no-op for readers
// created this way.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialBufSize), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next non-blank line. ok is false when the input is
// exhausted or reading failed; check Err to tell the two apart. Blank
// lines still advance the physical line number.
func (r *Reader) Next() (Line, bool) {
	for r.sc.Scan() {
		r.line++
		text := strings.TrimSpace(r.sc.Text())
		if text == "" {
			continue
		}
		return Line{Number: r.line, Text: text}, true
	}
	return Line{}, false
}

// Err returns the first error encountered while scanning, if any.
func (r *Reader) Err() error {
	if err := r.sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
