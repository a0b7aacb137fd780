package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/ordbanken/altmorph/domain/record"
)

// Writer appends records to an output file, one compact JSON object per
// line. Output is buffered; Close flushes.
type Writer struct {
	closer io.Closer
	bw     *bufio.Writer
}

// Create creates or truncates the output file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// NewWriter wraps an arbitrary stream. Close flushes but does not close
// the underlying writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Write encodes one record and appends it as a line.
func (w *Writer) Write(rec record.Record) error {
	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if _, err := w.bw.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Close flushes buffered output and releases the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
