// Package service contains the application-level drivers behind the CLI
// commands: the batch augmentation run and the dataset probe.
package service

import (
	"context"

	"github.com/ordbanken/altmorph/domain/alternatives"
	"github.com/ordbanken/altmorph/domain/record"
	"github.com/ordbanken/altmorph/infrastructure/jsonl"
	"github.com/ordbanken/altmorph/internal/log"
)

// debugTextLimit bounds how much record text ends up in debug output.
const debugTextLimit = 50

// Batch drives one augmentation run: read records, generate alternatives
// for each, write augmented copies. Records are handled strictly in input
// order by a single goroutine; per-record failures are logged and counted
// while the run continues.
type Batch struct {
	generator alternatives.Generator
	textField string
	altField  string
	logger    *log.Logger
}

// BatchOption is a functional option for Batch.
type BatchOption func(*Batch)

// WithTextField sets the field the source text is read from.
func WithTextField(field string) BatchOption {
	return func(b *Batch) {
		if field != "" {
			b.textField = field
		}
	}
}

// WithAltField sets the field the alternatives are written to.
func WithAltField(field string) BatchOption {
	return func(b *Batch) {
		if field != "" {
			b.altField = field
		}
	}
}

// WithLogger sets the diagnostic sink.
func WithLogger(l *log.Logger) BatchOption {
	return func(b *Batch) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBatch creates a batch driver around a generator.
func NewBatch(generator alternatives.Generator, opts ...BatchOption) *Batch {
	b := &Batch{
		generator: generator,
		textField: "text",
		altField:  "alt",
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run processes every line of src and writes the augmented records to
// dst. It returns the summary counters together with the error that
// stopped the run early, if any. Write failures and context cancellation
// abort the run; anything that breaks a single record is logged, counted
// and skipped.
func (b *Batch) Run(ctx context.Context, src *jsonl.Reader, dst *jsonl.Writer) (alternatives.Summary, error) {
	var summary alternatives.Summary

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		line, ok := src.Next()
		if !ok {
			break
		}

		b.logger.Debug("processing line",
			"line", line.Number,
			"text", truncate(line.Text, debugTextLimit))

		rec, err := record.Decode([]byte(line.Text))
		if err != nil {
			b.logger.Warn("skipping line: not a JSON object", "line", line.Number, "error", err)
			summary.RecordError()
			continue
		}

		text, err := rec.Text(b.textField)
		if err != nil {
			b.logger.Warn("skipping record: unusable text field",
				"line", line.Number, "field", b.textField, "error", err)
			summary.RecordError()
			continue
		}

		alt, err := b.generator.Generate(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			genErr := &alternatives.GenerationError{Cause: err}
			b.logger.Warn("skipping record: generation failed",
				"line", line.Number, "error", genErr)
			summary.RecordError()
			continue
		}

		if b.logger.Verbosity() >= 3 {
			b.logger.Debug("generated alternatives", "line", line.Number, "alt", alt)
		}

		augmented, err := rec.Set(b.altField, alt)
		if err != nil {
			b.logger.Warn("skipping record: cannot attach alternatives",
				"line", line.Number, "error", err)
			summary.RecordError()
			continue
		}

		if err := dst.Write(augmented); err != nil {
			return summary, err
		}
		summary.RecordProcessed()
	}

	if err := src.Err(); err != nil {
		return summary, err
	}

	b.logger.Info("processing complete",
		"processed", summary.Processed(),
		"errors", summary.Errors())
	return summary, nil
}

// truncate shortens s to at most limit runes, marking the cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
