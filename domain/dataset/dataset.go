// Package dataset provides the remote-dataset description types consumed
// by the probe: splits, feature schemas, sample rows and the candidate
// field-name heuristics used for manual review.
package dataset

import (
	"context"
	"encoding/json"
	"strings"
)

// Catalog describes a remote dataset host. Implementations decide how
// the description is assembled; failures surface as plain errors.
type Catalog interface {
	// Describe returns the dataset's configs, splits and feature schema.
	// config may be empty, in which case the host's default applies.
	Describe(ctx context.Context, name, config string) (Description, error)

	// SampleRows streams up to limit rows from the given split.
	SampleRows(ctx context.Context, name, config, split string, limit int) ([]Row, error)
}

// Split is one named split of a dataset config.
type Split struct {
	config      string
	name        string
	numExamples int64
}

// NewSplit creates a Split.
func NewSplit(config, name string, numExamples int64) Split {
	return Split{config: config, name: name, numExamples: numExamples}
}

// Config returns the config the split belongs to.
func (s Split) Config() string { return s.config }

// Name returns the split name.
func (s Split) Name() string { return s.name }

// NumExamples returns the example count, or 0 when unknown.
func (s Split) NumExamples() int64 { return s.numExamples }

// Feature is one named feature of a dataset schema. The spec is kept as
// raw JSON so the probe can print it verbatim.
type Feature struct {
	name string
	spec json.RawMessage
}

// NewFeature creates a Feature.
func NewFeature(name string, spec json.RawMessage) Feature {
	return Feature{name: name, spec: spec}
}

// Name returns the feature name.
func (f Feature) Name() string { return f.name }

// Spec returns the raw schema fragment for the feature.
func (f Feature) Spec() json.RawMessage { return f.spec }

// featureSpec is the subset of a feature schema the heuristics need.
type featureSpec struct {
	Type  string `json:"_type"`
	Dtype string `json:"dtype"`
}

// IsStringValue reports whether the feature is a plain string Value
// (dtype "string" or "large_string").
func (f Feature) IsStringValue() bool {
	var spec featureSpec
	if err := json.Unmarshal(f.spec, &spec); err != nil {
		return false
	}
	if spec.Type != "Value" {
		return false
	}
	return spec.Dtype == "string" || spec.Dtype == "large_string"
}

// Description is everything Describe learns about a dataset.
type Description struct {
	name     string
	configs  []string
	splits   []Split
	features []Feature
}

// NewDescription creates a Description; the slices are copied.
func NewDescription(name string, configs []string, splits []Split, features []Feature) Description {
	d := Description{
		name:     name,
		configs:  make([]string, len(configs)),
		splits:   make([]Split, len(splits)),
		features: make([]Feature, len(features)),
	}
	copy(d.configs, configs)
	copy(d.splits, splits)
	copy(d.features, features)
	return d
}

// Name returns the dataset name.
func (d Description) Name() string { return d.name }

// Configs returns the available config names.
func (d Description) Configs() []string {
	configs := make([]string, len(d.configs))
	copy(configs, d.configs)
	return configs
}

// Splits returns the known splits.
func (d Description) Splits() []Split {
	splits := make([]Split, len(d.splits))
	copy(splits, d.splits)
	return splits
}

// Features returns the feature schema.
func (d Description) Features() []Feature {
	features := make([]Feature, len(d.features))
	copy(features, d.features)
	return features
}

// Cell is one named value of a sample row, in row order.
type Cell struct {
	name  string
	value json.RawMessage
}

// NewCell creates a Cell.
func NewCell(name string, value json.RawMessage) Cell {
	return Cell{name: name, value: value}
}

// Name returns the cell's field name.
func (c Cell) Name() string { return c.name }

// Value returns the cell's raw JSON value.
func (c Cell) Value() json.RawMessage { return c.value }

// Row is one sample row with its 0-based index in the split.
type Row struct {
	index int
	cells []Cell
}

// NewRow creates a Row; the cell slice is copied.
func NewRow(index int, cells []Cell) Row {
	r := Row{index: index, cells: make([]Cell, len(cells))}
	copy(r.cells, cells)
	return r
}

// Index returns the row's position in the split.
func (r Row) Index() int { return r.index }

// Cells returns the row's values in field order.
func (r Row) Cells() []Cell {
	cells := make([]Cell, len(r.cells))
	copy(cells, r.cells)
	return cells
}

// Field names that commonly carry the transcript text in speech and text
// corpora, and names that commonly carry a stable identifier.
var (
	textFieldNames = map[string]bool{
		"text":            true,
		"transcription":   true,
		"sentence":        true,
		"normalized_text": true,
		"target_text":     true,
	}
	idFieldNames = map[string]bool{
		"id":           true,
		"audio_id":     true,
		"utt_id":       true,
		"utterance_id": true,
		"segment_id":   true,
		"sample_id":    true,
		"guid":         true,
	}
)

// TextFieldCandidates returns the names of string-typed features that
// look like the record text field, in schema order.
func TextFieldCandidates(features []Feature) []string {
	candidates := []string{}
	for _, f := range features {
		if f.IsStringValue() && textFieldNames[strings.ToLower(f.Name())] {
			candidates = append(candidates, f.Name())
		}
	}
	return candidates
}

// IDFieldCandidates returns the names of features that look like a row
// identifier, in schema order. Identifier columns are matched by name
// only since hosts disagree on their dtype.
func IDFieldCandidates(features []Feature) []string {
	candidates := []string{}
	for _, f := range features {
		if idFieldNames[strings.ToLower(f.Name())] {
			candidates = append(candidates, f.Name())
		}
	}
	return candidates
}
