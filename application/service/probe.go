package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ordbanken/altmorph/domain/dataset"
	"github.com/ordbanken/altmorph/domain/record"
	"github.com/ordbanken/altmorph/internal/log"
)

// Probe failure stages, distinguished so the CLI can map them to
// distinct exit codes.
var (
	ErrDescribeFailed = errors.New("describe dataset failed")
	ErrStreamFailed   = errors.New("stream sample rows failed")
)

// previewLimit bounds the rendered length of each sample cell.
const previewLimit = 160

// ProbeParams selects what the probe inspects.
type ProbeParams struct {
	Dataset string
	Config  string
	Split   string
	MaxRows int
}

// Probe inspects a remote dataset and writes a human-readable report:
// basic info, the feature schema, a few sample rows and field-name
// heuristics for picking the text and id columns.
type Probe struct {
	catalog dataset.Catalog
	out     io.Writer
	logger  *log.Logger
}

// ProbeOption is a functional option for Probe.
type ProbeOption func(*Probe)

// WithProbeLogger sets the diagnostic sink.
func WithProbeLogger(l *log.Logger) ProbeOption {
	return func(p *Probe) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProbe creates a probe writing its report to out.
func NewProbe(catalog dataset.Catalog, out io.Writer, opts ...ProbeOption) *Probe {
	p := &Probe{catalog: catalog, out: out, logger: log.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run produces the full report. A failure while describing the dataset
// wraps ErrDescribeFailed; a failure while fetching sample rows wraps
// ErrStreamFailed. The report written before the failure stays on out.
func (p *Probe) Run(ctx context.Context, params ProbeParams) error {
	p.logger.Info("probing dataset", "dataset", params.Dataset, "config", params.Config)

	desc, err := p.catalog.Describe(ctx, params.Dataset, params.Config)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDescribeFailed, err)
	}

	if err := p.printBasicInfo(desc); err != nil {
		return err
	}
	if err := p.printFeatures(desc); err != nil {
		return err
	}

	split := p.pickSplit(params.Split, desc.Splits())
	if split == "" {
		fmt.Fprintln(p.out, "# no splits available, skipping sample rows")
	} else {
		rows, err := p.catalog.SampleRows(ctx, params.Dataset, params.Config, split, params.MaxRows)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStreamFailed, err)
		}
		if err := p.printRows(split, rows); err != nil {
			return err
		}
	}

	return p.printHeuristics(desc.Features())
}

// pickSplit returns the requested split, or falls back to "train" when
// present and otherwise the first known split.
func (p *Probe) pickSplit(requested string, splits []dataset.Split) string {
	if requested != "" {
		return requested
	}
	if len(splits) == 0 {
		return ""
	}
	chosen := splits[0].Name()
	for _, s := range splits {
		if s.Name() == "train" {
			chosen = "train"
			break
		}
	}
	fmt.Fprintf(p.out, "# no split specified, using %q\n", chosen)
	return chosen
}

type basicInfo struct {
	Dataset string      `json:"dataset"`
	Configs []string    `json:"configs"`
	Splits  []splitInfo `json:"splits"`
}

type splitInfo struct {
	Config      string `json:"config"`
	Split       string `json:"split"`
	NumExamples int64  `json:"num_examples,omitempty"`
}

func (p *Probe) printBasicInfo(desc dataset.Description) error {
	fmt.Fprintln(p.out, "# === DATASET BASIC INFO ===")

	info := basicInfo{
		Dataset: desc.Name(),
		Configs: desc.Configs(),
		Splits:  []splitInfo{},
	}
	for _, s := range desc.Splits() {
		info.Splits = append(info.Splits, splitInfo{
			Config:      s.Config(),
			Split:       s.Name(),
			NumExamples: s.NumExamples(),
		})
	}
	return p.printJSON(info)
}

func (p *Probe) printFeatures(desc dataset.Description) error {
	fmt.Fprintln(p.out, "# === FEATURES (schema) ===")

	schema := record.Record{}
	for _, f := range desc.Features() {
		var err error
		schema, err = schema.Set(f.Name(), f.Spec())
		if err != nil {
			return fmt.Errorf("render features: %w", err)
		}
	}
	return p.printRecord(schema)
}

func (p *Probe) printRows(split string, rows []dataset.Row) error {
	fmt.Fprintf(p.out, "# === FIRST %d ROWS (split=%s) ===\n", len(rows), split)

	for _, row := range rows {
		line, err := renderRow(row)
		if err != nil {
			return fmt.Errorf("render row %d: %w", row.Index(), err)
		}
		if err := p.printRecord(line); err != nil {
			return err
		}
	}
	return nil
}

// renderRow reduces one sample row to {row, keys, preview}, keeping the
// row's own field order in both keys and preview.
func renderRow(row dataset.Row) (record.Record, error) {
	keys := make([]string, 0, len(row.Cells()))
	preview := record.Record{}
	for _, cell := range row.Cells() {
		keys = append(keys, cell.Name())
		var err error
		preview, err = preview.Set(cell.Name(), previewValue(cell.Value()))
		if err != nil {
			return record.Record{}, err
		}
	}
	previewRaw, err := preview.Encode()
	if err != nil {
		return record.Record{}, err
	}

	line := record.Record{}
	for _, step := range []struct {
		key   string
		value any
	}{
		{"row", row.Index()},
		{"keys", keys},
		{"preview", json.RawMessage(previewRaw)},
	} {
		line, err = line.Set(step.key, step.value)
		if err != nil {
			return record.Record{}, err
		}
	}
	return line, nil
}

type heuristics struct {
	PossibleTextFields []string `json:"possible_text_fields"`
	PossibleIDFields   []string `json:"possible_id_fields"`
}

func (p *Probe) printHeuristics(features []dataset.Feature) error {
	fmt.Fprintln(p.out, "# === HEURISTICS ===")
	return p.printJSON(heuristics{
		PossibleTextFields: dataset.TextFieldCandidates(features),
		PossibleIDFields:   dataset.IDFieldCandidates(features),
	})
}

func (p *Probe) printJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (p *Probe) printRecord(rec record.Record) error {
	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if _, err := fmt.Fprintf(p.out, "%s\n", data); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// previewValue renders one cell for the sample-row report: strings are
// truncated, composite values are reduced to a placeholder and scalars
// pass through.
func previewValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		return "<object>"
	case '[':
		return "<array>"
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "<invalid>"
		}
		return truncate(s, previewLimit)
	default:
		return raw
	}
}
