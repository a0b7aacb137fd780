// Package alternatives defines the contract between the batch driver and
// the external morphological-alternatives generator. The generator itself
// is a black-box collaborator; this package only carries the knobs it
// accepts and the shape of what it returns.
package alternatives

import (
	"fmt"
	"time"
)

// Language selects which written standard the generator targets.
type Language string

// Supported languages.
const (
	LanguageBokmaal Language = "nob"
	LanguageNynorsk Language = "nno"
)

// ParseLanguage validates a language code from the CLI.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LanguageBokmaal, LanguageNynorsk:
		return Language(s), nil
	}
	return "", fmt.Errorf("alternatives: unsupported language %q (want nob or nno)", s)
}

// Default generator knobs, mirroring the service's own defaults.
const (
	DefaultTimeout        = 6 * time.Second
	DefaultMaxWorkers     = 4
	DefaultLogitThreshold = 3.0
	DefaultLemmaThreshold = 1
)

// Options carries every knob the generator accepts for one invocation.
// The concurrency implied by MaxWorkers is internal to the generator and
// not observable here beyond passing the integer through.
type Options struct {
	language               Language
	timeout                time.Duration
	maxWorkers             int
	verbosity              int
	logitThreshold         float64
	lemmaThreshold         int
	includeImperatives     bool
	includeDeterminatives  bool
	includeGenderAdj       bool
	includeNumberAmbiguous bool
}

// Option is a functional option for Options.
type Option func(*Options)

// WithLanguage sets the target language.
func WithLanguage(l Language) Option {
	return func(o *Options) { o.language = l }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxWorkers sets the generator's parallel-request count.
func WithMaxWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxWorkers = n
		}
	}
}

// WithVerbosity sets the verbosity forwarded to the generator.
// Negative values are clamped to zero.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		if v < 0 {
			v = 0
		}
		o.verbosity = v
	}
}

// WithLogitThreshold sets the acceptability threshold.
func WithLogitThreshold(f float64) Option {
	return func(o *Options) { o.logitThreshold = f }
}

// WithLemmaThreshold bounds how many candidate base forms are allowed
// before a term is filtered to avoid ambiguity.
func WithLemmaThreshold(n int) Option {
	return func(o *Options) { o.lemmaThreshold = n }
}

// WithImperatives toggles imperative alternatives.
func WithImperatives(include bool) Option {
	return func(o *Options) { o.includeImperatives = include }
}

// WithDeterminatives toggles determiner alternatives.
func WithDeterminatives(include bool) Option {
	return func(o *Options) { o.includeDeterminatives = include }
}

// WithGenderAdj toggles gender-dependent adjective alternatives.
func WithGenderAdj(include bool) Option {
	return func(o *Options) { o.includeGenderAdj = include }
}

// WithNumberAmbiguous toggles alternatives for number-ambiguous nouns.
func WithNumberAmbiguous(include bool) Option {
	return func(o *Options) { o.includeNumberAmbiguous = include }
}

// NewOptions creates Options with defaults, then applies opts.
func NewOptions(opts ...Option) Options {
	o := Options{
		language:       LanguageBokmaal,
		timeout:        DefaultTimeout,
		maxWorkers:     DefaultMaxWorkers,
		logitThreshold: DefaultLogitThreshold,
		lemmaThreshold: DefaultLemmaThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Apply returns a copy of the options with opts applied.
func (o Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Language returns the target language.
func (o Options) Language() Language { return o.language }

// Timeout returns the per-call timeout.
func (o Options) Timeout() time.Duration { return o.timeout }

// MaxWorkers returns the generator's parallel-request count.
func (o Options) MaxWorkers() int { return o.maxWorkers }

// Verbosity returns the verbosity forwarded to the generator.
func (o Options) Verbosity() int { return o.verbosity }

// LogitThreshold returns the acceptability threshold.
func (o Options) LogitThreshold() float64 { return o.logitThreshold }

// LemmaThreshold returns the base-form ambiguity bound.
func (o Options) LemmaThreshold() int { return o.lemmaThreshold }

// IncludeImperatives reports whether imperative alternatives are requested.
func (o Options) IncludeImperatives() bool { return o.includeImperatives }

// IncludeDeterminatives reports whether determiner alternatives are requested.
func (o Options) IncludeDeterminatives() bool { return o.includeDeterminatives }

// IncludeGenderAdj reports whether gender-dependent adjective alternatives
// are requested.
func (o Options) IncludeGenderAdj() bool { return o.includeGenderAdj }

// IncludeNumberAmbiguous reports whether number-ambiguous noun alternatives
// are requested.
func (o Options) IncludeNumberAmbiguous() bool { return o.includeNumberAmbiguous }
