package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ordbanken/altmorph/domain/alternatives"
)

// Profile is a reusable set of generator options loaded from a YAML
// file via --profile. Absent fields keep their defaults; explicit flags
// still override a profile.
type Profile struct {
	Lang                   string   `yaml:"lang"`
	TimeoutSeconds         *float64 `yaml:"timeout"`
	MaxWorkers             *int     `yaml:"max_workers"`
	LogitThreshold         *float64 `yaml:"logit_threshold"`
	LemmaThreshold         *int     `yaml:"lemma_threshold"`
	IncludeImperatives     *bool    `yaml:"include_imperatives"`
	IncludeDeterminatives  *bool    `yaml:"include_determinatives"`
	IncludeGenderAdj       *bool    `yaml:"include_gender_adj"`
	IncludeNumberAmbiguous *bool    `yaml:"include_number_ambiguous"`
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return p, nil
}

// Options converts the profile's set fields to generator options.
func (p Profile) Options() ([]alternatives.Option, error) {
	var opts []alternatives.Option

	if p.Lang != "" {
		lang, err := alternatives.ParseLanguage(p.Lang)
		if err != nil {
			return nil, err
		}
		opts = append(opts, alternatives.WithLanguage(lang))
	}
	if p.TimeoutSeconds != nil {
		opts = append(opts, alternatives.WithTimeout(
			time.Duration(*p.TimeoutSeconds*float64(time.Second))))
	}
	if p.MaxWorkers != nil {
		opts = append(opts, alternatives.WithMaxWorkers(*p.MaxWorkers))
	}
	if p.LogitThreshold != nil {
		opts = append(opts, alternatives.WithLogitThreshold(*p.LogitThreshold))
	}
	if p.LemmaThreshold != nil {
		opts = append(opts, alternatives.WithLemmaThreshold(*p.LemmaThreshold))
	}
	if p.IncludeImperatives != nil {
		opts = append(opts, alternatives.WithImperatives(*p.IncludeImperatives))
	}
	if p.IncludeDeterminatives != nil {
		opts = append(opts, alternatives.WithDeterminatives(*p.IncludeDeterminatives))
	}
	if p.IncludeGenderAdj != nil {
		opts = append(opts, alternatives.WithGenderAdj(*p.IncludeGenderAdj))
	}
	if p.IncludeNumberAmbiguous != nil {
		opts = append(opts, alternatives.WithNumberAmbiguous(*p.IncludeNumberAmbiguous))
	}
	return opts, nil
}
