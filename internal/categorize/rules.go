package categorize

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RulesPath is the rules file location relative to a project root.
var RulesPath = filepath.Join("rules", "categories.yaml")

// File is the on-disk rules document. User rules are matched before the
// built-in rules when UseDefaults is set.
type File struct {
	UseDefaults bool   `yaml:"use_defaults"`
	Rules       []Rule `yaml:"rules"`
}

// Categorizer builds the matcher described by f.
func (f *File) Categorizer() *Categorizer {
	rules := append([]Rule(nil), f.Rules...)
	if f.UseDefaults {
		rules = append(rules, DefaultRules()...)
	}
	return New(rules...)
}

// Validate checks that every rule targets a taxonomy label and has keywords.
// Italian labels are rewritten to their canonical form.
func (f *File) Validate() error {
	for i := range f.Rules {
		r := &f.Rules[i]
		c, ok := Canonical(r.Category)
		if !ok {
			return fmt.Errorf("rule %d: unknown category %q", i+1, r.Category)
		}
		r.Category = c
		if len(r.Keywords) == 0 {
			return fmt.Errorf("rule %d (%s): no keywords", i+1, r.Category)
		}
	}
	return nil
}

// LoadFile reads and validates a rules file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	return &f, nil
}

// SaveFile writes a rules file.
func SaveFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}

// Load returns the categorizer for a project root. A missing rules file
// yields the defaults.
func Load(repoRoot string) (*Categorizer, error) {
	f, err := LoadFile(filepath.Join(repoRoot, RulesPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return f.Categorizer(), nil
}
