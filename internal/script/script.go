// Package script describes WOQL queries as YAML step lists.
//
// A script replays a fluent chain one call per step:
//
//	name: paged-report
//	steps:
//	  - {op: limit, args: [10]}
//	  - {op: select, args: ["v:X"]}
//	  - {op: triple, args: ["v:X", "type", "scm:Report"]}
//
// Steps whose operator takes sub-queries (and, or, opt, not, when, update,
// ...) list them under queries, each a nested step list.
package script

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a named query description.
type Script struct {
	// Name identifies the script in history and CLI output.
	Name string `yaml:"name"`

	// Description explains what the query is for.
	Description string `yaml:"description,omitempty"`

	// Steps are replayed in order on a new builder.
	Steps []Step `yaml:"steps"`
}

// Step is one builder call.
type Step struct {
	// Op is the snake_case operator name, e.g. "add_triple" or "set_page".
	Op string `yaml:"op"`

	// Args are positional arguments. Mappings pass through as literals,
	// e.g. {"@value": "x", "@type": "xsd:string"}.
	Args []any `yaml:"args,omitempty"`

	// Queries are sub-queries, each a step list.
	Queries [][]Step `yaml:"queries,omitempty"`
}

// Load reads and parses a script file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is missing required fields.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script with strict field validation.
func Parse(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScript(&s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	return &s, nil
}

// validateScript checks required fields and that every op is known.
func validateScript(s *Script) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	return validateSteps("steps", s.Steps)
}

func validateSteps(where string, steps []Step) error {
	for i, step := range steps {
		at := fmt.Sprintf("%s[%d]", where, i)
		if step.Op == "" {
			return fmt.Errorf("%s: op is required", at)
		}
		if _, ok := operations[step.Op]; !ok {
			return fmt.Errorf("%s: unknown op %q", at, step.Op)
		}
		for j, sub := range step.Queries {
			if len(sub) == 0 {
				return fmt.Errorf("%s.queries[%d]: empty sub-query", at, j)
			}
			if err := validateSteps(fmt.Sprintf("%s.queries[%d]", at, j), sub); err != nil {
				return err
			}
		}
	}
	return nil
}
