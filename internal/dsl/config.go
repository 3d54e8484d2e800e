package dsl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/typesystem"
)

// File is the YAML shape of a signature file:
//
//	default_cost: 100
//	prims:
//	  - name: "+"
//	    type: "int -> int -> int"
//	    cost: 100
//	  - name: map
//	    type: "(t0 -> t1) -> (list t0) -> (list t1)"
type File struct {
	// DefaultCost is the cost of primitives absent from Prims. Defaults to
	// config.DefaultPrimCost when omitted.
	DefaultCost int    `yaml:"default_cost,omitempty"`
	Prims       []Prim `yaml:"prims"`
}

// Prim declares one primitive.
type Prim struct {
	// Name is the primitive symbol as it appears in programs.
	Name string `yaml:"name"`
	// Type is the scheme in type surface syntax.
	Type string `yaml:"type"`
	// Cost overrides the default cost when set.
	Cost *int `yaml:"cost,omitempty"`
}

// Load parses a YAML signature file into a Table.
func Load(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	defaultCost := f.DefaultCost
	if defaultCost == 0 {
		defaultCost = config.DefaultPrimCost
	}
	t := NewTable(defaultCost)
	for _, p := range f.Prims {
		if p.Name == "" {
			return nil, fmt.Errorf("signature: prim with empty name")
		}
		tp, err := typesystem.ParseType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("signature: prim %q: %w", p.Name, err)
		}
		cost := defaultCost
		if p.Cost != nil {
			cost = *p.Cost
		}
		t.Define(p.Name, tp, cost)
	}
	return t, nil
}

// LoadFile reads and parses a YAML signature file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return Load(data)
}
