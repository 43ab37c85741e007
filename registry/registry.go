// Package registry holds the instruction metadata consulted by id during
// preprocessing and code generation. The compiler core treats unresolvable
// ids as diagnostics, never as fatal errors.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
)

var ErrBadTemplate = errors.New("registry: invalid instruction template")

// Kind distinguishes conditions from actions.
type Kind string

const (
	KindCondition Kind = "condition"
	KindAction    Kind = "action"
)

// InstructionDef describes one instruction type: its parameter arity and
// the code template the generator expands. Templates are text/template
// strings receiving the generated parameter code:
//
//	runtime.keyPressed({{index .Params 0}})
type InstructionDef struct {
	ID       string `yaml:"id"`
	Kind     Kind   `yaml:"kind"`
	Arity    int    `yaml:"arity"`
	Template string `yaml:"template"`
}

// templateData is the context an instruction template executes against.
type templateData struct {
	Params []string
}

// Expand renders the instruction's code template with the given generated
// parameter code. Missing parameters expand to empty strings up to Arity.
func (d InstructionDef) Expand(params []string) (string, error) {
	tmpl, err := template.New(d.ID).Parse(d.Template)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadTemplate, d.ID, err)
	}
	for len(params) < d.Arity {
		params = append(params, "")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Params: params}); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBadTemplate, d.ID, err)
	}
	return buf.String(), nil
}

// Registry resolves instruction metadata by id.
type Registry interface {
	// Instruction returns the definition for id, or false when unknown.
	Instruction(id string) (InstructionDef, bool)

	// Renamed maps a deprecated instruction id to its replacement.
	Renamed(id string) (string, bool)
}

// MapRegistry is the in-memory Registry implementation.
type MapRegistry struct {
	defs    map[string]InstructionDef
	renames map[string]string
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		defs:    make(map[string]InstructionDef),
		renames: make(map[string]string),
	}
}

// Add registers an instruction definition, replacing any previous one.
func (r *MapRegistry) Add(def InstructionDef) {
	r.defs[def.ID] = def
}

// AddRename records a deprecated id and its replacement.
func (r *MapRegistry) AddRename(old, replacement string) {
	r.renames[old] = replacement
}

func (r *MapRegistry) Instruction(id string) (InstructionDef, bool) {
	def, ok := r.defs[id]
	return def, ok
}

func (r *MapRegistry) Renamed(id string) (string, bool) {
	replacement, ok := r.renames[id]
	return replacement, ok
}

// Len returns the number of registered instruction definitions.
func (r *MapRegistry) Len() int { return len(r.defs) }
