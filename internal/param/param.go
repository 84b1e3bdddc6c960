// Package param implements the Parameter/Parameters/ParameterTemplate/
// CaptureTemplate system of spec.md §3/§4.1: a typed, constrained value store
// that every parameter — whether it originated from a CLI "KEY=VALUE" string, a
// JSON capture config, or a programmatic caller — passes through identically
// before it reaches an STFFT or a receiver driver.
package param

import (
	"fmt"

	"github.com/jfitzpatrick/spectre/internal/errs"
)

// Parameter is a named, optionally-nil value.
type Parameter struct {
	Name  string
	Value any
}

// Parameters is an ordered mapping from name to Parameter. Name uniqueness is
// an invariant enforced by Add.
type Parameters struct {
	order []string
	byName map[string]Parameter
}

// NewParameters returns an empty Parameters collection.
func NewParameters() *Parameters {
	return &Parameters{byName: make(map[string]Parameter)}
}

// Add inserts a parameter, failing if name is already present.
func (p *Parameters) Add(name string, value any) error {
	if _, exists := p.byName[name]; exists {
		return fmt.Errorf("param: parameter %q already exists", name)
	}
	p.order = append(p.order, name)
	p.byName[name] = Parameter{Name: name, Value: value}
	return nil
}

// Set overwrites the value of an existing parameter, or adds it if absent.
func (p *Parameters) Set(name string, value any) {
	if _, exists := p.byName[name]; !exists {
		p.order = append(p.order, name)
	}
	p.byName[name] = Parameter{Name: name, Value: value}
}

// Get returns the parameter with name, and whether it was present.
func (p *Parameters) Get(name string) (Parameter, bool) {
	v, ok := p.byName[name]
	return v, ok
}

// Names lists the parameter names in insertion order.
func (p *Parameters) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Len returns the number of stored parameters.
func (p *Parameters) Len() int { return len(p.order) }

// Clone returns a deep-enough copy (values are not deep-copied, since they are
// expected to be immutable scalars/slices assigned once).
func (p *Parameters) Clone() *Parameters {
	c := NewParameters()
	for _, name := range p.order {
		c.order = append(c.order, name)
		c.byName[name] = p.byName[name]
	}
	return c
}

// ToMap converts Parameters to a plain map, for JSON encoding at the
// capture-config boundary (spec.md §9: "the string-keyed runtime form is
// confined to the boundary; the interior uses typed values").
func (p *Parameters) ToMap() map[string]any {
	m := make(map[string]any, len(p.order))
	for _, name := range p.order {
		m[name] = p.byName[name].Value
	}
	return m
}

// FromMap builds a Parameters from a plain map. Key order is not preserved
// since map iteration order is not defined; callers that need deterministic
// order should use Add directly.
func FromMap(m map[string]any) *Parameters {
	p := NewParameters()
	for k, v := range m {
		p.Set(k, v)
	}
	return p
}

// MissingParameterError reports which parameter name was absent with no
// default and not nullable.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("param: %q is missing and has no default", e.Name)
}
func (e *MissingParameterError) Unwrap() error { return errs.ErrMissingParameter }

// ConstraintViolationError names the constraint and the reason it failed.
type ConstraintViolationError struct {
	Name       string
	Constraint string
	Reason     string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("param: %q violates %s: %s", e.Name, e.Constraint, e.Reason)
}
func (e *ConstraintViolationError) Unwrap() error { return errs.ErrConstraintViolation }

// InvalidTypeError reports a coercion failure.
type InvalidTypeError struct {
	Name   string
	Reason string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("param: %q has invalid type: %s", e.Name, e.Reason)
}
func (e *InvalidTypeError) Unwrap() error { return errs.ErrInvalidParameter }

// DefaultEnforcedError reports that EnforceDefault rejected a supplied value
// that differed from the template default.
type DefaultEnforcedError struct {
	Name     string
	Default  any
	Supplied any
}

func (e *DefaultEnforcedError) Error() string {
	return fmt.Sprintf("param: %q must equal its enforced default %v, got %v", e.Name, e.Default, e.Supplied)
}
func (e *DefaultEnforcedError) Unwrap() error { return errs.ErrDefaultEnforced }
