package param

import (
	"fmt"
	"strconv"
)

// Kind names the coercion applied to a parameter's raw value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// coerce converts value to the declared Kind, accepting the loose forms a
// JSON document or a "KEY=VALUE" CLI string can produce (string-encoded
// numbers, float64-from-JSON ints, etc).
func (k Kind) coerce(value any) (any, error) {
	switch k {
	case KindString:
		switch v := value.(type) {
		case string:
			return v, nil
		default:
			return fmt.Sprintf("%v", v), nil
		}
	case KindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != float64(int(v)) {
				return nil, fmt.Errorf("%v is not an integer", v)
			}
			return int(v), nil
		case string:
			i, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to int: %w", v, err)
			}
			return i, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to int", value)
		}
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to float: %w", v, err)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to float", value)
		}
	case KindBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("cannot coerce %q to bool: %w", v, err)
			}
			return b, nil
		default:
			return nil, fmt.Errorf("cannot coerce %T to bool", value)
		}
	default:
		return nil, fmt.Errorf("unknown kind %d", k)
	}
}

// Template is a ParameterTemplate: a type coercion, an optional default, an
// enforce-default flag, a help string, and an ordered list of constraints
// (spec.md §3).
type Template struct {
	Name           string
	Kind           Kind
	Default        any  // nil if there is no default
	HasDefault     bool
	Nullable       bool
	EnforceDefault bool
	Help           string
	Constraints    []Constraint
}

// Apply coerces then validates value against t, implementing
// Template.apply_to (spec.md §4.1). A nil value takes the default when there
// is one; without a default it is returned as nil when Nullable is true and
// fails with MissingParameterError otherwise.
func (t Template) Apply(value any) (any, error) {
	if value == nil {
		if t.HasDefault {
			value = t.Default
		} else if t.Nullable {
			return nil, nil
		} else {
			return nil, &MissingParameterError{Name: t.Name}
		}
	}

	coerced, err := t.Kind.coerce(value)
	if err != nil {
		return nil, &InvalidTypeError{Name: t.Name, Reason: err.Error()}
	}

	if t.EnforceDefault && t.HasDefault {
		defaultCoerced, derr := t.Kind.coerce(t.Default)
		if derr == nil && fmt.Sprintf("%v", defaultCoerced) != fmt.Sprintf("%v", coerced) {
			return nil, &DefaultEnforcedError{Name: t.Name, Default: t.Default, Supplied: value}
		}
	}

	for _, c := range t.Constraints {
		if cerr := c.Check(coerced); cerr != nil {
			return nil, &ConstraintViolationError{Name: t.Name, Constraint: c.Name(), Reason: cerr.Error()}
		}
	}

	return coerced, nil
}

// CaptureTemplate is an ordered mapping from name to Template, defining
// exactly which parameters a capture mode accepts (spec.md §3/§4.1).
type CaptureTemplate struct {
	order     []string
	templates map[string]Template
}

// NewCaptureTemplate returns an empty CaptureTemplate.
func NewCaptureTemplate() *CaptureTemplate {
	return &CaptureTemplate{templates: make(map[string]Template)}
}

// Add registers a parameter template, in declaration order.
func (c *CaptureTemplate) Add(t Template) *CaptureTemplate {
	if _, exists := c.templates[t.Name]; !exists {
		c.order = append(c.order, t.Name)
	}
	c.templates[t.Name] = t
	return c
}

// Names lists template names in declaration order.
func (c *CaptureTemplate) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the template registered under name.
func (c *CaptureTemplate) Get(name string) (Template, bool) {
	t, ok := c.templates[name]
	return t, ok
}

// Apply fills missing names with defaults, then applies each template,
// returning a new validated Parameters or the first failure with the
// offending name (spec.md §4.1 "CaptureTemplate.apply_to").
func (c *CaptureTemplate) Apply(p *Parameters) (*Parameters, error) {
	out := NewParameters()
	for _, name := range c.order {
		t := c.templates[name]
		var raw any
		if existing, ok := p.Get(name); ok {
			raw = existing.Value
		}
		applied, err := t.Apply(raw)
		if err != nil {
			return nil, fmt.Errorf("capture template: parameter %q: %w", name, err)
		}
		if err := out.Add(name, applied); err != nil {
			return nil, err
		}
	}
	return out, nil
}
