package param

import "fmt"

// Constraint is the capability every parameter constraint must expose
// (spec.md §3: "Constraints are polymorphic over the capability
// {check(value) -> ok | error(reason)}"). Constraints compose left to right;
// the first failure short-circuits (enforced by Template.Apply).
type Constraint interface {
	// Check validates value, returning a non-nil error describing the
	// violation (never wrapped — Template.Apply attaches name/constraint
	// context).
	Check(value any) error
	// Name returns a short identifier for the constraint, used in
	// ConstraintViolationError.
	Name() string
}

// Bound constrains a numeric value to an interval. Either bound may be nil to
// leave that side unconstrained.
type Bound struct {
	Lower, Upper               *float64
	StrictLower, StrictUpper bool
}

func (b Bound) Name() string { return "Bound" }

func (b Bound) Check(value any) error {
	f, err := toFloat(value)
	if err != nil {
		return err
	}
	if b.Lower != nil {
		if b.StrictLower && f <= *b.Lower {
			return fmt.Errorf("must be strictly greater than %v, got %v", *b.Lower, f)
		}
		if !b.StrictLower && f < *b.Lower {
			return fmt.Errorf("must be greater than or equal to %v, got %v", *b.Lower, f)
		}
	}
	if b.Upper != nil {
		if b.StrictUpper && f >= *b.Upper {
			return fmt.Errorf("must be strictly less than %v, got %v", *b.Upper, f)
		}
		if !b.StrictUpper && f > *b.Upper {
			return fmt.Errorf("must be less than or equal to %v, got %v", *b.Upper, f)
		}
	}
	return nil
}

// OneOf constrains a value to one of a fixed set of options, compared with
// fmt.Sprintf("%v", ...) equality to remain agnostic to the underlying type.
type OneOf struct {
	Options []any
}

func (o OneOf) Name() string { return "OneOf" }

func (o OneOf) Check(value any) error {
	for _, opt := range o.Options {
		if fmt.Sprintf("%v", opt) == fmt.Sprintf("%v", value) {
			return nil
		}
	}
	return fmt.Errorf("must be one of %v, got %v", o.Options, value)
}

// PowerOfTwo constrains an integer value to be a strictly positive power of two.
type PowerOfTwo struct{}

func (PowerOfTwo) Name() string { return "PowerOfTwo" }

func (PowerOfTwo) Check(value any) error {
	i, err := toInt(value)
	if err != nil {
		return err
	}
	if i <= 0 || (i&(i-1)) != 0 {
		return fmt.Errorf("must be a power of two, got %v", i)
	}
	return nil
}

// Ready-made constraints for frequent use, supplementing the three named in
// spec.md §3 (original_source/_pconstraints.py's PConstraints dataclass).
var (
	EnforcePositive    = Bound{Lower: f64(0), StrictLower: true}
	EnforceNegative    = Bound{Upper: f64(0), StrictUpper: true}
	EnforceNonNegative = Bound{Lower: f64(0)}
	EnforceNonPositive = Bound{Upper: f64(0)}
)

func f64(v float64) *float64 { return &v }

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a numeric value, got %T", value)
	}
}

func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected an integer value, got %T", value)
	}
}
