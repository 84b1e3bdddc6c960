package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersAddRejectsDuplicateNames(t *testing.T) {
	p := NewParameters()
	require.NoError(t, p.Add("gain", 10.0))
	err := p.Add("gain", 20.0)
	require.Error(t, err)
}

func TestParametersToMapFromMapRoundTrip(t *testing.T) {
	p := NewParameters()
	require.NoError(t, p.Add("gain", 10.0))
	require.NoError(t, p.Add("mode", "low"))

	m := p.ToMap()
	assert.Equal(t, 10.0, m["gain"])
	assert.Equal(t, "low", m["mode"])

	round := FromMap(m)
	v, ok := round.Get("gain")
	require.True(t, ok)
	assert.Equal(t, 10.0, v.Value)
}

func TestTemplateApplyCoercesAndValidates(t *testing.T) {
	tmpl := Template{
		Name:        "sample_rate",
		Kind:        KindInt,
		Constraints: []Constraint{PowerOfTwo{}},
	}

	v, err := tmpl.Apply("1024")
	require.NoError(t, err)
	assert.Equal(t, 1024, v)

	_, err = tmpl.Apply("1000")
	require.Error(t, err)
	var cv *ConstraintViolationError
	require.ErrorAs(t, err, &cv)
}

func TestTemplateApplyMissingWithoutDefaultFails(t *testing.T) {
	tmpl := Template{Name: "gain", Kind: KindFloat}
	_, err := tmpl.Apply(nil)
	require.Error(t, err)
	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
}

func TestTemplateApplyFillsDefaultWhenMissing(t *testing.T) {
	tmpl := Template{Name: "gain", Kind: KindFloat, Default: 3.0, HasDefault: true}
	v, err := tmpl.Apply(nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}

func TestTemplateApplyNullableAllowsNil(t *testing.T) {
	tmpl := Template{Name: "center_frequency", Kind: KindFloat, Nullable: true}
	v, err := tmpl.Apply(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTemplateApplyEnforceDefaultRejectsDifferentValue(t *testing.T) {
	tmpl := Template{
		Name: "bandwidth", Kind: KindFloat, Default: 1.0, HasDefault: true, EnforceDefault: true,
	}
	_, err := tmpl.Apply(2.0)
	require.Error(t, err)
	var de *DefaultEnforcedError
	require.ErrorAs(t, err, &de)

	v, err := tmpl.Apply(1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestCaptureTemplateApplyFillsMissingAndValidatesAll(t *testing.T) {
	ct := NewCaptureTemplate().
		Add(Template{Name: "gain", Kind: KindFloat, Default: 0.0, HasDefault: true, Constraints: []Constraint{EnforceNonNegative}}).
		Add(Template{Name: "window_size", Kind: KindInt, Constraints: []Constraint{PowerOfTwo{}}})

	p := NewParameters()
	require.NoError(t, p.Add("window_size", 512))

	out, err := ct.Apply(p)
	require.NoError(t, err)

	gain, ok := out.Get("gain")
	require.True(t, ok)
	assert.Equal(t, 0.0, gain.Value)

	ws, ok := out.Get("window_size")
	require.True(t, ok)
	assert.Equal(t, 512, ws.Value)
}

func TestCaptureTemplateApplyReportsOffendingName(t *testing.T) {
	ct := NewCaptureTemplate().
		Add(Template{Name: "gain", Kind: KindFloat, Constraints: []Constraint{EnforceNonNegative}})

	p := NewParameters()
	require.NoError(t, p.Add("gain", -5.0))

	_, err := ct.Apply(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gain")
}

// Round-trip invariant (spec.md §8): applying a template to its own output is
// idempotent.
func TestCaptureTemplateApplyIsIdempotent(t *testing.T) {
	ct := NewCaptureTemplate().
		Add(Template{Name: "hop", Kind: KindInt, Default: 256, HasDefault: true})

	p := NewParameters()
	require.NoError(t, p.Add("hop", 128))

	first, err := ct.Apply(p)
	require.NoError(t, err)
	second, err := ct.Apply(first)
	require.NoError(t, err)

	assert.Equal(t, first.ToMap(), second.ToMap())
}

func TestParseKeyValue(t *testing.T) {
	p, err := ParseKeyValue([]string{"gain=10", "mode=low"})
	require.NoError(t, err)
	v, ok := p.Get("gain")
	require.True(t, ok)
	assert.Equal(t, "10", v.Value)
}

func TestParseKeyValueRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"nogoodhere", "=value", "key="} {
		_, err := ParseKeyValue([]string{bad})
		require.Errorf(t, err, "expected error for %q", bad)
	}
}

func TestBoundConstraint(t *testing.T) {
	b := Bound{Lower: f64(0), Upper: f64(10), StrictUpper: true}
	require.NoError(t, b.Check(5.0))
	require.Error(t, b.Check(-1.0))
	require.Error(t, b.Check(10.0))
}

func TestOneOfConstraint(t *testing.T) {
	o := OneOf{Options: []any{"fixed_center_frequency", "swept_center_frequency"}}
	require.NoError(t, o.Check("fixed_center_frequency"))
	require.Error(t, o.Check("bogus_mode"))
}

func TestPowerOfTwoConstraint(t *testing.T) {
	var c PowerOfTwo
	require.NoError(t, c.Check(512))
	require.Error(t, c.Check(513))
	require.Error(t, c.Check(0))
}
