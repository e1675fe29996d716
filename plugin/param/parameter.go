package param

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// Parameter is the kind-independent view of a store entry used for
// persistence and generic hosts. Plain values of choice parameters are
// their index.
type Parameter interface {
	Name() string
	Kind() Kind
	Plain() float64
	SetPlain(v float64)
	Normalized() float64
	SetNormalized(v float64)
	DefaultPlain() float64
	Text() string
}

// Float is a continuous parameter handle.
type Float struct {
	spec FloatSpec
	bits atomic.Uint64
}

func newFloat(spec FloatSpec) *Float {
	f := &Float{spec: spec}
	f.bits.Store(math.Float64bits(spec.Default))

	return f
}

// Name returns the parameter name.
func (f *Float) Name() string { return f.spec.Name }

// Kind returns KindFloat.
func (f *Float) Kind() Kind { return KindFloat }

// Unit returns the display unit.
func (f *Float) Unit() string { return f.spec.Unit }

// Range returns the value range.
func (f *Float) Range() Range { return f.spec.Range }

// Get returns the plain value.
func (f *Float) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Set stores v clamped and snapped to the range.
func (f *Float) Set(v float64) {
	f.bits.Store(math.Float64bits(f.spec.Range.Snap(v)))
}

// Normalized returns the value mapped onto [0, 1].
func (f *Float) Normalized() float64 {
	return f.spec.Range.Normalize(f.Get())
}

// SetNormalized stores the plain value for a normalised v.
func (f *Float) SetNormalized(v float64) {
	f.bits.Store(math.Float64bits(f.spec.Range.Denormalize(v)))
}

// Default returns the declared default.
func (f *Float) Default() float64 { return f.spec.Default }

// Plain is Get.
func (f *Float) Plain() float64 { return f.Get() }

// SetPlain is Set.
func (f *Float) SetPlain(v float64) { f.Set(v) }

// DefaultPlain is Default.
func (f *Float) DefaultPlain() float64 { return f.spec.Default }

// Text formats the value with its unit.
func (f *Float) Text() string {
	if f.spec.Unit == "" {
		return fmt.Sprintf("%.2f", f.Get())
	}

	return fmt.Sprintf("%.2f %s", f.Get(), f.spec.Unit)
}

// Choice is a discrete parameter handle.
type Choice struct {
	spec  ChoiceSpec
	index atomic.Int64
}

func newChoice(spec ChoiceSpec) *Choice {
	c := &Choice{spec: spec}
	c.index.Store(int64(spec.Default))

	return c
}

// Name returns the parameter name.
func (c *Choice) Name() string { return c.spec.Name }

// Kind returns KindChoice.
func (c *Choice) Kind() Kind { return KindChoice }

// Choices returns a copy of the choice names.
func (c *Choice) Choices() []string {
	return append([]string(nil), c.spec.Choices...)
}

// Index returns the selected index.
func (c *Choice) Index() int {
	return int(c.index.Load())
}

// SetIndex selects index i, clamped to the valid indices.
func (c *Choice) SetIndex(i int) {
	i = max(0, min(i, len(c.spec.Choices)-1))
	c.index.Store(int64(i))
}

// Selected returns the name of the selected choice.
func (c *Choice) Selected() string {
	return c.spec.Choices[c.Index()]
}

// Select selects the choice named name, case-insensitively. It reports
// whether the name was found.
func (c *Choice) Select(name string) bool {
	for i, choice := range c.spec.Choices {
		if strings.EqualFold(choice, name) {
			c.SetIndex(i)
			return true
		}
	}

	return false
}

// Plain returns the index as a float.
func (c *Choice) Plain() float64 { return float64(c.Index()) }

// SetPlain selects the index nearest to v. NaN selects the default.
func (c *Choice) SetPlain(v float64) {
	if math.IsNaN(v) {
		c.SetIndex(c.spec.Default)
		return
	}

	v = math.Max(math.Min(v, float64(len(c.spec.Choices)-1)), 0)
	c.SetIndex(int(math.Round(v)))
}

// Normalized returns index / (choices - 1), or 0 for a single choice.
func (c *Choice) Normalized() float64 {
	n := len(c.spec.Choices) - 1
	if n == 0 {
		return 0
	}

	return float64(c.Index()) / float64(n)
}

// SetNormalized selects the index nearest to v * (choices - 1).
func (c *Choice) SetNormalized(v float64) {
	if math.IsNaN(v) {
		v = 0
	}

	c.SetPlain(math.Max(math.Min(v, 1), 0) * float64(len(c.spec.Choices)-1))
}

// DefaultPlain returns the default index as a float.
func (c *Choice) DefaultPlain() float64 { return float64(c.spec.Default) }

// Text returns the selected choice name.
func (c *Choice) Text() string { return c.Selected() }
