package param

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownParameter is returned when no parameter has the given name.
	ErrUnknownParameter = errors.New("param: unknown parameter")
	// ErrTypeMismatch is returned when a parameter is bound as the wrong kind.
	ErrTypeMismatch = errors.New("param: type mismatch")
)

// Store owns one handle per declared parameter. The set of parameters is
// fixed at construction, so lookups need no locking.
type Store struct {
	params []Parameter
	byName map[string]Parameter
}

// NewStore validates layout and creates a store holding every default.
func NewStore(layout Layout) (*Store, error) {
	err := layout.Validate()
	if err != nil {
		return nil, err
	}

	s := &Store{
		params: make([]Parameter, 0, len(layout)),
		byName: make(map[string]Parameter, len(layout)),
	}

	for _, spec := range layout {
		var p Parameter

		switch spec := spec.(type) {
		case FloatSpec:
			p = newFloat(spec)
		case ChoiceSpec:
			p = newChoice(spec)
		default:
			return nil, fmt.Errorf("%w: unsupported spec %T", ErrInvalidLayout, spec)
		}

		s.params = append(s.params, p)
		s.byName[p.Name()] = p
	}

	return s, nil
}

// Len returns the number of parameters.
func (s *Store) Len() int { return len(s.params) }

// Lookup returns the parameter called name.
func (s *Store) Lookup(name string) (Parameter, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Parameters returns the parameters in layout order.
func (s *Store) Parameters() []Parameter {
	return append([]Parameter(nil), s.params...)
}

// BindFloat returns the handle of the continuous parameter called name.
func (s *Store) BindFloat(name string) (*Float, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	f, ok := p.(*Float)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s parameter", ErrTypeMismatch, name, p.Kind())
	}

	return f, nil
}

// BindChoice returns the handle of the discrete parameter called name.
func (s *Store) BindChoice(name string) (*Choice, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	c, ok := p.(*Choice)
	if !ok {
		return nil, fmt.Errorf("%w: %q is a %s parameter", ErrTypeMismatch, name, p.Kind())
	}

	return c, nil
}

// MustBindFloat is BindFloat that panics on error.
func (s *Store) MustBindFloat(name string) *Float {
	f, err := s.BindFloat(name)
	if err != nil {
		panic(err)
	}

	return f
}

// MustBindChoice is BindChoice that panics on error.
func (s *Store) MustBindChoice(name string) *Choice {
	c, err := s.BindChoice(name)
	if err != nil {
		panic(err)
	}

	return c
}

// Values returns every plain value keyed by name.
func (s *Store) Values() map[string]float64 {
	values := make(map[string]float64, len(s.params))
	for _, p := range s.params {
		values[p.Name()] = p.Plain()
	}

	return values
}

// SetValue sets the plain value of the parameter called name.
func (s *Store) SetValue(name string, plain float64) error {
	p, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	p.SetPlain(plain)

	return nil
}

// SetValues applies every known entry of values and returns the names
// that matched no parameter.
func (s *Store) SetValues(values map[string]float64) (unknown []string) {
	for name, v := range values {
		p, ok := s.byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}

		p.SetPlain(v)
	}

	return unknown
}

// ResetDefaults restores every parameter to its declared default.
func (s *Store) ResetDefaults() {
	for _, p := range s.params {
		switch p := p.(type) {
		case *Float:
			p.bits.Store(math.Float64bits(p.spec.Default))
		case *Choice:
			p.SetIndex(p.spec.Default)
		}
	}
}
