package param

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLayout is returned by NewStore for a layout that cannot be
// turned into a store.
var ErrInvalidLayout = errors.New("param: invalid layout")

// Kind distinguishes continuous from discrete parameters.
type Kind int

const (
	// KindFloat is a continuous parameter with a Range.
	KindFloat Kind = iota
	// KindChoice is a discrete parameter selecting one of a list of names.
	KindChoice
)

// String returns "float" or "choice".
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindChoice:
		return "choice"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec declares one parameter. It is implemented by FloatSpec and
// ChoiceSpec.
type Spec interface {
	ParamName() string
	ParamKind() Kind
	validate() error
}

// FloatSpec declares a continuous parameter.
type FloatSpec struct {
	Name    string
	Range   Range
	Default float64
	Unit    string
}

// ParamName returns the parameter name.
func (s FloatSpec) ParamName() string { return s.Name }

// ParamKind returns KindFloat.
func (FloatSpec) ParamKind() Kind { return KindFloat }

func (s FloatSpec) validate() error {
	err := s.Range.Validate()
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidLayout, s.Name, err)
	}

	if !s.Range.Contains(s.Default) {
		return fmt.Errorf("%w: %q default %g outside [%g, %g]",
			ErrInvalidLayout, s.Name, s.Default, s.Range.Min, s.Range.Max)
	}

	return nil
}

// ChoiceSpec declares a discrete parameter. Default is an index into
// Choices.
type ChoiceSpec struct {
	Name    string
	Choices []string
	Default int
}

// ParamName returns the parameter name.
func (s ChoiceSpec) ParamName() string { return s.Name }

// ParamKind returns KindChoice.
func (ChoiceSpec) ParamKind() Kind { return KindChoice }

func (s ChoiceSpec) validate() error {
	if len(s.Choices) == 0 {
		return fmt.Errorf("%w: %q has no choices", ErrInvalidLayout, s.Name)
	}

	if s.Default < 0 || s.Default >= len(s.Choices) {
		return fmt.Errorf("%w: %q default index %d outside [0, %d)",
			ErrInvalidLayout, s.Name, s.Default, len(s.Choices))
	}

	return nil
}

// Layout is an ordered list of parameter declarations.
type Layout []Spec

// Validate checks every spec and rejects empty or duplicate names.
func (l Layout) Validate() error {
	seen := make(map[string]struct{}, len(l))

	for i, s := range l {
		if s == nil {
			return fmt.Errorf("%w: nil spec at %d", ErrInvalidLayout, i)
		}

		name := s.ParamName()
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty name at %d", ErrInvalidLayout, i)
		}

		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidLayout, name)
		}

		seen[name] = struct{}{}

		err := s.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// Names returns the parameter names in layout order.
func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, s := range l {
		names[i] = s.ParamName()
	}

	return names
}
