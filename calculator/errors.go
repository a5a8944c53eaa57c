package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

var (
	// ErrInvalidInput matches every error caused by the inputs themselves.
	ErrInvalidInput = errors.New("invalid input")

	// ErrZeroInput matches *ZeroInputError.
	ErrZeroInput = errors.New("zero input")

	// ErrOutOfDomain matches *DomainError.
	ErrOutOfDomain = errors.New("input outside the correlation domain")
)

// InvalidInputError reports a value that cannot be raised to its exponent:
// zero, negative or non-finite.
type InvalidInputError struct {
	Field model.Field
	Value float64
}

func (e *InvalidInputError) Error() string {
	if e.Value == 0 {
		return fmt.Sprintf("invalid input: %s is zero", e.Field)
	}
	return fmt.Sprintf("invalid input: %s = %g, must be positive and finite", e.Field, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ZeroInputError lists every field that was zero.
type ZeroInputError struct {
	Fields []model.Field
}

func (e *ZeroInputError) Error() string {
	return "zero input: " + joinFields(e.Fields)
}

func (e *ZeroInputError) Is(target error) bool {
	return target == ErrZeroInput || target == ErrInvalidInput
}

// OutOfRangeError is one field outside its configured domain bound.
type OutOfRangeError struct {
	Field model.Field
	Value float64
	Bound model.Bound
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%s = %g outside [%g, %g]", e.Field, e.Value, e.Bound.Min, e.Bound.Max)
}

// DomainError is returned by a rejecting DomainPolicy.
type DomainError struct {
	Violations []OutOfRangeError
}

func (e *DomainError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Error()
	}
	return "out of domain: " + strings.Join(parts, "; ")
}

func (e *DomainError) Is(target error) bool {
	return target == ErrOutOfDomain || target == ErrInvalidInput
}

// Fields returns the offending fields in order.
func (e *DomainError) Fields() []model.Field {
	fs := make([]model.Field, len(e.Violations))
	for i, v := range e.Violations {
		fs[i] = v.Field
	}
	return fs
}

func joinFields(fs []model.Field) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
