package calculator

import (
	"fmt"
	"strings"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

// Validate rejects inputs where any field other than mu is exactly zero.
// All zero fields are reported, not only the first one.
func Validate(in model.ContactInputs) error {
	var zero []model.Field
	for _, f := range model.Fields {
		if f.MustBePositive() && in.Get(f) == 0 {
			zero = append(zero, f)
		}
	}
	if len(zero) > 0 {
		return &ZeroInputError{Fields: zero}
	}
	return nil
}

// DomainMode decides what happens to inputs outside the fitted range.
type DomainMode int

const (
	DomainIgnore DomainMode = iota
	DomainWarn
	DomainReject
)

func (m DomainMode) String() string {
	switch m {
	case DomainIgnore:
		return "ignore"
	case DomainWarn:
		return "warn"
	case DomainReject:
		return "reject"
	}
	return fmt.Sprintf("DomainMode(%d)", int(m))
}

func ParseDomainMode(s string) (DomainMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off", "":
		return DomainIgnore, nil
	case "warn":
		return DomainWarn, nil
	case "reject":
		return DomainReject, nil
	}
	return 0, fmt.Errorf("unknown domain policy %q", s)
}

// DomainPolicy checks inputs against per-field bounds.
// Fields without a bound are not checked.
type DomainPolicy struct {
	Mode   DomainMode
	Bounds map[model.Field]model.Bound
}

// DefaultDomainPolicy warns when a field leaves the form bounds.
func DefaultDomainPolicy() DomainPolicy {
	return DomainPolicy{
		Mode:   DomainWarn,
		Bounds: model.FormBounds(),
	}
}

// Check returns the violations in field order. With DomainReject and at least
// one violation the error is a *DomainError; with DomainIgnore nothing is checked.
func (p DomainPolicy) Check(in model.ContactInputs) ([]OutOfRangeError, error) {
	if p.Mode == DomainIgnore {
		return nil, nil
	}
	var out []OutOfRangeError
	for _, f := range model.Fields {
		b, ok := p.Bounds[f]
		if !ok {
			continue
		}
		if x := in.Get(f); !b.Contains(x) {
			out = append(out, OutOfRangeError{Field: f, Value: x, Bound: b})
		}
	}
	if len(out) > 0 && p.Mode == DomainReject {
		return out, &DomainError{Violations: out}
	}
	return out, nil
}
