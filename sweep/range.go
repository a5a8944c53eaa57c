package sweep

import (
	"fmt"
	"math"
	"strings"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

// Policy tells how Lower and Upper of a RangeSpec are read.
type Policy int

const (
	// Absolute: Lower and Upper are the swept bounds.
	Absolute Policy = iota
	// Relative: Lower and Upper multiply the base value.
	Relative
)

func (p Policy) String() string {
	switch p {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "absolute", "abs", "fixed":
		return Absolute, nil
	case "relative", "rel", "multiplier":
		return Relative, nil
	}
	return 0, fmt.Errorf("unknown range policy %q", s)
}

// RangeSpec describes the samples of one swept dimension.
type RangeSpec struct {
	Policy Policy
	Lower  float64
	Upper  float64
	Count  int
}

func (s RangeSpec) Validate() error {
	if s.Count < 1 {
		return fmt.Errorf("sample count must be at least 1, got %d", s.Count)
	}
	if !finite(s.Lower) || !finite(s.Upper) {
		return fmt.Errorf("range bounds must be finite, got [%g, %g]", s.Lower, s.Upper)
	}
	if s.Lower > s.Upper {
		return fmt.Errorf("range lower %g greater than upper %g", s.Lower, s.Upper)
	}
	return nil
}

// Bounds resolves the spec against a base value.
func (s RangeSpec) Bounds(base float64) (lo, hi float64) {
	if s.Policy == Relative {
		return s.Lower * base, s.Upper * base
	}
	return s.Lower, s.Upper
}

// Samples returns Count linearly spaced values between the resolved bounds.
func (s RangeSpec) Samples(base float64) []float64 {
	lo, hi := s.Bounds(base)
	return Linspace(lo, hi, s.Count)
}

// WithCount returns a copy with another sample count.
func (s RangeSpec) WithCount(n int) RangeSpec {
	s.Count = n
	return s
}

// Linspace returns n evenly spaced samples over [lo, hi].
// The first sample is lo and the last is hi exactly; n == 1 gives [lo].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	out[0] = lo
	if n == 1 {
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := 1; i < n-1; i++ {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

const (
	DefaultCount     = 50
	DefaultGridCount = 25
)

// Defaults is the range table used when a request does not carry its own range.
type Defaults struct {
	Specs     map[model.Field]RangeSpec
	GridCount int
}

// BuiltinDefaults sweeps the bounded fields over their form bounds and the
// free fields (mu, Fn) over half to twice the base value.
func BuiltinDefaults() Defaults {
	specs := make(map[model.Field]RangeSpec, len(model.Fields))
	for f, b := range model.FormBounds() {
		specs[f] = RangeSpec{Policy: Absolute, Lower: b.Min, Upper: b.Max, Count: DefaultCount}
	}
	specs[model.Mu] = RangeSpec{Policy: Relative, Lower: 0.5, Upper: 2, Count: DefaultCount}
	specs[model.Fn] = RangeSpec{Policy: Relative, Lower: 0.5, Upper: 2, Count: DefaultCount}
	return Defaults{Specs: specs, GridCount: DefaultGridCount}
}

// Spec returns the 1D range for f. A field missing from the table falls
// back to the built-in entry.
func (d Defaults) Spec(f model.Field) RangeSpec {
	if s, ok := d.Specs[f]; ok {
		return s
	}
	return BuiltinDefaults().Specs[f]
}

// GridSpec is Spec with the grid sample count.
func (d Defaults) GridSpec(f model.Field) RangeSpec {
	n := d.GridCount
	if n < 1 {
		n = DefaultGridCount
	}
	return d.Spec(f).WithCount(n)
}
