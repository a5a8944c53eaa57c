package model

import (
	"fmt"
	"strings"
)

// Field identifies one of the seven contact inputs.
// The declaration order is the export column order.
type Field int

const (
	Mu Field = iota
	Fn
	V
	R
	Rd
	B
	BPTFE
)

// Fields lists every input in export order.
var Fields = []Field{Mu, Fn, V, R, Rd, B, BPTFE}

var fieldNames = [...]string{"mu", "Fn", "v", "r", "r_d", "b", "b_PTFE"}

var fieldLabels = [...]string{"μ", "Fₙ [N]", "v [m/s]", "r [m]", "r_d [m]", "b [m]", "b_PTFE [m]"}

var fieldUnits = [...]string{"", "N", "m/s", "m", "m", "m", "m"}

func (f Field) Valid() bool {
	return f >= Mu && f <= BPTFE
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Label is the column header used in tables and exports.
func (f Field) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return fieldLabels[f]
}

func (f Field) Unit() string {
	if !f.Valid() {
		return ""
	}
	return fieldUnits[f]
}

// Geometric reports whether the field is a length measured in metres.
func (f Field) Geometric() bool {
	return f == R || f == Rd || f == B || f == BPTFE
}

// MustBePositive reports whether the field feeds a power term and therefore
// has to be strictly positive. Only mu may be zero.
func (f Field) MustBePositive() bool {
	return f.Valid() && f != Mu
}

// ParseField accepts the field name in any case, plus the short aliases
// used in query strings (rd, bptfe).
func ParseField(s string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "mu", "μ":
		return Mu, nil
	case "fn", "f_n":
		return Fn, nil
	case "v":
		return V, nil
	case "r":
		return R, nil
	case "r_d", "rd":
		return Rd, nil
	case "b":
		return B, nil
	case "b_ptfe", "bptfe":
		return BPTFE, nil
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// ContactInputs is one set of inputs for a ΔTc evaluation, SI units.
type ContactInputs struct {
	Mu    float64 `json:"mu"`     // friction coefficient [-]
	Fn    float64 `json:"fn"`     // normal force [N]
	V     float64 `json:"v"`      // sliding velocity [m/s]
	R     float64 `json:"r"`      // sliding radius [m]
	Rd    float64 `json:"r_d"`    // steel disc radius [m]
	B     float64 `json:"b"`      // steel disc thickness [m]
	BPTFE float64 `json:"b_ptfe"` // PTFE thickness [m]
}

// DefaultInputs returns the values the calculator starts with.
func DefaultInputs() ContactInputs {
	return ContactInputs{
		Mu:    DefaultMu,
		Fn:    DefaultFn,
		V:     DefaultV,
		R:     DefaultR,
		Rd:    DefaultRd,
		B:     DefaultB,
		BPTFE: DefaultBPTFE,
	}
}

func (in ContactInputs) Get(f Field) float64 {
	switch f {
	case Mu:
		return in.Mu
	case Fn:
		return in.Fn
	case V:
		return in.V
	case R:
		return in.R
	case Rd:
		return in.Rd
	case B:
		return in.B
	case BPTFE:
		return in.BPTFE
	}
	panic(fmt.Sprintf("model: get on invalid field %d", int(f)))
}

// With returns a copy of in with field f replaced by value.
func (in ContactInputs) With(f Field, value float64) ContactInputs {
	switch f {
	case Mu:
		in.Mu = value
	case Fn:
		in.Fn = value
	case V:
		in.V = value
	case R:
		in.R = value
	case Rd:
		in.Rd = value
	case B:
		in.B = value
	case BPTFE:
		in.BPTFE = value
	default:
		panic(fmt.Sprintf("model: with on invalid field %d", int(f)))
	}
	return in
}

// Values returns the inputs in export order.
func (in ContactInputs) Values() []float64 {
	out := make([]float64, len(Fields))
	for i, f := range Fields {
		out[i] = in.Get(f)
	}
	return out
}

// FromMillimeters converts the geometric fields of an input given in mm to metres.
func FromMillimeters(in ContactInputs) ContactInputs {
	for _, f := range Fields {
		if f.Geometric() {
			in = in.With(f, in.Get(f)/1000)
		}
	}
	return in
}
