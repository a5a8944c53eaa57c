package model

// Defaults and input bounds of the calculator form, SI units.
// The bounds are the range the correlation was fitted on.

const (
	DefaultMu    = 0.1
	DefaultFn    = 100.0
	DefaultV     = 0.25
	DefaultR     = 0.009
	DefaultRd    = 0.025
	DefaultB     = 0.005
	DefaultBPTFE = 0.005

	MinV     = 0.25
	MaxV     = 1.0
	MinR     = 0.009
	MaxR     = 0.019
	MinRd    = 0.025
	MaxRd    = 0.060
	MinB     = 0.005
	MaxB     = 0.015
	MinBPTFE = 0.005
	MaxBPTFE = 0.015
)

// Bound is a closed interval [Min, Max].
type Bound struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b Bound) Contains(x float64) bool {
	return b.Min <= x && x <= b.Max
}

// FormBounds are the bounds of the fields the form restricts.
// mu and Fn are free.
func FormBounds() map[Field]Bound {
	return map[Field]Bound{
		V:     {MinV, MaxV},
		R:     {MinR, MaxR},
		Rd:    {MinRd, MaxRd},
		B:     {MinB, MaxB},
		BPTFE: {MinBPTFE, MaxBPTFE},
	}
}
