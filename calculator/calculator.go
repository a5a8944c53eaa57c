package calculator

import (
	"fmt"
	"math"

	"github.com/shoaibsidiki/deltaT-calculator/model"
)

// Contact temperature rise correlation for polymer-steel sliding:
//
//	ΔTc = 0.11 · (μ·Fn) · v^0.71 · r^0.30 · r_d^-1.70 · b^-0.23 · b_PTFE^0.36
const (
	Coefficient   = 0.11
	ExponentV     = 0.71
	ExponentR     = 0.30
	ExponentRd    = -1.70
	ExponentB     = -0.23
	ExponentBPTFE = 0.36
)

// Evaluate computes ΔTc in °C. It is pure and safe for concurrent use.
// Every field except mu must be strictly positive and finite, otherwise an
// *InvalidInputError is returned. A nil error always comes with a finite result.
func Evaluate(in model.ContactInputs) (float64, error) {
	if err := checkFinite(model.Mu, in.Mu); err != nil {
		return 0, err
	}
	for _, f := range model.Fields {
		if !f.MustBePositive() {
			continue
		}
		if err := checkPositive(f, in.Get(f)); err != nil {
			return 0, err
		}
	}

	// same order of operations as the written correlation
	dt := Coefficient * (in.Mu * in.Fn) *
		math.Pow(in.V, ExponentV) *
		math.Pow(in.R, ExponentR) *
		math.Pow(in.Rd, ExponentRd) *
		math.Pow(in.B, ExponentB) *
		math.Pow(in.BPTFE, ExponentBPTFE)

	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0, fmt.Errorf("%w: ΔTc is not finite (%g)", ErrInvalidInput, dt)
	}
	return dt, nil
}

func checkFinite(f model.Field, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return &InvalidInputError{Field: f, Value: x}
	}
	return nil
}

func checkPositive(f model.Field, x float64) error {
	if err := checkFinite(f, x); err != nil {
		return err
	}
	if x <= 0 {
		return &InvalidInputError{Field: f, Value: x}
	}
	return nil
}
