package result

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// DeltaTLabel is the header of the ΔTc column.
const DeltaTLabel = "ΔT [°C]"

// Record is one exportable row: the seven inputs followed by ΔTc.
type Record struct {
	Inputs  model.ContactInputs
	DeltaTc float64
}

// Header returns the column names in export order.
func Header() []string {
	h := make([]string, 0, len(model.Fields)+1)
	for _, f := range model.Fields {
		h = append(h, f.Label())
	}
	return append(h, DeltaTLabel)
}

// Values returns the row in the same order as Header.
func (r Record) Values() []float64 {
	return append(r.Inputs.Values(), r.DeltaTc)
}

// CurveRequest asks for a sensitivity curve; a nil Spec uses the defaults.
type CurveRequest struct {
	Field model.Field
	Spec  *sweep.RangeSpec
}

// GridRequest asks for a heatmap of X against Y.
type GridRequest struct {
	X     model.Field
	Y     model.Field
	XSpec *sweep.RangeSpec
	YSpec *sweep.RangeSpec
}

type Request struct {
	Inputs model.ContactInputs
	Curves []CurveRequest
	Grids  []GridRequest
}

// Result is everything one interaction produces.
type Result struct {
	ID       string
	Record   Record
	Curves   []sweep.Curve
	Grids    []sweep.Grid
	Warnings []string
}

// Assembler validates inputs, evaluates the headline ΔTc and runs the
// requested sweeps. It holds no state between calls.
type Assembler struct {
	engine   *sweep.Engine
	defaults sweep.Defaults
	policy   calculator.DomainPolicy
	log      *log.Entry
}

func NewAssembler(engine *sweep.Engine, defaults sweep.Defaults, policy calculator.DomainPolicy) *Assembler {
	return &Assembler{
		engine:   engine,
		defaults: defaults,
		policy:   policy,
		log:      log.WithField("component", "result"),
	}
}

// Prepare runs one full evaluation. Zero inputs are rejected with a
// *calculator.ZeroInputError before anything is evaluated.
func (a *Assembler) Prepare(req Request) (*Result, error) {
	in := req.Inputs
	if err := calculator.Validate(in); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := a.log.WithField("id", id)

	violations, err := a.policy.Check(in)
	if err != nil {
		return nil, err
	}
	res := &Result{ID: id}
	for _, v := range violations {
		res.Warnings = append(res.Warnings, v.Error())
	}
	if len(violations) > 0 {
		logger.WithField("violations", res.Warnings).Warn("inputs outside the correlation domain")
	}

	dt, err := calculator.Evaluate(in)
	if err != nil {
		return nil, err
	}
	res.Record = Record{Inputs: in, DeltaTc: dt}

	for _, cr := range req.Curves {
		spec := a.defaults.Spec(cr.Field)
		if cr.Spec != nil {
			spec = *cr.Spec
		}
		c, err := a.engine.Sweep1D(in, cr.Field, spec)
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", cr.Field, err)
		}
		res.Curves = append(res.Curves, c)
	}

	for _, gr := range req.Grids {
		xSpec, ySpec := a.defaults.GridSpec(gr.X), a.defaults.GridSpec(gr.Y)
		if gr.XSpec != nil {
			xSpec = *gr.XSpec
		}
		if gr.YSpec != nil {
			ySpec = *gr.YSpec
		}
		g, err := a.engine.Sweep2D(in, gr.X, xSpec, gr.Y, ySpec)
		if err != nil {
			return nil, fmt.Errorf("grid %s×%s: %w", gr.X, gr.Y, err)
		}
		res.Grids = append(res.Grids, g)
	}

	logger.WithFields(log.Fields{
		"delta_tc": dt,
		"curves":   len(res.Curves),
		"grids":    len(res.Grids),
	}).Info("evaluated")
	return res, nil
}
