package sweep

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/model"
)

// Point is one sample of a sensitivity curve.
// A failed sample keeps its error and has a NaN DeltaTc.
type Point struct {
	Value   float64
	DeltaTc float64
	Err     error
}

func (p Point) Valid() bool {
	return p.Err == nil
}

// Curve is ΔTc along one swept field, the other fields held at the base.
type Curve struct {
	Field  model.Field
	Base   model.ContactInputs
	Spec   RangeSpec
	Points []Point
}

// Invalid counts the failed samples.
func (c Curve) Invalid() int {
	n := 0
	for _, p := range c.Points {
		if !p.Valid() {
			n++
		}
	}
	return n
}

// Grid is ΔTc over the cartesian product of two swept fields.
// Z[i][j] is evaluated at Y[i], X[j]; failed cells are NaN.
type Grid struct {
	XField  model.Field
	YField  model.Field
	Base    model.ContactInputs
	X       []float64
	Y       []float64
	Z       [][]float64
	Invalid int
}

// At returns the cell value and whether it holds a valid evaluation.
func (g Grid) At(i, j int) (float64, bool) {
	z := g.Z[i][j]
	return z, !math.IsNaN(z)
}

// Engine evaluates the model over sample ranges.
type Engine struct {
	e   *executor
	log *log.Entry
}

func NewEngine(workers int) *Engine {
	return &Engine{
		e:   newExecutor(workers),
		log: log.WithField("component", "sweep"),
	}
}

// Sweep1D evaluates ΔTc for every sample of spec on field.
// Failing samples are recorded per point; only a bad spec or field is an error.
func (en *Engine) Sweep1D(base model.ContactInputs, field model.Field, spec RangeSpec) (Curve, error) {
	if !field.Valid() {
		return Curve{}, fmt.Errorf("sweep: invalid field %v", field)
	}
	if err := spec.Validate(); err != nil {
		return Curve{}, fmt.Errorf("sweep %s: %w", field, err)
	}

	values := spec.Samples(base.Get(field))
	points := make([]Point, len(values))
	for i, x := range values {
		dt, err := calculator.Evaluate(base.With(field, x))
		if err != nil {
			points[i] = Point{Value: x, DeltaTc: math.NaN(), Err: err}
			continue
		}
		points[i] = Point{Value: x, DeltaTc: dt}
	}

	c := Curve{Field: field, Base: base, Spec: spec, Points: points}
	if n := c.Invalid(); n > 0 {
		en.log.WithFields(log.Fields{
			"field":   field.String(),
			"invalid": n,
			"samples": len(points),
		}).Debug("sweep has failed samples")
	}
	return c, nil
}

// Sweep2D evaluates ΔTc on the grid spanned by xSpec on xField and ySpec on yField.
// Rows are evaluated in parallel.
func (en *Engine) Sweep2D(base model.ContactInputs, xField model.Field, xSpec RangeSpec, yField model.Field, ySpec RangeSpec) (Grid, error) {
	if !xField.Valid() || !yField.Valid() {
		return Grid{}, fmt.Errorf("sweep: invalid fields %v, %v", xField, yField)
	}
	if xField == yField {
		return Grid{}, fmt.Errorf("sweep: grid axes must differ, both are %s", xField)
	}
	if err := xSpec.Validate(); err != nil {
		return Grid{}, fmt.Errorf("sweep %s: %w", xField, err)
	}
	if err := ySpec.Validate(); err != nil {
		return Grid{}, fmt.Errorf("sweep %s: %w", yField, err)
	}

	xs := xSpec.Samples(base.Get(xField))
	ys := ySpec.Samples(base.Get(yField))
	z := make([][]float64, len(ys))
	invalid := make([]int, len(ys))

	cost := en.e.dispatch(len(ys), func(t task) {
		for i := t.start; i < t.end; i++ {
			row := make([]float64, len(xs))
			in := base.With(yField, ys[i])
			for j, x := range xs {
				dt, err := calculator.Evaluate(in.With(xField, x))
				if err != nil {
					row[j] = math.NaN()
					invalid[i]++
					continue
				}
				row[j] = dt
			}
			z[i] = row
		}
	})

	g := Grid{XField: xField, YField: yField, Base: base, X: xs, Y: ys, Z: z}
	for _, n := range invalid {
		g.Invalid += n
	}
	en.log.WithFields(log.Fields{
		"x":       xField.String(),
		"y":       yField.String(),
		"cells":   len(xs) * len(ys),
		"invalid": g.Invalid,
		"cost":    cost,
	}).Debug("grid evaluated")
	return g, nil
}
