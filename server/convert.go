package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/config"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// UnitMillimeters marks r, r_d, b and b_PTFE as given in millimetres.
const UnitMillimeters = "mm"

// badRequest is a malformed request, as opposed to inputs the model rejects.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string {
	return e.msg
}

func badRequestf(format string, args ...interface{}) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

func convertInputs(in model.ContactInputs, unit string) (model.ContactInputs, error) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "m":
		return in, nil
	case UnitMillimeters:
		return model.FromMillimeters(in), nil
	}
	return in, badRequestf("unknown unit %q", unit)
}

// convertRange turns a client range into a spec. A zero count takes count.
func convertRange(r *model.RangeReq, count int) (*sweep.RangeSpec, error) {
	if r == nil {
		return nil, nil
	}
	p, err := sweep.ParsePolicy(r.Policy)
	if err != nil {
		return nil, badRequestf("%v", err)
	}
	spec := sweep.RangeSpec{Policy: p, Lower: r.Lower, Upper: r.Upper, Count: r.Count}
	if spec.Count == 0 {
		spec.Count = count
	}
	if err := spec.Validate(); err != nil {
		return nil, badRequestf("%v", err)
	}
	return &spec, nil
}

func parseField(s string) (model.Field, error) {
	f, err := model.ParseField(s)
	if err != nil {
		return f, badRequestf("%v", err)
	}
	return f, nil
}

func convertRequest(req model.EvaluateRequest, defaults sweep.Defaults) (result.Request, error) {
	in, err := convertInputs(req.Inputs, req.Unit)
	if err != nil {
		return result.Request{}, err
	}
	out := result.Request{Inputs: in}

	for _, c := range req.Curves {
		f, err := parseField(c.Field)
		if err != nil {
			return result.Request{}, err
		}
		spec, err := convertRange(c.Range, defaults.Spec(f).Count)
		if err != nil {
			return result.Request{}, fmt.Errorf("curve %s: %w", f, err)
		}
		out.Curves = append(out.Curves, result.CurveRequest{Field: f, Spec: spec})
	}

	for _, g := range req.Grids {
		x, err := parseField(g.X)
		if err != nil {
			return result.Request{}, err
		}
		y, err := parseField(g.Y)
		if err != nil {
			return result.Request{}, err
		}
		if x == y {
			return result.Request{}, badRequestf("heatmap axes must differ, both are %s", x)
		}
		xSpec, err := convertRange(g.XRange, defaults.GridSpec(x).Count)
		if err != nil {
			return result.Request{}, fmt.Errorf("heatmap %s: %w", x, err)
		}
		ySpec, err := convertRange(g.YRange, defaults.GridSpec(y).Count)
		if err != nil {
			return result.Request{}, fmt.Errorf("heatmap %s: %w", y, err)
		}
		out.Grids = append(out.Grids, result.GridRequest{X: x, Y: y, XSpec: xSpec, YSpec: ySpec})
	}
	return out, nil
}

// JSON has no NaN, failed samples go out as null.
func nullable(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func curveData(c sweep.Curve) model.CurveData {
	d := model.CurveData{
		Field: c.Field.String(),
		Label: c.Field.Label(),
		X:     make([]float64, len(c.Points)),
		Y:     make([]*float64, len(c.Points)),
	}
	for i, p := range c.Points {
		d.X[i] = p.Value
		if p.Valid() {
			d.Y[i] = nullable(p.DeltaTc)
		}
	}
	return d
}

func heatmapData(g sweep.Grid) model.HeatmapData {
	d := model.HeatmapData{
		X:       g.XField.String(),
		Y:       g.YField.String(),
		XLabel:  g.XField.Label(),
		YLabel:  g.YField.Label(),
		XValues: g.X,
		YValues: g.Y,
		Z:       make([][]*float64, len(g.Z)),
		Invalid: g.Invalid,
	}
	for i, row := range g.Z {
		d.Z[i] = make([]*float64, len(row))
		for j, z := range row {
			d.Z[i][j] = nullable(z)
		}
	}
	return d
}

func evaluateReply(res *result.Result) model.EvaluateReply {
	reply := model.EvaluateReply{
		ID:       res.ID,
		Inputs:   res.Record.Inputs,
		DeltaTc:  res.Record.DeltaTc,
		Warnings: res.Warnings,
	}
	for _, c := range res.Curves {
		reply.Curves = append(reply.Curves, curveData(c))
	}
	for _, g := range res.Grids {
		reply.Heatmaps = append(reply.Heatmaps, heatmapData(g))
	}
	return reply
}

func defaultsReply(cfg config.Config) model.DefaultsReply {
	defaults := cfg.SweepDefaults()
	reply := model.DefaultsReply{
		Inputs:    model.DefaultInputs(),
		Bounds:    make(map[string]model.Bound),
		Ranges:    make(map[string]model.RangeReq, len(model.Fields)),
		GridCount: defaults.GridCount,
	}
	for f, b := range cfg.Domain.Bounds {
		reply.Bounds[f.String()] = b
	}
	for _, f := range model.Fields {
		s := defaults.Spec(f)
		reply.Ranges[f.String()] = model.RangeReq{
			Policy: s.Policy.String(),
			Lower:  s.Lower,
			Upper:  s.Upper,
			Count:  s.Count,
		}
	}
	return reply
}

func fieldNames(fs []model.Field) []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return names
}

// errorReply classifies err for the client.
func errorReply(err error) (int, model.ErrorReply) {
	var (
		zero    *calculator.ZeroInputError
		domain  *calculator.DomainError
		invalid *calculator.InvalidInputError
		bad     *badRequest
	)
	reply := model.ErrorReply{Message: err.Error()}
	switch {
	case errors.As(err, &zero):
		reply.Kind = model.KindZeroInput
		reply.Fields = fieldNames(zero.Fields)
	case errors.As(err, &domain):
		reply.Kind = model.KindDomain
		reply.Fields = fieldNames(domain.Fields())
	case errors.As(err, &invalid):
		reply.Kind = model.KindInvalidInput
		reply.Fields = []string{invalid.Field.String()}
	case errors.Is(err, calculator.ErrInvalidInput):
		reply.Kind = model.KindInvalidInput
	case errors.As(err, &bad):
		reply.Kind = model.KindBadRequest
	default:
		reply.Kind = model.KindInternal
		return http.StatusInternalServerError, reply
	}
	return http.StatusBadRequest, reply
}
