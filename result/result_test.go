package result

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

func newAssembler(mode calculator.DomainMode) *Assembler {
	p := calculator.DefaultDomainPolicy()
	p.Mode = mode
	return NewAssembler(sweep.NewEngine(2), sweep.BuiltinDefaults(), p)
}

func TestHeader(t *testing.T) {
	want := []string{"μ", "Fₙ [N]", "v [m/s]", "r [m]", "r_d [m]", "b [m]", "b_PTFE [m]", "ΔT [°C]"}
	if got := Header(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPrepareHeadline(t *testing.T) {
	a := newAssembler(calculator.DomainWarn)
	in := model.DefaultInputs()
	res, err := a.Prepare(Request{Inputs: in})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	want, _ := calculator.Evaluate(in)
	if res.Record.DeltaTc != want {
		t.Errorf("ΔTc: got %g, want %g", res.Record.DeltaTc, want)
	}
	if res.Record.Inputs != in {
		t.Errorf("inputs: got %+v", res.Record.Inputs)
	}
	if _, err := uuid.Parse(res.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", res.ID, err)
	}
	if len(res.Warnings) != 0 || len(res.Curves) != 0 || len(res.Grids) != 0 {
		t.Errorf("unexpected extras: %+v", res)
	}

	vals := res.Record.Values()
	if len(vals) != 8 || vals[0] != in.Mu || vals[6] != in.BPTFE || vals[7] != want {
		t.Errorf("values: got %v", vals)
	}
}

func TestPrepareZeroInputs(t *testing.T) {
	a := newAssembler(calculator.DomainWarn)
	for _, f := range model.Fields {
		if f == model.Mu {
			continue
		}
		res, err := a.Prepare(Request{Inputs: model.DefaultInputs().With(f, 0)})
		var ze *calculator.ZeroInputError
		if !errors.As(err, &ze) {
			t.Errorf("%v=0: got %v, want ZeroInputError", f, err)
			continue
		}
		if res != nil {
			t.Errorf("%v=0: partial result returned", f)
		}
		if len(ze.Fields) != 1 || ze.Fields[0] != f {
			t.Errorf("%v=0: fields %v", f, ze.Fields)
		}
	}

	in := model.DefaultInputs().With(model.Fn, 0).With(model.B, 0)
	_, err := a.Prepare(Request{Inputs: in})
	var ze *calculator.ZeroInputError
	if !errors.As(err, &ze) || !reflect.DeepEqual(ze.Fields, []model.Field{model.Fn, model.B}) {
		t.Errorf("two zeros: got %v", err)
	}
}

func TestPrepareZeroMu(t *testing.T) {
	a := newAssembler(calculator.DomainWarn)
	res, err := a.Prepare(Request{Inputs: model.DefaultInputs().With(model.Mu, 0)})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if res.Record.DeltaTc != 0 {
		t.Errorf("ΔTc: got %g, want 0", res.Record.DeltaTc)
	}
}

func TestPrepareNegativeInput(t *testing.T) {
	a := newAssembler(calculator.DomainIgnore)
	_, err := a.Prepare(Request{Inputs: model.DefaultInputs().With(model.R, -0.01)})
	var ie *calculator.InvalidInputError
	if !errors.As(err, &ie) || ie.Field != model.R {
		t.Errorf("got %v, want InvalidInputError on r", err)
	}
}

func TestPrepareDomain(t *testing.T) {
	in := model.DefaultInputs().With(model.Rd, 0.1)

	res, err := newAssembler(calculator.DomainWarn).Prepare(Request{Inputs: in})
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warn: got warnings %v", res.Warnings)
	}

	_, err = newAssembler(calculator.DomainReject).Prepare(Request{Inputs: in})
	if !errors.Is(err, calculator.ErrOutOfDomain) {
		t.Errorf("reject: got %v", err)
	}
}

func TestPrepareSweeps(t *testing.T) {
	a := newAssembler(calculator.DomainWarn)
	custom := sweep.RangeSpec{Policy: sweep.Relative, Lower: 0.1, Upper: 5, Count: 10}
	res, err := a.Prepare(Request{
		Inputs: model.DefaultInputs(),
		Curves: []CurveRequest{
			{Field: model.V},
			{Field: model.Fn, Spec: &custom},
		},
		Grids: []GridRequest{
			{X: model.V, Y: model.Fn},
		},
	})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(res.Curves) != 2 || len(res.Grids) != 1 {
		t.Fatalf("got %d curves, %d grids", len(res.Curves), len(res.Grids))
	}
	if n := len(res.Curves[0].Points); n != sweep.DefaultCount {
		t.Errorf("default curve: %d points", n)
	}
	if n := len(res.Curves[1].Points); n != 10 {
		t.Errorf("custom curve: %d points", n)
	}
	g := res.Grids[0]
	if len(g.Y) != sweep.DefaultGridCount || len(g.X) != sweep.DefaultGridCount {
		t.Errorf("grid: %d×%d", len(g.Y), len(g.X))
	}
}

func TestPrepareBadSweep(t *testing.T) {
	a := newAssembler(calculator.DomainWarn)
	_, err := a.Prepare(Request{
		Inputs: model.DefaultInputs(),
		Grids:  []GridRequest{{X: model.B, Y: model.B}},
	})
	if err == nil {
		t.Error("expected error for identical grid axes")
	}
}
