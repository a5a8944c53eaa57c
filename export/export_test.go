package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/shoaibsidiki/deltaT-calculator/calculator"
	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

func defaultRecord(t *testing.T) result.Record {
	in := model.DefaultInputs()
	dt, err := calculator.Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return result.Record{Inputs: in, DeltaTc: dt}
}

func TestRecordCSVRoundTrip(t *testing.T) {
	rec := defaultRecord(t)
	other := result.Record{
		Inputs:  model.DefaultInputs().With(model.Mu, 0.35).With(model.V, 1.0/3),
		DeltaTc: math.Pi,
	}

	var buf bytes.Buffer
	if err := WriteRecordCSV(&buf, rec, other); err != nil {
		t.Fatalf("WriteRecordCSV: %v", err)
	}
	got, err := ReadRecordCSV(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadRecordCSV: %v", err)
	}
	if !reflect.DeepEqual(got, []result.Record{rec, other}) {
		t.Errorf("round trip:\ngot  %+v\nwant %+v", got, []result.Record{rec, other})
	}

	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	if firstLine != strings.Join(result.Header(), ",") {
		t.Errorf("header line: %q", firstLine)
	}
}

func TestReadRecordCSVErrors(t *testing.T) {
	header := strings.Join(result.Header(), ",")
	tests := map[string]string{
		"empty":        "",
		"short header": "μ,Fₙ [N]\n",
		"wrong column": strings.Replace(header, "v [m/s]", "speed", 1) + "\n",
		"bad number":   header + "\n0.1,100,fast,0.009,0.025,0.005,0.005,26\n",
		"short row":    header + "\n0.1,100\n",
	}
	for name, in := range tests {
		if _, err := ReadRecordCSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReadRecordCSVBOM(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	if err := WriteRecordCSV(&buf, defaultRecord(t)); err != nil {
		t.Fatal(err)
	}
	got, err := ReadRecordCSV(&buf)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func readAll(t *testing.T, b []byte) [][]string {
	rows, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestWriteCurveCSV(t *testing.T) {
	c := sweep.Curve{
		Field: model.V,
		Points: []sweep.Point{
			{Value: 0.1, DeltaTc: 12.5},
			{Value: 0.2, DeltaTc: math.NaN(), Err: calculator.ErrInvalidInput},
			{Value: 0.3, DeltaTc: 20},
		},
	}
	var buf bytes.Buffer
	if err := WriteCurveCSV(&buf, c); err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"v [m/s]", "ΔT [°C]"},
		{"0.1", "12.5"},
		{"0.2", ""},
		{"0.3", "20"},
	}
	if got := readAll(t, buf.Bytes()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func testGrid() sweep.Grid {
	return sweep.Grid{
		XField: model.V,
		YField: model.Fn,
		X:      []float64{0.1, 0.123456},
		Y:      []float64{50, 100},
		Z: [][]float64{
			{1.5, math.NaN()},
			{2.25, 3},
		},
		Invalid: 1,
	}
}

func TestWriteGridCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGridCSV(&buf, testGrid()); err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{`Fₙ [N] \ v [m/s]`, "0.1", "0.1235"},
		{"50", "1.5", ""},
		{"100", "2.25", "3"},
	}
	if got := readAll(t, buf.Bytes()); !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriteXLSX(t *testing.T) {
	rec := defaultRecord(t)
	res := &result.Result{
		ID:     "b1d5c3c6-2f43-4a4e-9d59-3f0f4c1f0a11",
		Record: rec,
		Curves: []sweep.Curve{{
			Field:  model.B,
			Points: []sweep.Point{{Value: 0.004, DeltaTc: 27}, {Value: 0.006, DeltaTc: 26}},
		}},
		Grids:    []sweep.Grid{testGrid()},
		Warnings: []string{"r_d = 0.1 outside [0.005, 0.05]"},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, res); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	wantSheets := []string{ResultSheet, "Curve 1 b", "Heatmap 1 v-Fn"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, wantSheets) {
		t.Errorf("sheets: got %v, want %v", got, wantSheets)
	}

	rows, err := f.GetRows(ResultSheet)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows[0], result.Header()) {
		t.Errorf("header: got %v", rows[0])
	}
	if id, _ := f.GetCellValue(ResultSheet, "B4"); id != res.ID {
		t.Errorf("id: got %q", id)
	}
	if w, _ := f.GetCellValue(ResultSheet, "B5"); w != res.Warnings[0] {
		t.Errorf("warning: got %q", w)
	}

	corner, err := f.GetCellValue("Heatmap 1 v-Fn", "A1")
	if err != nil || corner != `Fₙ [N] \ v [m/s]` {
		t.Errorf("corner: %q, %v", corner, err)
	}
	empty, err := f.GetCellValue("Heatmap 1 v-Fn", "C2")
	if err != nil || empty != "" {
		t.Errorf("invalid cell: %q, %v", empty, err)
	}
	formats, err := f.GetConditionalFormats("Heatmap 1 v-Fn")
	if err != nil {
		t.Fatal(err)
	}
	if opts, ok := formats["B2:C3"]; !ok || len(opts) != 1 || opts[0].Type != "3_color_scale" {
		t.Errorf("conditional formats: %+v", formats)
	}
}

func TestRenderCurvePNG(t *testing.T) {
	en := sweep.NewEngine(1)
	c, err := en.Sweep1D(model.DefaultInputs(), model.V, sweep.BuiltinDefaults().Spec(model.V))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RenderCurvePNG(&buf, c); err != nil {
		t.Fatalf("RenderCurvePNG: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG")
	}
}

func TestRenderCurvePNGFlat(t *testing.T) {
	en := sweep.NewEngine(1)
	base := model.DefaultInputs().With(model.Mu, 0)
	c, err := en.Sweep1D(base, model.V, sweep.BuiltinDefaults().Spec(model.V))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RenderCurvePNG(&buf, c); err != nil {
		t.Fatalf("flat curve: %v", err)
	}
}

func TestRenderCurvePNGTooFewPoints(t *testing.T) {
	c := sweep.Curve{Field: model.R, Points: []sweep.Point{{Value: 0.01, DeltaTc: 10}}}
	if err := RenderCurvePNG(&bytes.Buffer{}, c); err == nil {
		t.Error("expected error for a single sample")
	}
}
