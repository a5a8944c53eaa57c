package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shoaibsidiki/deltaT-calculator/model"
	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// RecordFileName is the download name of a result row.
const RecordFileName = "deltaT_results.csv"

// full precision, shortest representation that parses back to the same float
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// axis values are shown with four significant digits
func formatAxis(x float64) string {
	return fmt.Sprintf("%.4g", x)
}

// WriteRecordCSV writes the header row and one row per record.
func WriteRecordCSV(w io.Writer, records ...result.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Header()); err != nil {
		return err
	}
	for _, r := range records {
		vals := r.Values()
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = formatFloat(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecordCSV parses the output of WriteRecordCSV.
func ReadRecordCSV(r io.Reader) ([]result.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("export: read header: %w", err)
	}
	want := result.Header()
	if len(header) != len(want) {
		return nil, fmt.Errorf("export: header has %d columns, want %d", len(header), len(want))
	}
	for i := range want {
		if strings.TrimPrefix(header[i], "\ufeff") != want[i] {
			return nil, fmt.Errorf("export: column %d is %q, want %q", i+1, header[i], want[i])
		}
	}

	var out []result.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line, err)
		}
		vals := make([]float64, len(row))
		for i, s := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("export: line %d column %q: %w", line, want[i], err)
			}
			vals[i] = v
		}
		var in model.ContactInputs
		for i, f := range model.Fields {
			in = in.With(f, vals[i])
		}
		out = append(out, result.Record{Inputs: in, DeltaTc: vals[len(model.Fields)]})
	}
}

// WriteCurveCSV writes one sample per row; failed samples have an empty ΔT cell.
func WriteCurveCSV(w io.Writer, c sweep.Curve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{c.Field.Label(), result.DeltaTLabel}); err != nil {
		return err
	}
	for _, p := range c.Points {
		cell := ""
		if p.Valid() {
			cell = formatFloat(p.DeltaTc)
		}
		if err := cw.Write([]string{formatFloat(p.Value), cell}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GridCorner is the label of the top-left cell of a heatmap table.
func GridCorner(g sweep.Grid) string {
	return g.YField.Label() + ` \ ` + g.XField.Label()
}

// WriteGridCSV writes the heatmap as a table: the first row holds the X
// samples, the first column the Y samples. Failed cells are left empty.
func WriteGridCSV(w io.Writer, g sweep.Grid) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(g.X)+1)
	header = append(header, GridCorner(g))
	for _, x := range g.X {
		header = append(header, formatAxis(x))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, y := range g.Y {
		row := make([]string, 0, len(g.X)+1)
		row = append(row, formatAxis(y))
		for j := range g.X {
			z, ok := g.At(i, j)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(z))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
