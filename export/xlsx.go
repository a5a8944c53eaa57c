package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/shoaibsidiki/deltaT-calculator/result"
	"github.com/shoaibsidiki/deltaT-calculator/sweep"
)

// ResultSheet is the first sheet of the workbook.
const ResultSheet = "Result"

// heatmap colours, low to high
const (
	colorLow  = "#5A8AC6"
	colorMid  = "#FCFCFF"
	colorHigh = "#F8696B"
)

// WriteXLSX writes the result as a workbook: the record on the Result sheet,
// one sheet per curve and one colour-scaled sheet per heatmap.
// Values are stored unrounded.
func WriteXLSX(w io.Writer, res *result.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultSheet); err != nil {
		return err
	}
	if err := writeResultSheet(f, res); err != nil {
		return err
	}
	for k, c := range res.Curves {
		if err := writeCurveSheet(f, CurveSheetName(k, c), c); err != nil {
			return err
		}
	}
	for k, g := range res.Grids {
		if err := writeGridSheet(f, GridSheetName(k, g), g); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func CurveSheetName(k int, c sweep.Curve) string {
	return fmt.Sprintf("Curve %d %s", k+1, c.Field)
}

func GridSheetName(k int, g sweep.Grid) string {
	return fmt.Sprintf("Heatmap %d %s-%s", k+1, g.XField, g.YField)
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}

func writeResultSheet(f *excelize.File, res *result.Result) error {
	for j, h := range result.Header() {
		if err := setCell(f, ResultSheet, j+1, 1, h); err != nil {
			return err
		}
	}
	for j, v := range res.Record.Values() {
		if err := setCell(f, ResultSheet, j+1, 2, v); err != nil {
			return err
		}
	}
	if err := setCell(f, ResultSheet, 1, 4, "ID"); err != nil {
		return err
	}
	if err := setCell(f, ResultSheet, 2, 4, res.ID); err != nil {
		return err
	}
	for i, msg := range res.Warnings {
		if err := setCell(f, ResultSheet, 1, 5+i, "warning"); err != nil {
			return err
		}
		if err := setCell(f, ResultSheet, 2, 5+i, msg); err != nil {
			return err
		}
	}
	return nil
}

func writeCurveSheet(f *excelize.File, sheet string, c sweep.Curve) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, 1, c.Field.Label()); err != nil {
		return err
	}
	if err := setCell(f, sheet, 2, 1, result.DeltaTLabel); err != nil {
		return err
	}
	for i, p := range c.Points {
		row := i + 2
		if err := setCell(f, sheet, 1, row, p.Value); err != nil {
			return err
		}
		if !p.Valid() {
			continue
		}
		if err := setCell(f, sheet, 2, row, p.DeltaTc); err != nil {
			return err
		}
	}
	return nil
}

func writeGridSheet(f *excelize.File, sheet string, g sweep.Grid) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setCell(f, sheet, 1, 1, GridCorner(g)); err != nil {
		return err
	}
	for j, x := range g.X {
		if err := setCell(f, sheet, j+2, 1, x); err != nil {
			return err
		}
	}
	for i, y := range g.Y {
		if err := setCell(f, sheet, 1, i+2, y); err != nil {
			return err
		}
		for j := range g.X {
			z, ok := g.At(i, j)
			if !ok {
				continue
			}
			if err := setCell(f, sheet, j+2, i+2, z); err != nil {
				return err
			}
		}
	}
	if len(g.X) == 0 || len(g.Y) == 0 {
		return nil
	}

	first, err := excelize.CoordinatesToCellName(2, 2)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(g.X)+1, len(g.Y)+1)
	if err != nil {
		return err
	}
	return f.SetConditionalFormat(sheet, first+":"+last, []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "min",
		MidType:  "percentile",
		MidValue: "50",
		MaxType:  "max",
		MinColor: colorLow,
		MidColor: colorMid,
		MaxColor: colorHigh,
	}})
}
