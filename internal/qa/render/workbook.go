package render

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pyxis-oop/qablame/internal/qa/aggregate"
)

const (
	sheetViolations = "violations"
	sheetAuthors    = "authors"
)

var violationsHeader = []string{"Author", "Checker", "File", "Lines", "Details"}

// Workbook writes the view to w as an xlsx file: one row per author/violation
// pair on the first sheet, and the per-author totals by checker on the second.
func Workbook(w io.Writer, view aggregate.View) error {
	sheet := excelize.NewFile()
	defer sheet.Close()

	if err := sheet.SetSheetName("Sheet1", sheetViolations); err != nil {
		return errors.Wrap(err, "unable to create violations sheet")
	}
	if err := setRow(sheet, sheetViolations, 1, violationsHeader); err != nil {
		return err
	}
	row := 2
	for _, author := range view.Authors() {
		checkers := view[author]
		for _, name := range checkers.Names() {
			for _, v := range checkers[name] {
				values := []interface{}{author, name, v.File(), v.Lines().String(), v.Details()}
				if err := setRow(sheet, sheetViolations, row, values); err != nil {
					return err
				}
				row++
			}
		}
	}

	if _, err := sheet.NewSheet(sheetAuthors); err != nil {
		return errors.Wrap(err, "unable to create authors sheet")
	}
	checkerNames := allCheckers(view)
	header := append([]interface{}{"Author", "Total"}, toInterfaces(checkerNames)...)
	if err := setRow(sheet, sheetAuthors, 1, header); err != nil {
		return err
	}
	for i, author := range view.Authors() {
		checkers := view[author]
		values := []interface{}{author, checkers.Total()}
		for _, name := range checkerNames {
			values = append(values, len(checkers[name]))
		}
		if err := setRow(sheet, sheetAuthors, i+2, values); err != nil {
			return err
		}
	}

	if err := sheet.Write(w); err != nil {
		return errors.Wrap(err, "unable to write workbook")
	}
	return nil
}

func setRow[T any](sheet *excelize.File, name string, row int, values []T) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return errors.Wrap(err, "invalid cell")
		}
		if err := sheet.SetCellValue(name, cell, v); err != nil {
			return errors.Wrapf(err, "unable to set cell %s!%s", name, cell)
		}
	}
	return nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// allCheckers returns every checker label present in the view, sorted.
func allCheckers(view aggregate.View) []string {
	merged := aggregate.Checkers{}
	for _, checkers := range view {
		for name := range checkers {
			merged[name] = nil
		}
	}
	return merged.Names()
}
