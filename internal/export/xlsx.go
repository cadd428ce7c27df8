package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pwalden/jigsolver/internal/engine"
	"github.com/pwalden/jigsolver/internal/model"
)

const (
	placementsSheet = "Placements"
	accuracySheet   = "Accuracy"
)

// WriteWorkbook exports the placement results and accuracy counters to
// an XLSX workbook with one row per piece and one row per board.
func WriteWorkbook(path string, boards [][]*model.Piece, unassigned []*model.Piece, accuracy []engine.BoardAccuracy) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", placementsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(accuracySheet); err != nil {
		return err
	}

	headers := []string{"Piece", "Board", "Row", "Col", "Rotation"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(placementsSheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for boardID, board := range boards {
		for _, p := range board {
			if err := writePlacementRow(f, row, p, fmt.Sprintf("%d", boardID)); err != nil {
				return err
			}
			row++
		}
	}
	for _, p := range unassigned {
		if err := writePlacementRow(f, row, p, "unassigned"); err != nil {
			return err
		}
		row++
	}

	accHeaders := []string{"Board", "Open", "Correct", "Wrong"}
	for i, h := range accHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(accuracySheet, cell, h); err != nil {
			return err
		}
	}
	for i, acc := range accuracy {
		values := []int{acc.BoardID, acc.Open, acc.Correct, acc.Wrong}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(accuracySheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func writePlacementRow(f *excelize.File, row int, p *model.Piece, board string) error {
	values := []any{p.ID, board, p.Loc.Row, p.Loc.Col, p.Rotation.Degrees()}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(placementsSheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
