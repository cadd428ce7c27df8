package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/pwalden/jigsolver/internal/engine"
	"github.com/pwalden/jigsolver/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// WriteReport generates a PDF with one page per solved board (a grid
// diagram with piece ids and rotations) followed by a summary page with
// the best-buddy accuracy counters.
func WriteReport(path string, boards [][]*model.Piece, accuracy []engine.BoardAccuracy, runID string) error {
	if len(boards) == 0 {
		return fmt.Errorf("export: no boards to report")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, board := range boards {
		pdf.AddPage()
		renderBoardPage(pdf, board, i)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, boards, accuracy, runID)

	return pdf.OutputFileAndClose(path)
}

// renderBoardPage draws one board's grid layout on the current page.
func renderBoardPage(pdf *fpdf.Fpdf, board []*model.Piece, boardNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(0, headerHeight, fmt.Sprintf("Board %d (%d pieces)", boardNum, len(board)),
		"", 0, "L", false, 0, "")

	if len(board) == 0 {
		return
	}

	minRow, minCol := board[0].Loc.Row, board[0].Loc.Col
	maxRow, maxCol := minRow, minCol
	for _, p := range board[1:] {
		if p.Loc.Row < minRow {
			minRow = p.Loc.Row
		}
		if p.Loc.Row > maxRow {
			maxRow = p.Loc.Row
		}
		if p.Loc.Col < minCol {
			minCol = p.Loc.Col
		}
		if p.Loc.Col > maxCol {
			maxCol = p.Loc.Col
		}
	}

	rows := float64(maxRow - minRow + 1)
	cols := float64(maxCol - minCol + 1)
	availW := pageWidth - 2*marginLeft
	availH := pageHeight - drawAreaTop - marginBottom
	cell := availW / cols
	if h := availH / rows; h < cell {
		cell = h
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetDrawColor(60, 60, 60)
	for _, p := range board {
		x := marginLeft + float64(p.Loc.Col-minCol)*cell
		y := drawAreaTop + float64(p.Loc.Row-minRow)*cell
		c := piecePalette[p.ID%len(piecePalette)]
		pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		pdf.Rect(x, y, cell, cell, "FD")

		label := fmt.Sprintf("%d", p.ID)
		if p.Rotation != model.Rotation0 {
			label = fmt.Sprintf("%d/%s", p.ID, p.Rotation)
		}
		pdf.SetXY(x, y+cell/2-2)
		pdf.CellFormat(cell, 4, label, "", 0, "C", false, 0, "")
	}
}

// renderSummaryPage writes the run summary table.
func renderSummaryPage(pdf *fpdf.Fpdf, boards [][]*model.Piece, accuracy []engine.BoardAccuracy, runID string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(0, headerHeight, "Best-Buddy Accuracy Summary", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(0, 6, fmt.Sprintf("Run %s", runID), "", 0, "L", false, 0, "")

	colW := []float64{30, 30, 30, 30, 30}
	headers := []string{"Board", "Pieces", "Open", "Correct", "Wrong"}

	y := drawAreaTop + 8
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	for i, h := range headers {
		pdf.CellFormat(colW[i], 7, h, "1", 0, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, acc := range accuracy {
		y += 7
		pdf.SetXY(marginLeft, y)
		pieceCount := 0
		if acc.BoardID < len(boards) {
			pieceCount = len(boards[acc.BoardID])
		}
		cells := []string{
			fmt.Sprintf("%d", acc.BoardID),
			fmt.Sprintf("%d", pieceCount),
			fmt.Sprintf("%d", acc.Open),
			fmt.Sprintf("%d", acc.Correct),
			fmt.Sprintf("%d", acc.Wrong),
		}
		for i, c := range cells {
			pdf.CellFormat(colW[i], 7, c, "1", 0, "C", false, 0, "")
		}
	}
}
