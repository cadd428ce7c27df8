package engine

import "github.com/pwalden/jigsolver/internal/model"

// boardState tracks one board's grid occupancy and bounding box. The
// grid is sparse: pieces grow outward from an arbitrary center cell and
// only the bounding box matters for dimension checks.
type boardState struct {
	id        int
	occupancy map[model.Location]int

	// Bounding box over placed pieces, grown monotonically outward.
	topLeft     model.Location
	bottomRight model.Location
}

func newBoardState(id int, seedLoc model.Location, seedPiece int) *boardState {
	b := &boardState{
		id:          id,
		occupancy:   map[model.Location]int{seedLoc: seedPiece},
		topLeft:     seedLoc,
		bottomRight: seedLoc,
	}
	return b
}

// pieceAt returns the piece occupying the cell, if any.
func (b *boardState) pieceAt(loc model.Location) (int, bool) {
	id, ok := b.occupancy[loc]
	return id, ok
}

// place records the piece at the cell.
func (b *boardState) place(loc model.Location, pieceID int) {
	b.occupancy[loc] = pieceID
}

// updateBoundingBox grows the box to include loc and reports whether it
// changed.
func (b *boardState) updateBoundingBox(loc model.Location) bool {
	changed := false
	if loc.Row < b.topLeft.Row {
		b.topLeft.Row = loc.Row
		changed = true
	} else if loc.Row > b.bottomRight.Row {
		b.bottomRight.Row = loc.Row
		changed = true
	}
	if loc.Col < b.topLeft.Col {
		b.topLeft.Col = loc.Col
		changed = true
	} else if loc.Col > b.bottomRight.Col {
		b.bottomRight.Col = loc.Col
		changed = true
	}
	return changed
}

// withinDimensions checks that placing at loc would not stretch the
// board past the fixed span on either axis, measured from both edges of
// the current bounding box. A nil limit never constrains.
func (b *boardState) withinDimensions(loc model.Location, dims *model.Dimensions) bool {
	if dims == nil {
		return true
	}
	if loc.Row-b.topLeft.Row+1 > dims.Rows || b.bottomRight.Row-loc.Row+1 > dims.Rows {
		return false
	}
	if loc.Col-b.topLeft.Col+1 > dims.Cols || b.bottomRight.Col-loc.Col+1 > dims.Cols {
		return false
	}
	return true
}

// isSlotOpen reports whether the cell is unoccupied and within any
// configured dimension limit.
func (b *boardState) isSlotOpen(loc model.Location, dims *model.Dimensions) bool {
	if _, occupied := b.occupancy[loc]; occupied {
		return false
	}
	return b.withinDimensions(loc, dims)
}
