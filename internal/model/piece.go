// Package model defines the core value types shared by the solver:
// pieces, sides, rotations, grid locations and solver configuration.
package model

// Side identifies one edge of a square puzzle piece in the piece's own
// frame of reference, before any rotation is applied.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft

	// NumSides is the number of edges on a square piece.
	NumSides = 4
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "invalid"
	}
}

// Opposite returns the side that faces s across a shared edge.
func (s Side) Opposite() Side {
	return Side((int(s) + 2) % NumSides)
}

// Delta returns the grid offset of the neighboring cell when s is
// interpreted as an absolute direction on the board.
func (s Side) Delta() (dRow, dCol int) {
	switch s {
	case SideTop:
		return -1, 0
	case SideRight:
		return 0, 1
	case SideBottom:
		return 1, 0
	default:
		return 0, -1
	}
}

// AllSides lists the sides in their canonical enumeration order. The
// order is load-bearing: pool registration, slot opening and the global
// recompute fallback all enumerate sides in this order so that runs are
// reproducible.
func AllSides() [NumSides]Side {
	return [NumSides]Side{SideTop, SideRight, SideBottom, SideLeft}
}

// Rotation is a piece rotation in quarter turns clockwise.
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

func (r Rotation) String() string {
	return [...]string{"0", "90", "180", "270"}[int(r)%NumSides]
}

// Degrees returns the rotation angle in degrees.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

// Location is a board-local grid coordinate.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Neighbor returns the cell adjacent to l in the given absolute direction.
func (l Location) Neighbor(dir Side) Location {
	dRow, dCol := dir.Delta()
	return Location{Row: l.Row + dRow, Col: l.Col + dCol}
}

// NoBoard marks a piece that has not been assigned to any board.
const NoBoard = -1

// Piece is one square-edged fragment of a scrambled image. Pieces are
// identified by a dense integer id; the solver mutates rotation, board
// and location in place as placement proceeds.
type Piece struct {
	ID       int      `json:"id"`
	Rotation Rotation `json:"rotation"`
	BoardID  int      `json:"board_id"`
	Loc      Location `json:"loc"`
}

// NewPieceSet builds the piece collection for a run. Ids are assigned
// densely from zero, as required by the engine's id-indexed bookkeeping.
func NewPieceSet(count int) []*Piece {
	pieces := make([]*Piece, count)
	for i := range pieces {
		pieces[i] = &Piece{ID: i, BoardID: NoBoard}
	}
	return pieces
}

// Placed reports whether the piece has been assigned to a board.
func (p *Piece) Placed() bool {
	return p.BoardID != NoBoard
}

// AbsoluteDirection maps a piece-local side to the absolute board
// direction it faces under the piece's current rotation.
func (p *Piece) AbsoluteDirection(s Side) Side {
	return Side((int(s) + int(p.Rotation)) % NumSides)
}

// SideFacing is the inverse of AbsoluteDirection: it returns the
// piece-local side that faces the given absolute direction.
func (p *Piece) SideFacing(dir Side) Side {
	return Side((int(dir) - int(p.Rotation) + NumSides) % NumSides)
}

// NeighborCell pairs a board cell adjacent to a placed piece with the
// piece-local side that faces it.
type NeighborCell struct {
	Loc  Location
	Side Side
}

// NeighborCells enumerates the four cells adjacent to the placed piece,
// in canonical side order.
func (p *Piece) NeighborCells() [NumSides]NeighborCell {
	var cells [NumSides]NeighborCell
	for i, s := range AllSides() {
		cells[i] = NeighborCell{Loc: p.Loc.Neighbor(p.AbsoluteDirection(s)), Side: s}
	}
	return cells
}

// SideAdjacentTo returns the piece-local side of p that faces the given
// adjacent location.
func (p *Piece) SideAdjacentTo(loc Location) Side {
	var dir Side
	switch {
	case loc.Row < p.Loc.Row:
		dir = SideTop
	case loc.Row > p.Loc.Row:
		dir = SideBottom
	case loc.Col > p.Loc.Col:
		dir = SideRight
	default:
		dir = SideLeft
	}
	return p.SideFacing(dir)
}

// OrientToNeighbor derives the rotation a candidate piece must take so
// that its pieceSide faces the neighbor's neighborSide across the shared
// edge, given the neighbor's current rotation.
func OrientToNeighbor(pieceSide, neighborSide Side, neighborRotation Rotation) Rotation {
	slotDir := Side((int(neighborSide) + int(neighborRotation)) % NumSides)
	target := slotDir.Opposite()
	return Rotation((int(target) - int(pieceSide) + NumSides) % NumSides)
}

// PuzzleType selects which side pairings are legal between a candidate
// and the open side of a placed neighbor.
type PuzzleType int

const (
	// TypeNoRotation solves puzzles whose pieces keep their original
	// orientation: only the complementary side may face an open side.
	TypeNoRotation PuzzleType = 1
	// TypeWithRotation allows pieces to be rotated, so any candidate
	// side may face an open side.
	TypeWithRotation PuzzleType = 2
)

// ValidCandidateSides returns the candidate sides that may legally face
// neighborSide, in canonical order.
func (t PuzzleType) ValidCandidateSides(neighborSide Side) []Side {
	if t == TypeNoRotation {
		return []Side{neighborSide.Opposite()}
	}
	sides := AllSides()
	return sides[:]
}
