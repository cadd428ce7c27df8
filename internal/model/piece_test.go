package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide_Opposite(t *testing.T) {
	assert.Equal(t, SideBottom, SideTop.Opposite())
	assert.Equal(t, SideLeft, SideRight.Opposite())
	assert.Equal(t, SideTop, SideBottom.Opposite())
	assert.Equal(t, SideRight, SideLeft.Opposite())
}

func TestLocation_Neighbor(t *testing.T) {
	l := Location{Row: 5, Col: 5}
	assert.Equal(t, Location{Row: 4, Col: 5}, l.Neighbor(SideTop))
	assert.Equal(t, Location{Row: 5, Col: 6}, l.Neighbor(SideRight))
	assert.Equal(t, Location{Row: 6, Col: 5}, l.Neighbor(SideBottom))
	assert.Equal(t, Location{Row: 5, Col: 4}, l.Neighbor(SideLeft))
}

func TestNewPieceSet(t *testing.T) {
	pieces := NewPieceSet(3)
	require.Len(t, pieces, 3)
	for i, p := range pieces {
		assert.Equal(t, i, p.ID)
		assert.Equal(t, NoBoard, p.BoardID)
		assert.False(t, p.Placed())
	}
}

func TestPiece_AbsoluteDirection_RoundTrips(t *testing.T) {
	for _, rot := range []Rotation{Rotation0, Rotation90, Rotation180, Rotation270} {
		p := &Piece{Rotation: rot}
		for _, s := range AllSides() {
			assert.Equal(t, s, p.SideFacing(p.AbsoluteDirection(s)),
				"rotation %s side %s", rot, s)
		}
	}
}

func TestPiece_AbsoluteDirection_Rotated(t *testing.T) {
	// A quarter turn clockwise sends the local top edge to the right.
	p := &Piece{Rotation: Rotation90}
	assert.Equal(t, SideRight, p.AbsoluteDirection(SideTop))
	assert.Equal(t, SideBottom, p.AbsoluteDirection(SideRight))
	assert.Equal(t, SideTop, p.AbsoluteDirection(SideLeft))
}

func TestPiece_SideAdjacentTo(t *testing.T) {
	p := &Piece{Loc: Location{Row: 2, Col: 2}}
	assert.Equal(t, SideTop, p.SideAdjacentTo(Location{Row: 1, Col: 2}))
	assert.Equal(t, SideRight, p.SideAdjacentTo(Location{Row: 2, Col: 3}))
	assert.Equal(t, SideBottom, p.SideAdjacentTo(Location{Row: 3, Col: 2}))
	assert.Equal(t, SideLeft, p.SideAdjacentTo(Location{Row: 2, Col: 1}))

	rotated := &Piece{Loc: Location{Row: 2, Col: 2}, Rotation: Rotation180}
	assert.Equal(t, SideBottom, rotated.SideAdjacentTo(Location{Row: 1, Col: 2}))
	assert.Equal(t, SideLeft, rotated.SideAdjacentTo(Location{Row: 2, Col: 3}))
}

func TestOrientToNeighbor_UnrotatedNeighbor(t *testing.T) {
	// An unrotated neighbor offers its right side; the candidate's left
	// side must face it without any turn.
	assert.Equal(t, Rotation0, OrientToNeighbor(SideLeft, SideRight, Rotation0))

	// The candidate's top side facing the neighbor's right side means the
	// candidate's top must point left on the board, a 270 degree turn.
	assert.Equal(t, Rotation270, OrientToNeighbor(SideTop, SideRight, Rotation0))
}

func TestOrientToNeighbor_RotatedNeighbor(t *testing.T) {
	// A neighbor rotated a quarter turn presents its local top edge to
	// the right of the board, so the candidate's left side mates with no
	// extra turn.
	assert.Equal(t, Rotation0, OrientToNeighbor(SideLeft, SideTop, Rotation90))
	assert.Equal(t, Rotation90, OrientToNeighbor(SideBottom, SideTop, Rotation90))
}

func TestOrientToNeighbor_AllPairsMate(t *testing.T) {
	// Whatever the pairing, the derived rotation must make the candidate
	// side face the neighbor side across the shared edge.
	for _, nRot := range []Rotation{Rotation0, Rotation90, Rotation180, Rotation270} {
		for _, nSide := range AllSides() {
			for _, cSide := range AllSides() {
				neighbor := &Piece{Loc: Location{Row: 1, Col: 1}, Rotation: nRot}
				dir := neighbor.AbsoluteDirection(nSide)
				candidate := &Piece{
					Loc:      neighbor.Loc.Neighbor(dir),
					Rotation: OrientToNeighbor(cSide, nSide, nRot),
				}
				require.Equal(t, cSide, candidate.SideAdjacentTo(neighbor.Loc),
					"neighbor rot %s side %s candidate side %s", nRot, nSide, cSide)
			}
		}
	}
}

func TestPuzzleType_ValidCandidateSides(t *testing.T) {
	assert.Equal(t, []Side{SideLeft}, TypeNoRotation.ValidCandidateSides(SideRight))
	assert.Equal(t, []Side{SideTop}, TypeNoRotation.ValidCandidateSides(SideBottom))

	all := TypeWithRotation.ValidCandidateSides(SideRight)
	assert.Equal(t, []Side{SideTop, SideRight, SideBottom, SideLeft}, all)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, TypeNoRotation, cfg.Type)
	assert.Equal(t, 1, cfg.TargetBoards)
	assert.Nil(t, cfg.FixedDimensions)
	assert.InDelta(t, 0.5, cfg.NewBoardThreshold, 1e-9)
	assert.True(t, cfg.ClearPoolOnSpawn)
	assert.True(t, cfg.VerifyInvariants)
}
