package engine

import (
	"sort"

	"github.com/pwalden/jigsolver/internal/model"
)

// Segments extracts the confidently placed regions of a solved board:
// connected components over edges where two adjacent pieces are mutual
// best buddies on their facing sides. Mere grid adjacency is not enough,
// since a single-board run packs every piece into one connected blob;
// the best-buddy glue is what separates coherent regions from filler.
//
// Extraction order is deterministic: locations are visited sorted by
// (row, col) and expansion follows canonical side order.
func (e *Engine) Segments(boardID int) []model.Segment {
	board := e.boards[boardID]

	locs := make([]model.Location, 0, len(board.occupancy))
	for loc := range board.occupancy {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Row != locs[j].Row {
			return locs[i].Row < locs[j].Row
		}
		return locs[i].Col < locs[j].Col
	})

	visited := make(map[model.Location]struct{}, len(locs))
	var segments []model.Segment

	for _, start := range locs {
		if _, seen := visited[start]; seen {
			continue
		}
		seg := model.Segment{ID: len(segments), BoardID: boardID}
		frontier := []model.Location{start}
		visited[start] = struct{}{}

		for len(frontier) > 0 {
			loc := frontier[0]
			frontier = frontier[1:]
			pieceID, _ := board.pieceAt(loc)
			seg.PieceIDs = append(seg.PieceIDs, pieceID)

			for _, nc := range e.pieces[pieceID].NeighborCells() {
				neighborID, occupied := board.pieceAt(nc.Loc)
				if !occupied {
					continue
				}
				if _, seen := visited[nc.Loc]; seen {
					continue
				}
				if !e.buddiesAcross(pieceID, nc.Side, neighborID) {
					continue
				}
				visited[nc.Loc] = struct{}{}
				frontier = append(frontier, nc.Loc)
			}
		}
		segments = append(segments, seg)
	}
	return segments
}

// buddiesAcross reports whether the placed piece's side points at its
// mutual best buddy sitting in the adjacent cell with the matching side
// facing back.
func (e *Engine) buddiesAcross(pieceID int, side model.Side, neighborID int) bool {
	bbs := e.oracle.BestBuddies(pieceID, side)
	if len(bbs) == 0 || bbs[0].Piece != neighborID {
		return false
	}
	neighborSide := e.pieces[neighborID].SideAdjacentTo(e.pieces[pieceID].Loc)
	return bbs[0].Side == neighborSide
}
