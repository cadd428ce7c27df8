package engine

import (
	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

// buddyKey identifies one end of a best-buddy relation.
type buddyKey struct {
	piece int
	side  model.Side
}

// boardAccuracy buckets each tracked best-buddy relation on one board as
// open (buddy not yet placed), correct (buddy sits in the matching
// neighboring slot) or wrong. A relation lives in exactly one bucket at
// a time; transitions move keys, never duplicate them.
type boardAccuracy struct {
	open    map[buddyKey]struct{}
	correct map[buddyKey]struct{}
	wrong   map[buddyKey]struct{}
}

func newBoardAccuracy() *boardAccuracy {
	return &boardAccuracy{
		open:    make(map[buddyKey]struct{}),
		correct: make(map[buddyKey]struct{}),
		wrong:   make(map[buddyKey]struct{}),
	}
}

type accuracyTracker struct {
	boards []*boardAccuracy
}

func newAccuracyTracker() *accuracyTracker {
	return &accuracyTracker{}
}

func (t *accuracyTracker) addBoard() {
	t.boards = append(t.boards, newBoardAccuracy())
}

func (t *accuracyTracker) addOpen(board int, piece int, side model.Side) {
	b := t.boards[board]
	key := buddyKey{piece, side}
	if _, done := b.correct[key]; done {
		return
	}
	if _, done := b.wrong[key]; done {
		return
	}
	b.open[key] = struct{}{}
}

func (t *accuracyTracker) deleteOpen(board int, piece int, side model.Side) {
	delete(t.boards[board].open, buddyKey{piece, side})
}

func (t *accuracyTracker) addCorrect(board int, piece int, side model.Side) {
	b := t.boards[board]
	key := buddyKey{piece, side}
	delete(b.open, key)
	if _, done := b.wrong[key]; done {
		return
	}
	b.correct[key] = struct{}{}
}

func (t *accuracyTracker) addWrong(board int, piece int, side model.Side) {
	b := t.boards[board]
	key := buddyKey{piece, side}
	delete(b.open, key)
	if _, done := b.correct[key]; done {
		return
	}
	b.wrong[key] = struct{}{}
}

// BoardAccuracy is the per-board accuracy summary exposed to callers.
type BoardAccuracy struct {
	BoardID int `json:"board_id"`
	Open    int `json:"open"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

func (t *accuracyTracker) summaries() []BoardAccuracy {
	out := make([]BoardAccuracy, len(t.boards))
	for i, b := range t.boards {
		out[i] = BoardAccuracy{
			BoardID: i,
			Open:    len(b.open),
			Correct: len(b.correct),
			Wrong:   len(b.wrong),
		}
	}
	return out
}

// updateAccuracy classifies the best-buddy relations touched by a newly
// placed piece. For every neighboring cell: an occupied matching buddy
// marks both ends correct; a buddy already placed elsewhere marks both
// ends wrong (recorded on the buddy's board); a buddy still unplaced
// behind an empty cell is recorded open until resolved.
func (e *Engine) updateAccuracy(boardID int, placedID int) {
	p := e.pieces[placedID]
	board := e.boards[boardID]

	for _, nc := range p.NeighborCells() {
		neighborID, occupied := board.pieceAt(nc.Loc)

		var placedBB *oracle.Buddy
		if bbs := e.oracle.BestBuddies(placedID, nc.Side); len(bbs) > 0 {
			placedBB = &bbs[0]
		}

		if occupied {
			neighborSide := e.pieces[neighborID].SideAdjacentTo(p.Loc)
			if len(e.oracle.BestBuddies(neighborID, neighborSide)) > 0 {
				// The neighbor's relation is settled either way now
				// that a piece sits beside it.
				e.accuracy.deleteOpen(boardID, neighborID, neighborSide)
				if placedBB != nil && placedBB.Piece == neighborID && placedBB.Side == neighborSide {
					e.accuracy.addCorrect(boardID, neighborID, neighborSide)
					e.accuracy.addCorrect(boardID, placedID, nc.Side)
					continue
				}
			}
		}

		if placedBB == nil {
			continue
		}
		if e.placed[placedBB.Piece] {
			bbBoard := e.pieces[placedBB.Piece].BoardID
			if bbBoard == model.NoBoard {
				// Locked out of this run; its relations are not tracked.
				continue
			}
			e.accuracy.deleteOpen(bbBoard, placedBB.Piece, placedBB.Side)
			e.accuracy.addWrong(bbBoard, placedBB.Piece, placedBB.Side)
			e.accuracy.addWrong(bbBoard, placedID, nc.Side)
		} else if !occupied {
			e.accuracy.addOpen(boardID, placedID, nc.Side)
		}
	}
}
