package engine

import (
	"fmt"
	"sort"

	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

// Checkpoint is a plain-data snapshot of the engine's full mutable
// state, taken between placements or between segmentation rounds. It
// contains everything needed to resume the grow phase: the oracle is
// rebuilt by the caller from the dataset and supplied to Restore.
type Checkpoint struct {
	RunID  string       `json:"run_id"`
	Config model.Config `json:"config"`

	Pieces   []model.Piece `json:"pieces"`
	Placed   []bool        `json:"placed"`
	Excluded []bool        `json:"excluded"`
	Unplaced int           `json:"unplaced"`

	Boards    []BoardCheckpoint `json:"boards"`
	OpenSlots []OpenSlot        `json:"open_slots"`

	Pool                []int       `json:"pool"`
	HeapEntries         []HeapEntry `json:"heap_entries"`
	HeapSeq             uint64      `json:"heap_seq"`
	LastCompactUnplaced int         `json:"last_compact_unplaced"`

	Accuracy []AccuracyCheckpoint `json:"accuracy"`
}

// BoardCheckpoint captures one board's occupancy and bounding box.
type BoardCheckpoint struct {
	ID          int              `json:"id"`
	Cells       []CellCheckpoint `json:"cells"`
	TopLeft     model.Location   `json:"top_left"`
	BottomRight model.Location   `json:"bottom_right"`
}

// CellCheckpoint is one occupied grid cell.
type CellCheckpoint struct {
	Loc   model.Location `json:"loc"`
	Piece int            `json:"piece"`
}

// BuddyRecord is one tracked best-buddy relation end.
type BuddyRecord struct {
	Piece int        `json:"piece"`
	Side  model.Side `json:"side"`
}

// AccuracyCheckpoint captures one board's accuracy buckets.
type AccuracyCheckpoint struct {
	Open    []BuddyRecord `json:"open"`
	Correct []BuddyRecord `json:"correct"`
	Wrong   []BuddyRecord `json:"wrong"`
}

// Snapshot captures the engine's current state. Cell and bucket listings
// are sorted so snapshots of identical states are byte-identical when
// serialized.
func (e *Engine) Snapshot() *Checkpoint {
	cp := &Checkpoint{
		RunID:               e.runID,
		Config:              e.cfg,
		Pieces:              make([]model.Piece, len(e.pieces)),
		Placed:              append([]bool(nil), e.placed...),
		Excluded:            append([]bool(nil), e.excluded...),
		Unplaced:            e.unplaced,
		OpenSlots:           append([]OpenSlot(nil), e.slots...),
		Pool:                append([]int(nil), e.queue.order...),
		HeapEntries:         append([]HeapEntry(nil), e.queue.entries...),
		HeapSeq:             e.queue.seq,
		LastCompactUnplaced: e.queue.lastCompactUnplaced,
	}
	for i, p := range e.pieces {
		cp.Pieces[i] = *p
	}
	for _, b := range e.boards {
		bc := BoardCheckpoint{ID: b.id, TopLeft: b.topLeft, BottomRight: b.bottomRight}
		for loc, piece := range b.occupancy {
			bc.Cells = append(bc.Cells, CellCheckpoint{Loc: loc, Piece: piece})
		}
		sort.Slice(bc.Cells, func(i, j int) bool {
			if bc.Cells[i].Loc.Row != bc.Cells[j].Loc.Row {
				return bc.Cells[i].Loc.Row < bc.Cells[j].Loc.Row
			}
			return bc.Cells[i].Loc.Col < bc.Cells[j].Loc.Col
		})
		cp.Boards = append(cp.Boards, bc)
	}
	for _, acc := range e.accuracy.boards {
		cp.Accuracy = append(cp.Accuracy, AccuracyCheckpoint{
			Open:    bucketRecords(acc.open),
			Correct: bucketRecords(acc.correct),
			Wrong:   bucketRecords(acc.wrong),
		})
	}
	return cp
}

func bucketRecords(bucket map[buddyKey]struct{}) []BuddyRecord {
	records := make([]BuddyRecord, 0, len(bucket))
	for key := range bucket {
		records = append(records, BuddyRecord{Piece: key.piece, Side: key.side})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Piece != records[j].Piece {
			return records[i].Piece < records[j].Piece
		}
		return records[i].Side < records[j].Side
	})
	return records
}

// Restore rebuilds an engine from a checkpoint and a freshly constructed
// oracle over the same dataset. The returned engine re-enters the main
// loop via RunFromRestored.
func Restore(cp *Checkpoint, o oracle.Oracle) (*Engine, error) {
	if len(cp.Pieces) == 0 || len(cp.Placed) != len(cp.Pieces) || len(cp.Excluded) != len(cp.Pieces) {
		return nil, fmt.Errorf("%w: checkpoint piece state is inconsistent", ErrConfig)
	}
	if o.PieceCount() != len(cp.Pieces) {
		return nil, fmt.Errorf("%w: checkpoint holds %d pieces but oracle has %d",
			ErrConfig, len(cp.Pieces), o.PieceCount())
	}

	e := &Engine{
		runID:     cp.RunID,
		cfg:       cp.Config,
		oracle:    o,
		pieces:    make([]*model.Piece, len(cp.Pieces)),
		placed:    append([]bool(nil), cp.Placed...),
		excluded:  append([]bool(nil), cp.Excluded...),
		unplaced:  cp.Unplaced,
		slots:     append([]OpenSlot(nil), cp.OpenSlots...),
		slotIndex: make(map[slotKey]struct{}, len(cp.OpenSlots)),
		accuracy:  newAccuracyTracker(),
	}
	for i := range cp.Pieces {
		p := cp.Pieces[i]
		e.pieces[i] = &p
	}
	for _, slot := range e.slots {
		e.slotIndex[slotKey{board: slot.BoardID, loc: slot.Loc}] = struct{}{}
	}
	for _, bc := range cp.Boards {
		b := &boardState{
			id:          bc.ID,
			occupancy:   make(map[model.Location]int, len(bc.Cells)),
			topLeft:     bc.TopLeft,
			bottomRight: bc.BottomRight,
		}
		for _, cell := range bc.Cells {
			b.occupancy[cell.Loc] = cell.Piece
		}
		e.boards = append(e.boards, b)
	}
	for range cp.Accuracy {
		e.accuracy.addBoard()
	}
	for i, acc := range cp.Accuracy {
		board := e.accuracy.boards[i]
		for _, r := range acc.Open {
			board.open[buddyKey{r.Piece, r.Side}] = struct{}{}
		}
		for _, r := range acc.Correct {
			board.correct[buddyKey{r.Piece, r.Side}] = struct{}{}
		}
		for _, r := range acc.Wrong {
			board.wrong[buddyKey{r.Piece, r.Side}] = struct{}{}
		}
	}

	e.queue = newBuddyQueue(o, cp.Config, cp.Unplaced)
	for _, id := range cp.Pool {
		e.queue.pool[id] = struct{}{}
	}
	e.queue.order = append([]int(nil), cp.Pool...)
	e.queue.entries = append(entryHeap(nil), cp.HeapEntries...)
	e.queue.seq = cp.HeapSeq
	e.queue.lastCompactUnplaced = cp.LastCompactUnplaced

	return e, nil
}
