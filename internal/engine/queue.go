package engine

import (
	"container/heap"
	"fmt"

	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

// OpenSlot is one unfilled cell adjacent to a placed piece. PieceID and
// OpenSide identify the placed neighbor that opened the slot and the
// piece-local side of that neighbor facing the cell. At most one slot
// exists per (board, location); the first opener wins.
type OpenSlot struct {
	BoardID  int            `json:"board_id"`
	Loc      model.Location `json:"loc"`
	PieceID  int            `json:"piece_id"`
	OpenSide model.Side     `json:"open_side"`
}

type slotKey struct {
	board int
	loc   model.Location
}

// HeapEntry pairs a pooled best-buddy candidate with an open slot. An
// entry may go stale after creation (candidate placed or slot filled);
// staleness is resolved lazily at pop time or in bulk during compaction.
type HeapEntry struct {
	Candidate     int            `json:"candidate"`
	CandidateSide model.Side     `json:"candidate_side"`
	Neighbor      int            `json:"neighbor"`
	NeighborSide  model.Side     `json:"neighbor_side"`
	BoardID       int            `json:"board_id"`
	Loc           model.Location `json:"loc"`
	Compat        float64        `json:"compat"`

	// Seq is a monotonically increasing insertion number used as the
	// secondary ordering key, keeping exact-compatibility ties
	// deterministic for a fixed insertion sequence.
	Seq uint64 `json:"seq"`
}

// entryHeap is a max-heap over mutual compatibility with insertion order
// as the tie break.
type entryHeap []HeapEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Compat != h[j].Compat {
		return h[i].Compat > h[j].Compat
	}
	return h[i].Seq < h[j].Seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(HeapEntry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// buddyQueue owns the pool of placeable best-buddy candidates and the
// lazily invalidated heap of candidate/slot pairings.
type buddyQueue struct {
	oracle oracle.Oracle
	typ    model.PuzzleType

	minHeapSize int
	minInterval int

	pool  map[int]struct{}
	order []int // pool iteration order; maps are not deterministic

	entries entryHeap
	seq     uint64

	// lastCompactUnplaced records the unplaced count at the last
	// compaction (or reset), gating compaction frequency.
	lastCompactUnplaced int
}

func newBuddyQueue(o oracle.Oracle, cfg model.Config, unplaced int) *buddyQueue {
	return &buddyQueue{
		oracle:              o,
		typ:                 cfg.Type,
		minHeapSize:         cfg.CompactMinHeapSize,
		minInterval:         cfg.CompactMinInterval,
		pool:                make(map[int]struct{}),
		lastCompactUnplaced: unplaced,
	}
}

func (q *buddyQueue) poolLen() int { return len(q.pool) }

func (q *buddyQueue) inPool(pieceID int) bool {
	_, ok := q.pool[pieceID]
	return ok
}

func (q *buddyQueue) push(e HeapEntry) {
	e.Seq = q.seq
	q.seq++
	heap.Push(&q.entries, e)
}

// addCandidates registers the unplaced best buddies of a newly placed
// piece. Each new candidate is paired with every current open slot
// across all valid side pairings.
func (q *buddyQueue) addCandidates(placedPiece int, slots []OpenSlot, placeable func(int) bool) {
	for _, side := range model.AllSides() {
		for _, bb := range q.oracle.BestBuddies(placedPiece, side) {
			if !placeable(bb.Piece) || q.inPool(bb.Piece) {
				continue
			}
			q.pool[bb.Piece] = struct{}{}
			q.order = append(q.order, bb.Piece)

			for _, slot := range slots {
				for _, candSide := range q.typ.ValidCandidateSides(slot.OpenSide) {
					q.push(HeapEntry{
						Candidate:     bb.Piece,
						CandidateSide: candSide,
						Neighbor:      slot.PieceID,
						NeighborSide:  slot.OpenSide,
						BoardID:       slot.BoardID,
						Loc:           slot.Loc,
						Compat:        q.oracle.MutualCompatibility(bb.Piece, candSide, slot.PieceID, slot.OpenSide),
					})
				}
			}
		}
	}
}

// addEntriesForSlot pairs every pooled candidate with a newly opened
// slot.
func (q *buddyQueue) addEntriesForSlot(slot OpenSlot) {
	for _, candidate := range q.order {
		for _, candSide := range q.typ.ValidCandidateSides(slot.OpenSide) {
			q.push(HeapEntry{
				Candidate:     candidate,
				CandidateSide: candSide,
				Neighbor:      slot.PieceID,
				NeighborSide:  slot.OpenSide,
				BoardID:       slot.BoardID,
				Loc:           slot.Loc,
				Compat:        q.oracle.MutualCompatibility(candidate, candSide, slot.PieceID, slot.OpenSide),
			})
		}
	}
}

// popBest pops entries by descending mutual compatibility, discarding
// stale ones, until a valid pairing surfaces. Exhausting the heap while
// candidates remain pooled means a candidate/slot pairing was never
// pushed, which is a broken invariant.
func (q *buddyQueue) popBest(placed func(int) bool, slotOpen func(int, model.Location) bool) (HeapEntry, error) {
	for q.entries.Len() > 0 {
		e := heap.Pop(&q.entries).(HeapEntry)
		if placed(e.Candidate) || !slotOpen(e.BoardID, e.Loc) {
			continue
		}
		return e, nil
	}
	return HeapEntry{}, fmt.Errorf("%w: best-buddy heap exhausted with %d pooled candidates",
		ErrInternalConsistency, len(q.pool))
}

// removeFromPool drops a candidate that has just been placed. The
// candidate must be pooled; anything else is a programming error.
func (q *buddyQueue) removeFromPool(pieceID int) error {
	if !q.inPool(pieceID) {
		return fmt.Errorf("%w: piece %d removed from pool but not pooled", ErrInternalConsistency, pieceID)
	}
	delete(q.pool, pieceID)
	for i, id := range q.order {
		if id == pieceID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	return nil
}

// compactIfDue rebuilds the heap without stale entries once it has grown
// past the configured minimum size and enough placements have happened
// since the last compaction. Compaction never removes a valid entry, so
// placement order is unaffected.
func (q *buddyQueue) compactIfDue(unplaced int, valid func(HeapEntry) bool) {
	if q.entries.Len() < q.minHeapSize || q.lastCompactUnplaced-unplaced < q.minInterval {
		return
	}
	q.compact(unplaced, valid)
}

func (q *buddyQueue) compact(unplaced int, valid func(HeapEntry) bool) {
	kept := q.entries[:0]
	removed := 0
	for _, e := range q.entries {
		if valid(e) {
			kept = append(kept, e)
		} else {
			removed++
		}
	}
	q.entries = kept
	heap.Init(&q.entries)
	q.lastCompactUnplaced = unplaced

	engineLog.Debug().
		Int("removed", removed).
		Int("kept", q.entries.Len()).
		Msg("compacted best-buddy heap")
}

// reset clears the pool and heap, used when spawning a board without
// carrying placement state across.
func (q *buddyQueue) reset(unplaced int) {
	q.pool = make(map[int]struct{})
	q.order = nil
	q.entries = nil
	q.lastCompactUnplaced = unplaced
}
