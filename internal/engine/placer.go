package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

// nextPlacement describes the candidate the engine decided to act on:
// which piece, into which slot, against which neighbor, and how
// confident the pairing is.
type nextPlacement struct {
	boardID      int
	loc          model.Location
	piece        int
	pieceSide    model.Side
	neighbor     int
	neighborSide model.Side
	compat       float64
	bestBuddy    bool
}

// Engine is the Paikin-Tal placement engine. One engine owns all state
// for a run: the piece collection, per-board grids, the best-buddy queue,
// open slots and accuracy counters. Engines are not safe for concurrent
// use; placement order is part of the algorithm's semantics.
type Engine struct {
	runID  string
	cfg    model.Config
	oracle oracle.Oracle

	pieces   []*model.Piece
	placed   []bool
	excluded []bool
	unplaced int

	boards    []*boardState
	queue     *buddyQueue
	slots     []OpenSlot
	slotIndex map[slotKey]struct{}
	accuracy  *accuracyTracker
}

// New validates the configuration and builds an engine over the piece
// collection and oracle. Piece ids must be dense, starting at zero.
func New(pieces []*model.Piece, o oracle.Oracle, cfg model.Config) (*Engine, error) {
	if cfg.TargetBoards < 0 {
		return nil, fmt.Errorf("%w: target board count %d is negative", ErrConfig, cfg.TargetBoards)
	}
	if cfg.FixedDimensions != nil && cfg.TargetBoards != 1 {
		return nil, fmt.Errorf("%w: fixed dimensions require exactly one board, got %d",
			ErrConfig, cfg.TargetBoards)
	}
	if cfg.Type != model.TypeNoRotation && cfg.Type != model.TypeWithRotation {
		return nil, fmt.Errorf("%w: unknown puzzle type %d", ErrConfig, cfg.Type)
	}
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: no pieces supplied", ErrConfig)
	}
	for i, p := range pieces {
		if p == nil || p.ID != i {
			return nil, fmt.Errorf("%w: piece ids must be dense from zero", ErrConfig)
		}
	}

	e := &Engine{
		runID:     uuid.NewString(),
		cfg:       cfg,
		oracle:    o,
		pieces:    pieces,
		placed:    make([]bool, len(pieces)),
		excluded:  make([]bool, len(pieces)),
		unplaced:  len(pieces),
		slotIndex: make(map[slotKey]struct{}),
		accuracy:  newAccuracyTracker(),
	}
	e.queue = newBuddyQueue(o, cfg, e.unplaced)

	engineLog.Info().
		Str("run_id", e.runID).
		Int("pieces", len(pieces)).
		Int("target_boards", cfg.TargetBoards).
		Msg("engine created")
	return e, nil
}

// RunID identifies this engine instance on logs and exports.
func (e *Engine) RunID() string { return e.runID }

// Config returns the engine's immutable configuration.
func (e *Engine) Config() model.Config { return e.cfg }

// Pieces exposes the piece collection. Callers must not mutate it.
func (e *Engine) Pieces() []*model.Piece { return e.pieces }

// Run places the seed piece and then grows boards until every eligible
// piece is placed. It returns an error on broken invariants; such errors
// indicate a bookkeeping bug and are never recoverable.
func (e *Engine) Run() error {
	if err := e.placeSeed(); err != nil {
		return err
	}
	return e.growLoop()
}

// RunFromRestored resumes the grow phase on an engine rebuilt from a
// checkpoint, skipping seed placement.
func (e *Engine) RunFromRestored() error {
	if len(e.boards) == 0 {
		return fmt.Errorf("%w: resume requested but no board exists", ErrInternalConsistency)
	}
	return e.growLoop()
}

func (e *Engine) growLoop() error {
	for e.unplaced > 0 {
		if e.unplaced%50 == 0 {
			engineLog.Info().Int("remaining", e.unplaced).Msg("placement progress")
			e.LogAccuracy()
		}

		next, err := e.selectNext()
		if err != nil {
			return err
		}

		if e.shouldSpawnBoard(next) {
			if err := e.spawnBoard(); err != nil {
				return err
			}
			continue
		}
		if err := e.placePiece(next); err != nil {
			return err
		}
	}

	engineLog.Info().Int("boards", len(e.boards)).Msg("placement complete")
	if e.cfg.VerifyInvariants {
		return e.verifyConservation()
	}
	return nil
}

// shouldSpawnBoard interprets a low-confidence candidate as "this piece
// starts a new image" while board capacity remains.
func (e *Engine) shouldSpawnBoard(next nextPlacement) bool {
	if next.compat >= e.cfg.NewBoardThreshold {
		return false
	}
	return e.cfg.TargetBoards == 0 || len(e.boards) < e.cfg.TargetBoards
}

// placeSeed starts a new board: the oracle picks the strongest remaining
// piece, which is placed unrotated at the center of a working grid large
// enough for any final board shape.
func (e *Engine) placeSeed() error {
	boardID := len(e.boards)
	seedID := e.oracle.SelectSeed(e.placed, boardID > 0)
	if seedID < 0 || seedID >= len(e.pieces) || e.placed[seedID] {
		return fmt.Errorf("%w: oracle selected invalid seed %d", ErrInternalConsistency, seedID)
	}

	center := model.Location{Row: len(e.pieces) / 2, Col: len(e.pieces) / 2}
	seed := e.pieces[seedID]
	seed.BoardID = boardID
	seed.Loc = center
	seed.Rotation = model.Rotation0
	e.markPlaced(seedID)

	e.boards = append(e.boards, newBoardState(boardID, center, seedID))
	e.queue.lastCompactUnplaced = e.unplaced
	e.accuracy.addBoard()
	e.updateAccuracy(boardID, seedID)

	e.queue.addCandidates(seedID, e.slots, e.placeable)
	e.openNeighborSlots(seed)

	engineLog.Info().Int("board", boardID).Int("seed", seedID).Msg("board seeded")
	return nil
}

func (e *Engine) spawnBoard() error {
	if e.cfg.ClearPoolOnSpawn {
		e.queue.reset(e.unplaced)
	}
	return e.placeSeed()
}

// selectNext returns the next piece to act on: the best pooled
// best-buddy pairing when the pool is non-empty, otherwise the single
// best pairing found by a full recompute-and-scan over all open slots
// and unplaced pieces.
func (e *Engine) selectNext() (nextPlacement, error) {
	if e.queue.poolLen() > 0 {
		e.queue.compactIfDue(e.unplaced, e.entryValid)
		entry, err := e.queue.popBest(e.isPlaced, e.isSlotOpen)
		if err != nil {
			return nextPlacement{}, err
		}
		return nextPlacement{
			boardID:      entry.BoardID,
			loc:          entry.Loc,
			piece:        entry.Candidate,
			pieceSide:    entry.CandidateSide,
			neighbor:     entry.Neighbor,
			neighborSide: entry.NeighborSide,
			compat:       entry.Compat,
			bestBuddy:    true,
		}, nil
	}
	return e.selectByRecompute()
}

// selectByRecompute is the expensive fallback used when the best-buddy
// heuristic is exhausted. Compatibilities are renormalized against the
// remaining pieces, then every open slot, unplaced piece and valid side
// pairing is scanned. Enumeration order is fixed (slots in insertion
// order, then piece ids ascending, then sides in canonical order) and
// the first strictly better pairing wins, so exact ties are
// deterministic.
func (e *Engine) selectByRecompute() (nextPlacement, error) {
	engineLog.Info().Int("remaining", e.unplaced).Msg("recomputing compatibilities")

	mask := make([]bool, len(e.placed))
	copy(mask, e.placed)
	for _, slot := range e.slots {
		mask[slot.PieceID] = false
	}
	e.oracle.Recalculate(e.placed, mask)

	var best nextPlacement
	found := false
	for _, slot := range e.slots {
		if !e.isSlotOpen(slot.BoardID, slot.Loc) {
			continue
		}
		for id := range e.pieces {
			if e.placed[id] {
				continue
			}
			for _, side := range e.cfg.Type.ValidCandidateSides(slot.OpenSide) {
				compat := e.oracle.MutualCompatibility(id, side, slot.PieceID, slot.OpenSide)
				if !found || compat > best.compat {
					best = nextPlacement{
						boardID:      slot.BoardID,
						loc:          slot.Loc,
						piece:        id,
						pieceSide:    side,
						neighbor:     slot.PieceID,
						neighborSide: slot.OpenSide,
						compat:       compat,
					}
					found = true
				}
			}
		}
	}
	if !found {
		return nextPlacement{}, fmt.Errorf("%w: %d pieces unplaced but no open slot accepts any",
			ErrInternalConsistency, e.unplaced)
	}
	return best, nil
}

// placePiece commits a candidate to its slot and updates every dependent
// structure: rotation, occupancy, bounding box, accuracy, the pool and
// the open-slot list.
func (e *Engine) placePiece(next nextPlacement) error {
	p := e.pieces[next.piece]
	neighbor := e.pieces[next.neighbor]

	p.Rotation = model.OrientToNeighbor(next.pieceSide, next.neighborSide, neighbor.Rotation)
	p.BoardID = next.boardID
	p.Loc = next.loc

	board := e.boards[next.boardID]
	if e.cfg.VerifyInvariants {
		if board.topLeft.Row > board.bottomRight.Row || board.topLeft.Col > board.bottomRight.Col {
			return fmt.Errorf("%w: board %d bounding box inverted", ErrInternalConsistency, next.boardID)
		}
	}
	board.updateBoundingBox(next.loc)
	board.place(next.loc, p.ID)

	e.updateAccuracy(next.boardID, p.ID)
	e.markPlaced(p.ID)
	e.removeOpenSlot(next.boardID, next.loc)
	if next.bestBuddy {
		if err := e.queue.removeFromPool(p.ID); err != nil {
			return err
		}
	}
	e.queue.addCandidates(p.ID, e.slots, e.placeable)
	e.openNeighborSlots(p)
	return nil
}

// openNeighborSlots opens the unfilled cells around a placed piece and
// pairs each new slot with every pooled candidate. Cells already open
// from an earlier placement keep their original opener.
func (e *Engine) openNeighborSlots(p *model.Piece) {
	for _, nc := range p.NeighborCells() {
		if !e.isSlotOpen(p.BoardID, nc.Loc) {
			continue
		}
		key := slotKey{board: p.BoardID, loc: nc.Loc}
		if _, exists := e.slotIndex[key]; exists {
			continue
		}
		slot := OpenSlot{BoardID: p.BoardID, Loc: nc.Loc, PieceID: p.ID, OpenSide: nc.Side}
		e.slots = append(e.slots, slot)
		e.slotIndex[key] = struct{}{}
		e.queue.addEntriesForSlot(slot)
	}
}

func (e *Engine) removeOpenSlot(boardID int, loc model.Location) {
	key := slotKey{board: boardID, loc: loc}
	if _, exists := e.slotIndex[key]; !exists {
		return
	}
	delete(e.slotIndex, key)
	for i, slot := range e.slots {
		if slot.BoardID == boardID && slot.Loc == loc {
			e.slots = append(e.slots[:i], e.slots[i+1:]...)
			break
		}
	}
}

func (e *Engine) markPlaced(pieceID int) {
	e.placed[pieceID] = true
	e.unplaced--
}

func (e *Engine) isPlaced(pieceID int) bool { return e.placed[pieceID] }

// placeable reports whether a piece may still enter the pool.
func (e *Engine) placeable(pieceID int) bool {
	return !e.placed[pieceID] && !e.excluded[pieceID]
}

func (e *Engine) isSlotOpen(boardID int, loc model.Location) bool {
	return e.boards[boardID].isSlotOpen(loc, e.cfg.FixedDimensions)
}

// entryValid is the compaction predicate: keep entries whose candidate
// is unplaced and whose slot is still open.
func (e *Engine) entryValid(entry HeapEntry) bool {
	return !e.placed[entry.Candidate] && e.isSlotOpen(entry.BoardID, entry.Loc)
}

// DisallowPlacement locks a piece out of future rounds. The lock takes
// effect at the next ResetForRound.
func (e *Engine) DisallowPlacement(pieceID int) {
	e.excluded[pieceID] = true
}

// AllowPlacementOfAllPieces clears every placement lock.
func (e *Engine) AllowPlacementOfAllPieces() {
	for i := range e.excluded {
		e.excluded[i] = false
	}
}

// ResetForRound clears all placement state for a fresh solve while
// honoring placement locks, and restores the oracle's default
// compatibilities.
func (e *Engine) ResetForRound() {
	e.unplaced = 0
	for i, p := range e.pieces {
		e.placed[i] = e.excluded[i]
		if !e.excluded[i] {
			p.BoardID = model.NoBoard
			p.Loc = model.Location{}
			p.Rotation = model.Rotation0
			e.unplaced++
		}
	}
	e.boards = nil
	e.slots = nil
	e.slotIndex = make(map[slotKey]struct{})
	e.accuracy = newAccuracyTracker()
	e.queue.reset(e.unplaced)
	e.oracle.RestoreDefaults()
}

// SolvedBoards partitions the pieces into per-board groups plus the
// pieces left unassigned.
func (e *Engine) SolvedBoards() (boards [][]*model.Piece, unassigned []*model.Piece) {
	boards = make([][]*model.Piece, len(e.boards))
	for _, p := range e.pieces {
		if p.BoardID < 0 || p.BoardID >= len(boards) {
			unassigned = append(unassigned, p)
			continue
		}
		boards[p.BoardID] = append(boards[p.BoardID], p)
	}
	return boards, unassigned
}

// AccuracySummary reports the per-board best-buddy accuracy counters.
func (e *Engine) AccuracySummary() []BoardAccuracy {
	return e.accuracy.summaries()
}

// LogAccuracy emits the accuracy counters for every board.
func (e *Engine) LogAccuracy() {
	for _, acc := range e.accuracy.summaries() {
		engineLog.Info().
			Int("board", acc.BoardID).
			Int("open", acc.Open).
			Int("correct", acc.Correct).
			Int("wrong", acc.Wrong).
			Msg("best-buddy accuracy")
	}
}

// verifyConservation asserts that after full placement no relation is
// still open and that every best-buddy relation in the dataset landed in
// exactly one bucket. Skipped while pieces are locked out, since their
// relations are never tracked.
func (e *Engine) verifyConservation() error {
	for _, locked := range e.excluded {
		if locked {
			return nil
		}
	}
	total := 0
	for _, acc := range e.accuracy.summaries() {
		if acc.Open != 0 {
			return fmt.Errorf("%w: board %d has %d open best buddies after full placement",
				ErrInternalConsistency, acc.BoardID, acc.Open)
		}
		total += acc.Open + acc.Correct + acc.Wrong
	}
	if expected := e.oracle.TotalBestBuddyCount(); total != expected {
		return fmt.Errorf("%w: best-buddy conservation failed: tracked %d, dataset has %d",
			ErrInternalConsistency, total, expected)
	}
	return nil
}
