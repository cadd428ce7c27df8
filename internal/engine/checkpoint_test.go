package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalden/jigsolver/internal/model"
)

func TestSnapshotRestore_MidRunRoundtrip(t *testing.T) {
	pieces := model.NewPieceSet(4)
	eng, err := New(pieces, quadOracle(), model.DefaultConfig())
	require.NoError(t, err)

	// Seed plus one placement, then freeze.
	require.NoError(t, eng.placeSeed())
	next, err := eng.selectNext()
	require.NoError(t, err)
	require.NoError(t, eng.placePiece(next))

	cp := eng.Snapshot()
	assert.Equal(t, eng.RunID(), cp.RunID)
	assert.Equal(t, 2, cp.Unplaced)
	assert.Equal(t, []bool{true, true, false, false}, cp.Placed)

	restored, err := Restore(cp, quadOracle())
	require.NoError(t, err)
	assert.Equal(t, eng.RunID(), restored.RunID())
	assert.Equal(t, eng.unplaced, restored.unplaced)
	assert.Equal(t, eng.slots, restored.slots)
	assert.Equal(t, eng.queue.order, restored.queue.order)
	assert.Equal(t, eng.queue.seq, restored.queue.seq)
	assert.Equal(t, eng.queue.entries.Len(), restored.queue.entries.Len())

	// The resumed run must land exactly where an uninterrupted one does.
	reference := model.NewPieceSet(4)
	refEng, err := New(reference, quadOracle(), model.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, refEng.Run())

	require.NoError(t, restored.RunFromRestored())
	for i, p := range restored.Pieces() {
		assert.Equal(t, reference[i].BoardID, p.BoardID, "piece %d board", i)
		assert.Equal(t, reference[i].Rotation, p.Rotation, "piece %d rotation", i)
		// Both runs seed at the same center, so absolute cells agree.
		assert.Equal(t, reference[i].Loc, p.Loc, "piece %d location", i)
	}

	summary := restored.AccuracySummary()
	require.Len(t, summary, 1)
	assert.Equal(t, BoardAccuracy{BoardID: 0, Open: 0, Correct: 8, Wrong: 0}, summary[0])
}

func TestSnapshot_BucketsAndCellsSorted(t *testing.T) {
	pieces := model.NewPieceSet(4)
	eng, err := New(pieces, quadOracle(), model.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, eng.Run())

	cp := eng.Snapshot()
	require.Len(t, cp.Boards, 1)
	cells := cp.Boards[0].Cells
	require.Len(t, cells, 4)
	for i := 1; i < len(cells); i++ {
		prev, cur := cells[i-1].Loc, cells[i].Loc
		assert.True(t, prev.Row < cur.Row || (prev.Row == cur.Row && prev.Col < cur.Col),
			"cells must be sorted by row then column")
	}

	require.Len(t, cp.Accuracy, 1)
	correct := cp.Accuracy[0].Correct
	require.Len(t, correct, 8)
	for i := 1; i < len(correct); i++ {
		prev, cur := correct[i-1], correct[i]
		assert.True(t, prev.Piece < cur.Piece || (prev.Piece == cur.Piece && prev.Side < cur.Side),
			"bucket records must be sorted by piece then side")
	}
}

func TestRestore_Validation(t *testing.T) {
	_, err := Restore(&Checkpoint{}, newStubOracle(0))
	assert.ErrorIs(t, err, ErrConfig)

	pieces := model.NewPieceSet(4)
	eng, err := New(pieces, quadOracle(), model.DefaultConfig())
	require.NoError(t, err)
	cp := eng.Snapshot()

	_, err = Restore(cp, newStubOracle(9))
	assert.ErrorIs(t, err, ErrConfig, "oracle must cover the checkpointed piece set")
}

func TestRunFromRestored_RequiresBoard(t *testing.T) {
	pieces := model.NewPieceSet(4)
	eng, err := New(pieces, quadOracle(), model.DefaultConfig())
	require.NoError(t, err)

	err = eng.RunFromRestored()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternalConsistency)
}
