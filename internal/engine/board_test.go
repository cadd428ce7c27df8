package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalden/jigsolver/internal/model"
)

func TestBoardState_Occupancy(t *testing.T) {
	seed := model.Location{Row: 5, Col: 5}
	b := newBoardState(0, seed, 7)

	id, ok := b.pieceAt(seed)
	require.True(t, ok)
	assert.Equal(t, 7, id)

	_, ok = b.pieceAt(model.Location{Row: 4, Col: 5})
	assert.False(t, ok)

	b.place(model.Location{Row: 4, Col: 5}, 3)
	id, ok = b.pieceAt(model.Location{Row: 4, Col: 5})
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestBoardState_BoundingBox(t *testing.T) {
	seed := model.Location{Row: 5, Col: 5}
	b := newBoardState(0, seed, 0)
	assert.Equal(t, seed, b.topLeft)
	assert.Equal(t, seed, b.bottomRight)

	assert.True(t, b.updateBoundingBox(model.Location{Row: 4, Col: 5}))
	assert.True(t, b.updateBoundingBox(model.Location{Row: 5, Col: 7}))
	assert.False(t, b.updateBoundingBox(model.Location{Row: 5, Col: 6}), "interior cell must not grow the box")

	assert.Equal(t, model.Location{Row: 4, Col: 5}, b.topLeft)
	assert.Equal(t, model.Location{Row: 5, Col: 7}, b.bottomRight)
}

func TestBoardState_WithinDimensions(t *testing.T) {
	seed := model.Location{Row: 5, Col: 5}
	b := newBoardState(0, seed, 0)
	b.updateBoundingBox(model.Location{Row: 5, Col: 6})
	b.place(model.Location{Row: 5, Col: 6}, 1)

	assert.True(t, b.withinDimensions(model.Location{Row: 5, Col: 7}, nil), "nil dimensions never constrain")

	dims := &model.Dimensions{Rows: 2, Cols: 2}
	// The box spans columns 5..6 already, so a third column is out.
	assert.False(t, b.withinDimensions(model.Location{Row: 5, Col: 7}, dims))
	assert.False(t, b.withinDimensions(model.Location{Row: 5, Col: 4}, dims))
	// Rows still have headroom.
	assert.True(t, b.withinDimensions(model.Location{Row: 6, Col: 5}, dims))
	assert.True(t, b.withinDimensions(model.Location{Row: 4, Col: 6}, dims))
}

func TestBoardState_IsSlotOpen(t *testing.T) {
	seed := model.Location{Row: 5, Col: 5}
	b := newBoardState(0, seed, 0)

	assert.False(t, b.isSlotOpen(seed, nil), "occupied cell is never open")
	assert.True(t, b.isSlotOpen(model.Location{Row: 5, Col: 6}, nil))

	dims := &model.Dimensions{Rows: 1, Cols: 2}
	assert.True(t, b.isSlotOpen(model.Location{Row: 5, Col: 6}, dims))
	assert.False(t, b.isSlotOpen(model.Location{Row: 6, Col: 5}, dims), "second row exceeds the fixed height")
}
