package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalden/jigsolver/internal/model"
)

func placedPiece(id, row, col int) *model.Piece {
	return &model.Piece{ID: id, BoardID: 0, Loc: model.Location{Row: row, Col: col}}
}

func TestComposeBoard_NormalizesOrigin(t *testing.T) {
	pieces := []*model.Piece{
		placedPiece(0, 10, 10),
		placedPiece(1, 10, 11),
		placedPiece(2, 11, 10),
	}

	img, err := ComposeBoard(pieces, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())

	// Palette fill for piece 0 lands in the top-left cell.
	c := piecePalette[0]
	r, g, b, a := img.At(1, 1).RGBA()
	assert.Equal(t, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255},
		color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})

	// The unoccupied bottom-right cell stays transparent.
	_, _, _, a = img.At(6, 6).RGBA()
	assert.Zero(t, a)
}

func TestComposeBoard_Errors(t *testing.T) {
	_, err := ComposeBoard(nil, nil, 4)
	assert.Error(t, err)

	_, err = ComposeBoard([]*model.Piece{placedPiece(0, 0, 0)}, nil, 0)
	assert.Error(t, err)
}

func TestComposeBoard_UsesTiles(t *testing.T) {
	tile := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			tile.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	tiles := TileSet{0: tile}

	img, err := ComposeBoard([]*model.Piece{placedPiece(0, 0, 0)}, tiles, 2)
	require.NoError(t, err)

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint8(10), uint8(r>>8))
	assert.Equal(t, uint8(20), uint8(g>>8))
	assert.Equal(t, uint8(30), uint8(b>>8))
}

func TestComposeSegment_FiltersMembers(t *testing.T) {
	pieces := []*model.Piece{
		placedPiece(0, 0, 0),
		placedPiece(1, 0, 1),
		placedPiece(2, 0, 2),
	}
	seg := model.Segment{ID: 0, PieceIDs: []int{0, 1}}

	img, err := ComposeSegment(seg, pieces, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Bounds(), "members span two cells, not three")

	_, err = ComposeSegment(model.Segment{ID: 1, PieceIDs: []int{9}}, pieces, nil, 4)
	assert.Error(t, err)
}

func TestRotateTile(t *testing.T) {
	tile := image.NewRGBA(image.Rect(0, 0, 2, 2))
	mark := color.RGBA{R: 255, A: 255}
	tile.Set(0, 0, mark)

	// A quarter turn clockwise moves the top-left texel to the top-right.
	got := rotateTile(tile, model.Rotation90)
	r, _, _, _ := got.At(1, 0).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8))

	got = rotateTile(tile, model.Rotation180)
	r, _, _, _ = got.At(1, 1).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8))

	got = rotateTile(tile, model.Rotation270)
	r, _, _, _ = got.At(0, 1).RGBA()
	assert.Equal(t, uint8(255), uint8(r>>8))
}

func TestWritePNG_CreatesDirectories(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	path := filepath.Join(t.TempDir(), "a", "b", "out.png")

	require.NoError(t, WritePNG(path, img))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
