// Package export renders solver results to PNG images, PDF reports and
// XLSX workbooks.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/pwalden/jigsolver/internal/model"
)

// TileSet maps piece ids to their rasters, oriented at rotation zero.
// A nil TileSet renders flat palette colors instead, which is useful
// when only the distance dataset is available.
type TileSet map[int]image.Image

// pieceColor is the flat fill used when no tile exists for a piece.
type pieceColor struct {
	R, G, B uint8
}

var piecePalette = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// ComposeBoard renders the placed pieces of one board into a raster
// with cell-by-cell tiles. Grid coordinates are normalized so the
// board's bounding box starts at the image origin.
func ComposeBoard(pieces []*model.Piece, tiles TileSet, cell int) (*image.RGBA, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("export: no pieces to compose")
	}
	if cell < 1 {
		return nil, fmt.Errorf("export: cell size %d", cell)
	}

	minRow, minCol := pieces[0].Loc.Row, pieces[0].Loc.Col
	maxRow, maxCol := minRow, minCol
	for _, p := range pieces[1:] {
		if p.Loc.Row < minRow {
			minRow = p.Loc.Row
		}
		if p.Loc.Row > maxRow {
			maxRow = p.Loc.Row
		}
		if p.Loc.Col < minCol {
			minCol = p.Loc.Col
		}
		if p.Loc.Col > maxCol {
			maxCol = p.Loc.Col
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, (maxCol-minCol+1)*cell, (maxRow-minRow+1)*cell))
	for _, p := range pieces {
		x := (p.Loc.Col - minCol) * cell
		y := (p.Loc.Row - minRow) * cell
		dst := image.Rect(x, y, x+cell, y+cell)
		if err := drawPiece(out, dst, p, tiles, cell); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ComposeSegment renders only the segment's member pieces; the rest of
// the board stays transparent.
func ComposeSegment(seg model.Segment, pieces []*model.Piece, tiles TileSet, cell int) (*image.RGBA, error) {
	members := make(map[int]struct{}, seg.Size())
	for _, id := range seg.PieceIDs {
		members[id] = struct{}{}
	}
	var selected []*model.Piece
	for _, p := range pieces {
		if _, ok := members[p.ID]; ok {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("export: segment %d has no placed pieces", seg.ID)
	}
	return ComposeBoard(selected, tiles, cell)
}

func drawPiece(out *image.RGBA, dst image.Rectangle, p *model.Piece, tiles TileSet, cell int) error {
	tile, ok := tiles[p.ID]
	if !ok {
		c := piecePalette[p.ID%len(piecePalette)]
		fill := image.NewUniform(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		xdraw.Draw(out, dst, fill, image.Point{}, xdraw.Src)
		return nil
	}

	scaled := image.NewRGBA(image.Rect(0, 0, cell, cell))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), tile, tile.Bounds(), xdraw.Src, nil)
	rotated := rotateTile(scaled, p.Rotation)
	xdraw.Draw(out, dst, rotated, image.Point{}, xdraw.Src)
	return nil
}

// rotateTile rotates a square tile clockwise by the piece rotation.
func rotateTile(tile *image.RGBA, r model.Rotation) *image.RGBA {
	if r == model.Rotation0 {
		return tile
	}
	n := tile.Bounds().Dx()
	out := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			var tx, ty int
			switch r {
			case model.Rotation90:
				tx, ty = n-1-y, x
			case model.Rotation180:
				tx, ty = n-1-x, n-1-y
			default: // Rotation270
				tx, ty = y, n-1-x
			}
			out.Set(tx, ty, tile.At(tile.Bounds().Min.X+x, tile.Bounds().Min.Y+y))
		}
	}
	return out
}

// WritePNG encodes the image to the given path, creating parent
// directories as needed.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
