package export

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pwalden/jigsolver/internal/engine"
	"github.com/pwalden/jigsolver/internal/model"
)

var exportLog zerolog.Logger = log.With().Str("module", "export").Logger()

// PNGRecorder saves each segmentation round's solved board and every
// selected segment as PNG files under Dir. It satisfies the multipuzzle
// controller's RoundRecorder interface.
type PNGRecorder struct {
	Dir   string
	Cell  int
	Tiles TileSet
}

// RoundSolved writes the round's single solved board.
func (r *PNGRecorder) RoundSolved(round int, eng *engine.Engine) {
	boards, _ := eng.SolvedBoards()
	if len(boards) == 0 || len(boards[0]) == 0 {
		return
	}
	img, err := ComposeBoard(boards[0], r.Tiles, r.cell())
	if err != nil {
		exportLog.Warn().Err(err).Int("round", round).Msg("compose round board")
		return
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("single_puzzle_round%04d.png", round))
	if err := WritePNG(path, img); err != nil {
		exportLog.Warn().Err(err).Str("path", path).Msg("write round image")
	}
}

// SegmentSelected writes the selected segment's pieces.
func (r *PNGRecorder) SegmentSelected(round int, seg model.Segment, eng *engine.Engine) {
	img, err := ComposeSegment(seg, eng.Pieces(), r.Tiles, r.cell())
	if err != nil {
		exportLog.Warn().Err(err).Int("segment", seg.ID).Msg("compose segment")
		return
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("segment_number%d.png", seg.ID))
	if err := WritePNG(path, img); err != nil {
		exportLog.Warn().Err(err).Str("path", path).Msg("write segment image")
	}
}

func (r *PNGRecorder) cell() int {
	if r.Cell < 1 {
		return 16
	}
	return r.Cell
}
