// Package multipuzzle bootstraps multi-image separation by iterative
// segmentation: solve everything as a single board, keep the large
// coherent segments, lock their pieces out and solve the remainder.
package multipuzzle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pwalden/jigsolver/internal/engine"
	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

var mpLog zerolog.Logger = log.With().Str("module", "multipuzzle").Logger()

// Config tunes the segmentation loop.
type Config struct {
	// MinSegmentSize stops the loop once the biggest segment of a round
	// falls below it, or once fewer unlocked pieces than it remain.
	MinSegmentSize int
}

// DefaultConfig returns the standard segmentation configuration.
func DefaultConfig() Config {
	return Config{MinSegmentSize: 10}
}

// RoundRecorder receives optional callbacks while segmentation runs,
// typically to save per-round board images and selected segments.
type RoundRecorder interface {
	RoundSolved(round int, eng *engine.Engine)
	SegmentSelected(round int, seg model.Segment, eng *engine.Engine)
}

// Controller drives the placement engine across segmentation rounds.
type Controller struct {
	cfg    Config
	eng    *engine.Engine
	pieces int

	segments       []model.Segment
	pieceToSegment map[int]int
	rounds         int

	// Recorder is optional; nil disables round callbacks.
	Recorder RoundRecorder
}

// New builds a controller over its own single-board engine. The solver
// configuration's board count is forced to one; fixed dimensions are
// rejected since round boards have no known shape.
func New(pieces []*model.Piece, o oracle.Oracle, solverCfg model.Config, cfg Config) (*Controller, error) {
	if cfg.MinSegmentSize < 1 {
		return nil, fmt.Errorf("%w: minimum segment size %d", engine.ErrConfig, cfg.MinSegmentSize)
	}
	if solverCfg.FixedDimensions != nil {
		return nil, fmt.Errorf("%w: segmentation cannot run with fixed board dimensions", engine.ErrConfig)
	}
	solverCfg.TargetBoards = 1

	eng, err := engine.New(pieces, o, solverCfg)
	if err != nil {
		return nil, err
	}
	return &Controller{
		cfg:            cfg,
		eng:            eng,
		pieces:         len(pieces),
		pieceToSegment: make(map[int]int),
	}, nil
}

// Run performs segmentation rounds until the stopping threshold, then
// re-enables placement of every piece so downstream consumers can use
// the engine normally.
func (c *Controller) Run() error {
	c.eng.AllowPlacementOfAllPieces()
	c.rounds = 0

	for {
		c.rounds++
		started := time.Now()
		mpLog.Info().Int("round", c.rounds).Msg("beginning segmentation round")

		// Round one runs on the engine's default state.
		if c.rounds > 1 {
			c.eng.ResetForRound()
		}
		if err := c.eng.Run(); err != nil {
			return err
		}
		if c.Recorder != nil {
			c.Recorder.RoundSolved(c.rounds, c.eng)
		}

		segments := c.eng.Segments(0)
		maxSize := 0
		for _, seg := range segments {
			if seg.Size() > maxSize {
				maxSize = seg.Size()
			}
		}
		for _, seg := range segments {
			if seg.Size() >= maxSize/2 {
				c.selectSegment(seg)
			}
		}

		remaining := c.pieces - len(c.pieceToSegment)
		mpLog.Info().
			Int("round", c.rounds).
			Int("max_segment", maxSize).
			Int("remaining", remaining).
			Dur("elapsed", time.Since(started)).
			Msg("segmentation round finished")

		if maxSize < c.cfg.MinSegmentSize || remaining < c.cfg.MinSegmentSize {
			break
		}
	}

	c.eng.AllowPlacementOfAllPieces()
	return nil
}

// selectSegment stamps the segment with a controller-level id, locks its
// pieces out of future rounds and records the piece mapping.
func (c *Controller) selectSegment(seg model.Segment) {
	ordinal := len(c.segments)
	seg.MultiID = uuid.NewString()
	seg.ID = ordinal
	c.segments = append(c.segments, seg)

	for _, pieceID := range seg.PieceIDs {
		c.eng.DisallowPlacement(pieceID)
		c.pieceToSegment[pieceID] = ordinal
	}
	mpLog.Info().
		Int("segment", ordinal).
		Str("multi_id", seg.MultiID).
		Int("pieces", seg.Size()).
		Msg("segment selected")

	if c.Recorder != nil {
		c.Recorder.SegmentSelected(c.rounds, seg, c.eng)
	}
}

// Engine exposes the underlying placement engine.
func (c *Controller) Engine() *engine.Engine { return c.eng }

// Segments returns the selected segments in selection order.
func (c *Controller) Segments() []model.Segment { return c.segments }

// PieceSegment reports which selected segment a piece belongs to.
func (c *Controller) PieceSegment(pieceID int) (int, bool) {
	ordinal, ok := c.pieceToSegment[pieceID]
	return ordinal, ok
}

// Rounds returns the number of completed segmentation rounds.
func (c *Controller) Rounds() int { return c.rounds }
