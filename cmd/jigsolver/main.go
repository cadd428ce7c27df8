// jigsolver is a Paikin-Tal jigsaw placement solver.
//
// Reconstructs one or more scrambled images from a precomputed
// piece-distance dataset, optionally running iterative segmentation to
// separate multiple mixed-together images.
//
// Build:
//   go build -o jigsolver ./cmd/jigsolver
//
// Usage:
//   jigsolver -dataset pieces.json -boards 2 -out results/
//   jigsolver -dataset pieces.json -multipuzzle -report -workbook

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pwalden/jigsolver/internal/engine"
	"github.com/pwalden/jigsolver/internal/export"
	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/multipuzzle"
	"github.com/pwalden/jigsolver/internal/oracle"
	"github.com/pwalden/jigsolver/internal/project"
)

func main() {
	datasetPath := flag.String("dataset", "", "path to the piece-distance dataset (JSON)")
	boards := flag.Int("boards", 1, "maximum number of boards to spawn (0 = unbounded)")
	typ := flag.Int("type", 0, "puzzle type override: 1 = no rotation, 2 = with rotation (0 = from dataset)")
	threshold := flag.Float64("threshold", 0.5, "minimum mutual compatibility before spawning a new board")
	rows := flag.Int("rows", 0, "fixed board rows (requires -boards 1)")
	cols := flag.Int("cols", 0, "fixed board columns (requires -boards 1)")
	outDir := flag.String("out", "out", "output directory")
	multi := flag.Bool("multipuzzle", false, "run iterative segmentation instead of a plain solve")
	report := flag.Bool("report", false, "write a PDF report")
	workbook := flag.Bool("workbook", false, "write an XLSX workbook")
	checkpoint := flag.Bool("checkpoint", false, "write an engine checkpoint after the run")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	if *datasetPath == "" {
		log.Fatal().Msg("-dataset is required")
	}

	ds, err := oracle.LoadDataset(*datasetPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load dataset")
	}
	if *typ != 0 {
		ds.PuzzleType = model.PuzzleType(*typ)
	}
	o, err := ds.Oracle()
	if err != nil {
		log.Fatal().Err(err).Msg("build oracle")
	}

	cfg := model.DefaultConfig()
	cfg.Type = ds.PuzzleType
	cfg.TargetBoards = *boards
	cfg.NewBoardThreshold = *threshold
	if *rows > 0 && *cols > 0 {
		cfg.FixedDimensions = &model.Dimensions{Rows: *rows, Cols: *cols}
	}

	pieces := model.NewPieceSet(o.PieceCount())

	var eng *engine.Engine
	if *multi {
		ctrl, err := multipuzzle.New(pieces, o, cfg, multipuzzle.DefaultConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("configure segmentation")
		}
		ctrl.Recorder = &export.PNGRecorder{Dir: filepath.Join(*outDir, "rounds")}
		if err := ctrl.Run(); err != nil {
			log.Fatal().Err(err).Msg("segmentation failed")
		}
		log.Info().
			Int("rounds", ctrl.Rounds()).
			Int("segments", len(ctrl.Segments())).
			Msg("segmentation finished")
		eng = ctrl.Engine()
	} else {
		eng, err = engine.New(pieces, o, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("configure solver")
		}
		if err := eng.Run(); err != nil {
			log.Fatal().Err(err).Msg("solve failed")
		}
	}

	eng.LogAccuracy()
	solved, unassigned := eng.SolvedBoards()

	for i, board := range solved {
		if len(board) == 0 {
			continue
		}
		img, err := export.ComposeBoard(board, nil, 16)
		if err != nil {
			log.Error().Err(err).Int("board", i).Msg("compose board")
			continue
		}
		path := filepath.Join(*outDir, "boards", fmt.Sprintf("board_%d.png", i))
		if err := export.WritePNG(path, img); err != nil {
			log.Error().Err(err).Str("path", path).Msg("write board image")
		}
	}

	if *report {
		path := filepath.Join(*outDir, "report.pdf")
		if err := export.WriteReport(path, solved, eng.AccuracySummary(), eng.RunID()); err != nil {
			log.Error().Err(err).Msg("write report")
		}
	}
	if *workbook {
		path := filepath.Join(*outDir, "results.xlsx")
		if err := export.WriteWorkbook(path, solved, unassigned, eng.AccuracySummary()); err != nil {
			log.Error().Err(err).Msg("write workbook")
		}
	}
	if *checkpoint {
		path := project.CheckpointFilename(*outDir, ds.Name, 0)
		if err := project.SaveCheckpoint(path, eng.Snapshot()); err != nil {
			log.Error().Err(err).Msg("write checkpoint")
		}
	}
}
