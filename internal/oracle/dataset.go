package oracle

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/pwalden/jigsolver/internal/model"
)

// Dataset is the on-disk form of a puzzle: a name, the puzzle type and
// the raw distance tensor indexed as distances[piece][side][piece][side].
// How the distances were measured is outside this module's scope.
type Dataset struct {
	Name       string           `json:"name"`
	PuzzleType model.PuzzleType `json:"puzzle_type"`
	Distances  [][][][]float64  `json:"distances"`
}

// LoadDataset reads and decodes a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: read dataset: %w", err)
	}
	var ds Dataset
	if err := sonic.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("oracle: decode dataset %s: %w", path, err)
	}
	if ds.PuzzleType != model.TypeNoRotation && ds.PuzzleType != model.TypeWithRotation {
		return nil, fmt.Errorf("oracle: dataset %s: unknown puzzle type %d", path, ds.PuzzleType)
	}
	return &ds, nil
}

// Oracle builds a MatrixOracle over the dataset's distance tensor.
func (d *Dataset) Oracle() (*MatrixOracle, error) {
	return NewMatrixOracle(d.PuzzleType, d.Distances)
}
