// Package project handles on-disk persistence of solver run state.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/pwalden/jigsolver/internal/engine"
)

// CheckpointFilename builds the canonical checkpoint path for a dataset
// and segmentation round.
func CheckpointFilename(dir, dataset string, round int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_segment_round_%d.json", dataset, round))
}

// SaveCheckpoint writes the engine checkpoint to the specified file,
// creating parent directories if they do not exist.
func SaveCheckpoint(path string, cp *engine.Checkpoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := sonic.Marshal(cp)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCheckpoint reads an engine checkpoint from the specified file.
func LoadCheckpoint(path string) (*engine.Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cp engine.Checkpoint
	if err := sonic.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("project: decode checkpoint %s: %w", path, err)
	}
	return &cp, nil
}
