package model

// Dimensions is a fixed target board size in grid cells.
type Dimensions struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Config holds the solver configuration. It is passed by value at
// construction and never mutated afterwards.
type Config struct {
	// Type selects the legal side pairings (see PuzzleType).
	Type PuzzleType `json:"type"`

	// TargetBoards is the maximum number of boards the engine may
	// spawn. Zero means unbounded: a new board is started whenever the
	// best candidate falls below NewBoardThreshold.
	TargetBoards int `json:"target_boards"`

	// FixedDimensions, when set, caps every board to the given span.
	// Only valid when TargetBoards is exactly 1.
	FixedDimensions *Dimensions `json:"fixed_dimensions,omitempty"`

	// NewBoardThreshold is the minimum mutual compatibility a candidate
	// must reach to be placed instead of triggering a board spawn.
	NewBoardThreshold float64 `json:"new_board_threshold"`

	// ClearPoolOnSpawn drops the best-buddy pool and heap when a new
	// board is seeded, so placement state does not carry across boards.
	ClearPoolOnSpawn bool `json:"clear_pool_on_spawn"`

	// CompactMinHeapSize and CompactMinInterval gate heap compaction:
	// the heap is rebuilt only once it holds at least CompactMinHeapSize
	// entries and at least CompactMinInterval placements have happened
	// since the previous compaction.
	CompactMinHeapSize int `json:"compact_min_heap_size"`
	CompactMinInterval int `json:"compact_min_interval"`

	// VerifyInvariants enables the end-of-run best-buddy conservation
	// check and the bounding-box ordering assertion. Violations surface
	// as internal-consistency errors.
	VerifyInvariants bool `json:"verify_invariants"`
}

// DefaultConfig returns the standard solver configuration.
func DefaultConfig() Config {
	return Config{
		Type:               TypeNoRotation,
		TargetBoards:       1,
		NewBoardThreshold:  0.5,
		ClearPoolOnSpawn:   true,
		CompactMinHeapSize: 1_000_000,
		CompactMinInterval: 100,
		VerifyInvariants:   true,
	}
}
