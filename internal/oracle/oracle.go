// Package oracle provides the compatibility scoring service consumed by
// the placement engine: best-buddy lookup, mutual compatibility between
// (piece, side) pairs, restricted recalculation and seed selection.
package oracle

import "github.com/pwalden/jigsolver/internal/model"

// Buddy references one side of a piece, as the target of a best-buddy
// relation.
type Buddy struct {
	Piece int        `json:"piece"`
	Side  model.Side `json:"side"`
}

// Oracle scores piece pairings for the placement engine. Implementations
// must be deterministic: identical inputs and call sequences must yield
// identical answers, because placement order is part of the algorithm's
// semantics.
type Oracle interface {
	// BestBuddies returns the mutual best buddies of the given piece
	// side. At most one buddy per side is reported.
	BestBuddies(piece int, side model.Side) []Buddy

	// MutualCompatibility scores the pairing of two piece sides. Higher
	// is better.
	MutualCompatibility(piece int, side model.Side, other int, otherSide model.Side) float64

	// Recalculate renormalizes compatibilities against the remaining
	// pieces. placed marks pieces already on a board; placedOrOpen
	// additionally clears pieces that currently border an open slot, so
	// their pairings are rescored too.
	Recalculate(placed, placedOrOpen []bool)

	// RestoreDefaults resets any restriction applied by Recalculate.
	RestoreDefaults()

	// SelectSeed picks the best starting piece among the unplaced ones.
	// rerank is set when seeding any board after the first, asking the
	// oracle to re-rank the remaining candidates.
	SelectSeed(placed []bool, rerank bool) int

	// TotalBestBuddyCount reports the number of (piece, side) relations
	// in the dataset that have a mutual best buddy. The count is a
	// dataset property and does not change across recalculations.
	TotalBestBuddyCount() int

	// PieceCount returns the number of pieces in the dataset.
	PieceCount() int
}
