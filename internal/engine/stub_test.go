package engine

import (
	"github.com/pwalden/jigsolver/internal/model"
	"github.com/pwalden/jigsolver/internal/oracle"
)

// stubOracle is a scripted Oracle for engine tests: best-buddy relations
// and pairing scores are declared up front, so placement traces are
// fully predictable.
type stubOracle struct {
	n       int
	buddies map[buddyKey]oracle.Buddy
	compat  map[[4]int]float64
	base    float64

	recalcs  int
	restores int
}

func newStubOracle(n int) *stubOracle {
	return &stubOracle{
		n:       n,
		buddies: make(map[buddyKey]oracle.Buddy),
		compat:  make(map[[4]int]float64),
		base:    0.01,
	}
}

// link declares a mutual best-buddy seam between two piece sides with
// the given mutual compatibility.
func (s *stubOracle) link(a int, as model.Side, b int, bs model.Side, compat float64) {
	s.buddies[buddyKey{a, as}] = oracle.Buddy{Piece: b, Side: bs}
	s.buddies[buddyKey{b, bs}] = oracle.Buddy{Piece: a, Side: as}
	s.compat[[4]int{a, int(as), b, int(bs)}] = compat
	s.compat[[4]int{b, int(bs), a, int(as)}] = compat
}

func (s *stubOracle) BestBuddies(piece int, side model.Side) []oracle.Buddy {
	if bb, ok := s.buddies[buddyKey{piece, side}]; ok {
		return []oracle.Buddy{bb}
	}
	return nil
}

func (s *stubOracle) MutualCompatibility(piece int, side model.Side, other int, otherSide model.Side) float64 {
	if c, ok := s.compat[[4]int{piece, int(side), other, int(otherSide)}]; ok {
		return c
	}
	return s.base
}

func (s *stubOracle) Recalculate(placed, placedOrOpen []bool) { s.recalcs++ }

func (s *stubOracle) RestoreDefaults() { s.restores++ }

func (s *stubOracle) SelectSeed(placed []bool, rerank bool) int {
	for i := 0; i < s.n; i++ {
		if !placed[i] {
			return i
		}
	}
	return -1
}

func (s *stubOracle) TotalBestBuddyCount() int { return len(s.buddies) }

func (s *stubOracle) PieceCount() int { return s.n }

// quadOracle wires the 2x2 arrangement
//
//	0 1
//	2 3
//
// with every seam a mutual best buddy and distinct scores pinning the
// placement order to 1, 2, 3.
func quadOracle() *stubOracle {
	s := newStubOracle(4)
	s.link(0, model.SideRight, 1, model.SideLeft, 0.95)
	s.link(0, model.SideBottom, 2, model.SideTop, 0.90)
	s.link(1, model.SideBottom, 3, model.SideTop, 0.85)
	s.link(2, model.SideRight, 3, model.SideLeft, 0.80)
	return s
}

// rightOf reports whether b sits directly right of a on the same board.
func rightOf(a, b *model.Piece) bool {
	return a.BoardID == b.BoardID && b.Loc.Row == a.Loc.Row && b.Loc.Col == a.Loc.Col+1
}

// below reports whether b sits directly below a on the same board.
func below(a, b *model.Piece) bool {
	return a.BoardID == b.BoardID && b.Loc.Col == a.Loc.Col && b.Loc.Row == a.Loc.Row+1
}
