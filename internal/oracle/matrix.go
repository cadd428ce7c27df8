package oracle

import (
	"fmt"
	"math"

	"github.com/pwalden/jigsolver/internal/model"
)

// MatrixOracle is an in-memory Oracle backed by a raw piece-to-piece
// distance tensor indexed as dist[piece][side][piece][side]. Distances
// are converted to asymmetric compatibilities by normalizing against the
// second-best distance for each (piece, side), so a pairing that is far
// ahead of its runner-up scores close to 1.
type MatrixOracle struct {
	typ  model.PuzzleType
	n    int
	dist [][][][]float64

	// eligible restricts the candidate set used for normalization.
	// All pieces are eligible until Recalculate narrows it.
	eligible []bool

	compat  [][][][]float64
	buddies [][]*Buddy
	totalBB int
}

// NewMatrixOracle validates the distance tensor shape and computes the
// initial compatibilities and mutual best-buddy relations.
func NewMatrixOracle(typ model.PuzzleType, dist [][][][]float64) (*MatrixOracle, error) {
	n := len(dist)
	if n == 0 {
		return nil, fmt.Errorf("oracle: empty distance tensor")
	}
	for a := range dist {
		if len(dist[a]) != model.NumSides {
			return nil, fmt.Errorf("oracle: piece %d has %d sides, want %d", a, len(dist[a]), model.NumSides)
		}
		for s := range dist[a] {
			if len(dist[a][s]) != n {
				return nil, fmt.Errorf("oracle: piece %d side %d has %d targets, want %d", a, s, len(dist[a][s]), n)
			}
			for b := range dist[a][s] {
				if len(dist[a][s][b]) != model.NumSides {
					return nil, fmt.Errorf("oracle: piece %d side %d target %d has %d sides, want %d",
						a, s, b, len(dist[a][s][b]), model.NumSides)
				}
			}
		}
	}

	o := &MatrixOracle{
		typ:      typ,
		n:        n,
		dist:     dist,
		eligible: make([]bool, n),
	}
	for i := range o.eligible {
		o.eligible[i] = true
	}
	o.computeCompatibilities()
	o.computeBestBuddies()
	return o, nil
}

// computeCompatibilities fills the compat tensor for the current
// eligible set. The asymmetric compatibility of (a, s) toward (b, t) is
// 1 - dist/secondBest(a, s), where the second-best distance is taken
// over all eligible candidates for that side.
func (o *MatrixOracle) computeCompatibilities() {
	if o.compat == nil {
		o.compat = make([][][][]float64, o.n)
		for a := range o.compat {
			o.compat[a] = make([][][]float64, model.NumSides)
			for s := range o.compat[a] {
				o.compat[a][s] = make([][]float64, o.n)
				for b := range o.compat[a][s] {
					o.compat[a][s][b] = make([]float64, model.NumSides)
				}
			}
		}
	}

	for a := 0; a < o.n; a++ {
		for _, s := range model.AllSides() {
			second := o.secondBestDistance(a, s)
			for b := 0; b < o.n; b++ {
				if b == a || !o.eligible[b] {
					continue
				}
				for _, t := range o.typ.ValidCandidateSides(s) {
					d := o.dist[a][s][b][t]
					if second <= 0 {
						if d <= 0 {
							o.compat[a][s][b][t] = 1
						} else {
							o.compat[a][s][b][t] = -d
						}
						continue
					}
					o.compat[a][s][b][t] = 1 - d/second
				}
			}
		}
	}
}

// secondBestDistance returns the second-smallest distance from (a, s) to
// any eligible candidate pairing, or -1 when fewer than two candidates
// exist.
func (o *MatrixOracle) secondBestDistance(a int, s model.Side) float64 {
	best, second := math.Inf(1), math.Inf(1)
	for b := 0; b < o.n; b++ {
		if b == a || !o.eligible[b] {
			continue
		}
		for _, t := range o.typ.ValidCandidateSides(s) {
			d := o.dist[a][s][b][t]
			if d < best {
				second = best
				best = d
			} else if d < second {
				second = d
			}
		}
	}
	if math.IsInf(second, 1) {
		return -1
	}
	return second
}

// bestMatch returns the candidate pairing with the minimum distance from
// (a, s) over the full piece set. Ties resolve to the lowest piece id,
// then the earliest side in canonical order.
func (o *MatrixOracle) bestMatch(a int, s model.Side) (int, model.Side, bool) {
	bestPiece, bestSide := -1, model.SideTop
	best := math.Inf(1)
	for b := 0; b < o.n; b++ {
		if b == a {
			continue
		}
		for _, t := range o.typ.ValidCandidateSides(s) {
			if d := o.dist[a][s][b][t]; d < best {
				best = d
				bestPiece, bestSide = b, t
			}
		}
	}
	return bestPiece, bestSide, bestPiece >= 0
}

// computeBestBuddies freezes the mutual best-buddy relations. Best
// buddies are a dataset property: (a, s) and (b, t) are buddies iff each
// is the other's minimum-distance match.
func (o *MatrixOracle) computeBestBuddies() {
	o.buddies = make([][]*Buddy, o.n)
	o.totalBB = 0
	for a := 0; a < o.n; a++ {
		o.buddies[a] = make([]*Buddy, model.NumSides)
		for _, s := range model.AllSides() {
			b, t, ok := o.bestMatch(a, s)
			if !ok {
				continue
			}
			ra, rs, ok := o.bestMatch(b, t)
			if ok && ra == a && rs == s {
				o.buddies[a][s] = &Buddy{Piece: b, Side: t}
				o.totalBB++
			}
		}
	}
}

func (o *MatrixOracle) BestBuddies(piece int, side model.Side) []Buddy {
	if bb := o.buddies[piece][side]; bb != nil {
		return []Buddy{*bb}
	}
	return nil
}

func (o *MatrixOracle) MutualCompatibility(piece int, side model.Side, other int, otherSide model.Side) float64 {
	return (o.compat[piece][side][other][otherSide] + o.compat[other][otherSide][piece][side]) / 2
}

// Recalculate renormalizes compatibilities against the still-unplaced
// pieces. Pieces adjacent to open slots (cleared in placedOrOpen) get
// their outgoing scores refreshed as well, since they are the reference
// ends of the pairings the engine is about to scan.
func (o *MatrixOracle) Recalculate(placed, placedOrOpen []bool) {
	for i := range o.eligible {
		o.eligible[i] = !placedOrOpen[i]
	}
	o.computeCompatibilities()
}

// RestoreDefaults widens the candidate set back to every piece and
// recomputes compatibilities.
func (o *MatrixOracle) RestoreDefaults() {
	for i := range o.eligible {
		o.eligible[i] = true
	}
	o.computeCompatibilities()
}

// SelectSeed ranks unplaced pieces by the summed mutual compatibility of
// their best-buddy relations and returns the highest scorer. Ties
// resolve to the lowest piece id. The ranking is computed fresh on every
// call, so the rerank flag is satisfied implicitly.
func (o *MatrixOracle) SelectSeed(placed []bool, rerank bool) int {
	_ = rerank
	bestID := -1
	bestScore := math.Inf(-1)
	for p := 0; p < o.n; p++ {
		if placed[p] {
			continue
		}
		score := 0.0
		for _, s := range model.AllSides() {
			if bb := o.buddies[p][s]; bb != nil {
				score += o.MutualCompatibility(p, s, bb.Piece, bb.Side)
			}
		}
		if score > bestScore {
			bestScore = score
			bestID = p
		}
	}
	return bestID
}

func (o *MatrixOracle) TotalBestBuddyCount() int {
	return o.totalBB
}

func (o *MatrixOracle) PieceCount() int {
	return o.n
}
