package model

// Segment is a group of pieces from one solved board that are glued
// together by mutual best-buddy relations. Segments are extracted after
// a single-board solve and consumed by the multipuzzle controller.
type Segment struct {
	// ID is the segment's ordinal within its extraction pass.
	ID int `json:"id"`

	// BoardID is the board the segment was extracted from.
	BoardID int `json:"board_id"`

	// MultiID is stamped by the multipuzzle controller when the segment
	// is selected; empty until then.
	MultiID string `json:"multi_id,omitempty"`

	// PieceIDs lists the member pieces in discovery order.
	PieceIDs []int `json:"piece_ids"`
}

// Size returns the number of pieces in the segment.
func (s Segment) Size() int {
	return len(s.PieceIDs)
}
