// Package engine implements the Paikin-Tal placement engine: priority
// driven best-buddy placement over one or more growing boards, with a
// global-recompute fallback, board spawning and accuracy tracking.
package engine

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrConfig reports invalid constructor arguments. Construction
	// fails before any work begins.
	ErrConfig = errors.New("invalid solver configuration")

	// ErrInternalConsistency reports a broken engine invariant: a heap
	// exhausted while candidates remain pooled, a best-buddy count that
	// fails conservation, or removal of a non-pooled candidate. It is
	// always fatal and never retried.
	ErrInternalConsistency = errors.New("internal consistency violation")
)

// engineLog carries the module field on every engine event.
var engineLog zerolog.Logger = log.With().Str("module", "engine").Logger()
