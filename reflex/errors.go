package reflex

import "errors"

// ErrMissingReflexID indicates Promote was called with an empty (after
// normalization) reflex id.
var ErrMissingReflexID = errors.New("reflex: missing_reflex_id")
