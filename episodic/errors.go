package episodic

import "errors"

// ErrDimMismatch indicates a stored vector's element count does not match
// the store's locked dimension.
var ErrDimMismatch = errors.New("episodic: dimension_mismatch")
