package symbol

import "errors"

var (
	// ErrMissingToken indicates an empty token was passed where a non-empty
	// token (after trim+lowercase normalization) is required.
	ErrMissingToken = errors.New("symbol: missing_token")
	// ErrEmptyVector indicates a caller tried to Define a token with a
	// zero-length vector.
	ErrEmptyVector = errors.New("symbol: empty_symbol_vector")
	// ErrDimMismatch indicates a vector's element count does not match the
	// space's locked dimension.
	ErrDimMismatch = errors.New("symbol: symbol_dim_mismatch")
)
