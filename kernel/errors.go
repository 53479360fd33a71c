package kernel

import "errors"

// ErrDimMismatch is returned when a store operation receives a vector
// whose dimension does not match the kernel's locked dimension.
var ErrDimMismatch = errors.New("kernel: dimension_mismatch")
