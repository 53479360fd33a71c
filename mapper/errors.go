// Package mapper implements the binary mapper codec: a
// self-describing, versioned little-endian serialization of a symbol
// space and reflex store to/from a single "bcmap" file.
package mapper

import "errors"

var (
	ErrInvalidMagic        = errors.New("mapper: invalid_mapper_magic")
	ErrVersionUnsupported  = errors.New("mapper: mapper_version_unsupported")
	ErrInvalidDim          = errors.New("mapper: invalid_mapper_dim")
	ErrCountTooLarge       = errors.New("mapper: mapper_count_too_large")
	ErrMetaCountTooLarge   = errors.New("mapper: mapper_meta_count_too_large")
	ErrStringLengthExceeded = errors.New("mapper: string_length_exceeded")
	ErrReadFailed          = errors.New("mapper: mapper_read_failed")
)
