package mapper

// Magic is the 8-byte file signature every bcmap file begins with.
const Magic = "BCMAPBIN"

// Supported format versions. Version 2 is backward
// compatible: every reflex implicitly has a vector and no symbol id, and
// carries no per-reflex flags field at all.
const (
	Version2 uint32 = 2
	Version3 uint32 = 3
)

// Bounds enforced on load.
const (
	MaxCount       = 100_000_000
	MaxMetaCount   = 1_000_000
	MaxStringBytes = 16 * 1024 * 1024
)

// Reflex flag bits (version 3+).
const (
	flagHasVector   = 1 << 0
	flagHasSymbolID = 1 << 1
)
