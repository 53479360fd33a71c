package adapter

import (
	"github.com/axonforge/hdkernel/seqenc"
	"github.com/axonforge/hdkernel/symbol"
	"github.com/axonforge/hdkernel/tensor"
)

// Fold-hash offsets used by Encode's numeric path:
// three coprime-ish multiplicative constants, each reduced mod dim to
// produce a slot index per input element.
const (
	foldOffset1 = 2654435761 // Knuth's multiplicative hash constant
	foldOffset2 = 40503      // odd, coprime with most power-of-two dims
	foldOffset3 = 2246822519 // large odd constant (xxhash prime)
)

// ResolveDim picks the encoding dimension: dim_hint if positive, else the
// symbol space's locked dimension, else the episodic store's dimension,
// else cfg.DefaultDim.
func ResolveDim(cfg Config, dimHint, symbolDim, episodicDim int) int {
	if dimHint > 0 {
		return dimHint
	}
	if symbolDim > 0 {
		return symbolDim
	}
	if episodicDim > 0 {
		return episodicDim
	}
	return cfg.DefaultDim
}

// Encode builds the target hypervector for a data stream. Numeric/tensor
// payloads are folded into a dim-length
// accumulator by three multiplicative-hash offsets per index; textual
// payloads are tokenized on letter/digit runs and positionally encoded by
// the sequence encoder.
func Encode(space *symbol.Space, datasetType, payload string, dim int) tensor.Tensor {
	switch datasetTypeKind(datasetType) {
	case "numeric":
		return foldNumeric(parseNumerics(payload), dim)
	default:
		tokens := seqenc.Tokenize(payload)
		positions := make([]int, len(tokens))
		for i := range tokens {
			positions[i] = i % dim
		}
		return seqenc.Encode(space, tokens, positions)
	}
}

func datasetTypeKind(datasetType string) string {
	switch datasetType {
	case "tensor", "numeric":
		return "numeric"
	default:
		return "text"
	}
}

// foldNumeric folds values into a hypervector: for each
// input value at index i, add it at slot h1(i), subtract half at slot
// h2(i), add half at slot h3(i), then L2-normalize the accumulator.
func foldNumeric(values []float64, dim int) tensor.Tensor {
	acc := make([]float32, dim)
	if dim <= 0 {
		return tensor.FromFlat(acc)
	}
	for i, v := range values {
		h1 := foldSlot(i, foldOffset1, dim)
		h2 := foldSlot(i, foldOffset2, dim)
		h3 := foldSlot(i, foldOffset3, dim)
		acc[h1] += float32(v)
		acc[h2] -= float32(v) / 2
		acc[h3] += float32(v) / 2
	}
	return tensor.L2Normalize(tensor.FromFlat(acc))
}

func foldSlot(index int, offset uint64, dim int) int {
	return int((uint64(index+1) * offset) % uint64(dim))
}
