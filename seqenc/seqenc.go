// Package seqenc implements the sequence encoder: given a
// sequence of tokens and parallel positions, resolve each token to a unit
// vector via a symbol.Space, circular-permute it by its position, sum, and
// L2-normalize. It also provides the two tokenization strategies the
// cognitive adapter drives it with — letter/digit-run text tokenization and
// fixed-width k-mer windowing over an arbitrary byte sequence.
package seqenc

import (
	"strings"
	"unicode"

	"github.com/axonforge/hdkernel/symbol"
	"github.com/axonforge/hdkernel/tensor"
)

// Encode resolves each token in space, circular-permutes it by its parallel
// position, sums the results, and L2-normalizes. If positions is nil, the
// default pᵢ = i mod D is used, where D is the space's dimension after
// resolving the first token. Returns the zero tensor of the space's
// dimension if tokens is empty.
func Encode(space *symbol.Space, tokens []string, positions []int) tensor.Tensor {
	if len(tokens) == 0 {
		return tensor.New(space.Dim())
	}

	vecs := make([]tensor.Tensor, len(tokens))
	for i, tok := range tokens {
		vecs[i] = space.Resolve(tok)
	}
	dim := vecs[0].Len()

	pos := positions
	if pos == nil {
		pos = make([]int, len(tokens))
		for i := range pos {
			pos[i] = i % dim
		}
	}

	permuted := make([]tensor.Tensor, len(vecs))
	for i, v := range vecs {
		permuted[i] = tensor.Permute(v, pos[i])
	}
	return tensor.Bundle(true, permuted...)
}

// Tokenize splits text into lowercased letter/digit runs, matching the data
// stream's textual tokenization rule.
func Tokenize(text string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(unicode.ToLower(r))
			continue
		}
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// KMerize splits input into overlapping windows of size k with stride s,
// capped at maxKmers windows, and returns each window as a token alongside
// its position i mod max(1, dim). k, s, and maxKmers must be positive;
// inputs shorter than k yield a single window covering all of input.
func KMerize(input string, k, s, maxKmers, dim int) (tokens []string, positions []int) {
	if k <= 0 || s <= 0 || maxKmers <= 0 {
		return nil, nil
	}
	runes := []rune(input)
	if len(runes) == 0 {
		return nil, nil
	}
	if len(runes) <= k {
		return []string{string(runes)}, []int{0}
	}

	mod := posMod(dim)
	for start := 0; start+k <= len(runes) && len(tokens) < maxKmers; start += s {
		tokens = append(tokens, string(runes[start:start+k]))
		positions = append(positions, len(tokens)-1)
	}
	for i := range positions {
		positions[i] %= mod
	}
	return tokens, positions
}

func posMod(dim int) int {
	if dim <= 0 {
		return 1
	}
	return dim
}
