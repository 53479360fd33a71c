// Package episodic implements the log-structured hierarchical episodic
// memory: a bounded ring of recent raw traces plus a fixed
// number of levels of exponentially-growing-span merged summary blocks,
// built by carrying a fresh single-step block through the levels exactly
// the way a binary counter carries a bit — at most one merge per level per
// insertion, leaving the number of valid levels equal to popcount(N) after
// N stores.
package episodic

import (
	"sync"

	"github.com/axonforge/hdkernel/tensor"
)

const (
	// DefaultLevels is the default number of hierarchy levels (L).
	DefaultLevels = 32
	// DefaultRecentCap is the default bound on the raw recent-trace queue (R).
	DefaultRecentCap = 256
)

// TraceBlock is a merged summary at some hierarchy level.
type TraceBlock struct {
	Valid     bool
	Summary   tensor.Tensor
	StartStep int64
	EndStep   int64
	Span      int64
}

// recentEntry is a single raw trace in the bounded recent queue.
type recentEntry struct {
	vector tensor.Tensor
	step   int64
}

// Store is a thread-safe episodic memory: a bounded recent-trace queue plus
// a fixed-size level hierarchy of merged TraceBlocks. The zero value is not
// usable; use New.
type Store struct {
	mu sync.Mutex

	dim       int
	dimLocked bool

	levels []TraceBlock
	recent []recentEntry
	recCap int

	step int64
}

// New returns a Store with the given number of levels and recent-queue
// capacity. Non-positive values fall back to DefaultLevels/DefaultRecentCap.
func New(levels, recentCap int) *Store {
	if levels <= 0 {
		levels = DefaultLevels
	}
	if recentCap <= 0 {
		recentCap = DefaultRecentCap
	}
	return &Store{
		levels: make([]TraceBlock, levels),
		recCap: recentCap,
	}
}

// Step returns the current monotonic step counter (the number of
// successful Store calls so far).
func (s *Store) Step() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Dim returns the store's locked dimension, or 0 if nothing has been stored
// yet.
func (s *Store) Dim() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dim
}

// Store flattens and L2-normalizes v, validates it against the store's
// locked dimension (the first successful Store call locks it), advances the
// step counter, pushes the raw trace onto the bounded recent queue, and
// carry-merges a fresh span-1 block through the level hierarchy.
func (s *Store) Store(v tensor.Tensor) error {
	flat := tensor.L2Normalize(v.Flatten())

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dimLocked {
		s.dim = flat.Len()
		s.dimLocked = true
	} else if flat.Len() != s.dim {
		return ErrDimMismatch
	}

	s.step++
	step := s.step

	s.recent = append(s.recent, recentEntry{vector: flat, step: step})
	if len(s.recent) > s.recCap {
		s.recent = s.recent[len(s.recent)-s.recCap:]
	}

	block := TraceBlock{Valid: true, Summary: flat, StartStep: step, EndStep: step, Span: 1}
	for l := 0; l < len(s.levels); l++ {
		if !s.levels[l].Valid {
			s.levels[l] = block
			return nil
		}
		block = merge(s.levels[l], block)
		s.levels[l] = TraceBlock{}
	}
	// Overflow: every level was occupied; the fully carried block merges
	// into place at the last level instead of being discarded.
	s.levels[len(s.levels)-1] = block
	return nil
}

// merge combines an older block with a newer one: the summary is the
// L2-normalized span-weighted sum of both summaries, and the span/interval
// are the union of the two.
func merge(older, newer TraceBlock) TraceBlock {
	weightedOld := tensor.Scale(older.Summary, float64(older.Span))
	weightedNew := tensor.Scale(newer.Summary, float64(newer.Span))
	summary := tensor.L2Normalize(tensor.Bundle(false, weightedOld, weightedNew))

	start := older.StartStep
	if newer.StartStep < start {
		start = newer.StartStep
	}
	end := older.EndStep
	if newer.EndStep > end {
		end = newer.EndStep
	}
	return TraceBlock{
		Valid:     true,
		Summary:   summary,
		StartStep: start,
		EndStep:   end,
		Span:      older.Span + newer.Span,
	}
}

// Levels returns a deep copy of the level hierarchy, indexed 0 (finest) to
// L-1 (coarsest).
func (s *Store) Levels() []TraceBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TraceBlock, len(s.levels))
	for i, lv := range s.levels {
		if lv.Valid {
			lv.Summary = lv.Summary.Clone()
		}
		out[i] = lv
	}
	return out
}

// SpanConservation returns the sum of Span across all valid levels, which
// must equal the number of successful Store calls.
func (s *Store) SpanConservation() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, lv := range s.levels {
		if lv.Valid {
			total += lv.Span
		}
	}
	return total
}

// ValidLevelCount returns the number of occupied levels, which after N
// Store calls equals popcount(N).
func (s *Store) ValidLevelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, lv := range s.levels {
		if lv.Valid {
			n++
		}
	}
	return n
}
