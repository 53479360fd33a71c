package episodic

import "github.com/axonforge/hdkernel/tensor"

// Result is the outcome of a recall query, shared by RecallSimilar and
// RecallStepsAgo.
type Result struct {
	Found      bool
	Value      tensor.Tensor
	Similarity float64 // 0 for step-indexed recall (RecallStepsAgo)
	StoredStep int64
	AgeSteps   int64
	Level      int // -1 if the match came from the recent queue
	Span       int64
	Source     string // "recent" or "level"
}

type candidate struct {
	vector tensor.Tensor
	step   int64
	span   int64
	level  int
	source string
}

// candidates builds the unified set of recall-eligible entries: every raw
// trace in the recent queue plus every valid level block, each carrying a
// representative step chosen by repFn.
func (s *Store) candidates(repFn func(TraceBlock) int64) []candidate {
	out := make([]candidate, 0, len(s.recent)+len(s.levels))
	for _, e := range s.recent {
		out = append(out, candidate{vector: e.vector, step: e.step, span: 1, level: -1, source: "recent"})
	}
	for l, lv := range s.levels {
		if !lv.Valid {
			continue
		}
		out = append(out, candidate{vector: lv.Summary, step: repFn(lv), span: lv.Span, level: l, source: "level"})
	}
	return out
}

// RecallSimilar scans the recent queue and every valid level for the best
// match to query by cosine similarity. Candidates whose stored vector does
// not share query's element count are skipped.
func (s *Store) RecallSimilar(query tensor.Tensor) Result {
	q := tensor.L2Normalize(query.Flatten())

	s.mu.Lock()
	defer s.mu.Unlock()

	cands := s.candidates(func(lv TraceBlock) int64 { return (lv.StartStep + lv.EndStep) / 2 })

	var best *candidate
	bestSim := -2.0
	for i := range cands {
		c := &cands[i]
		if c.vector.Len() != q.Len() {
			continue
		}
		sim := tensor.Cosine(q, c.vector)
		if sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	if best == nil {
		return Result{Found: false}
	}
	return Result{
		Found:      true,
		Value:      best.vector.Clone(),
		Similarity: bestSim,
		StoredStep: best.step,
		AgeSteps:   s.step - best.step,
		Level:      best.level,
		Span:       best.span,
		Source:     best.source,
	}
}

// RecallStepsAgo recalls the trace closest to k steps before the current
// step. k is clamped to >= 0; the target step is max(1, current-k). Among
// recent traces the candidate with minimum |step-target| wins; among level
// blocks, a block whose [start,end] interval contains target represents it
// exactly (distance 0), otherwise the block's midpoint is used. Ties break
// toward the smaller span. Similarity is always 0 (this is a positional,
// not similarity, recall).
func (s *Store) RecallStepsAgo(k int64) Result {
	if k < 0 {
		k = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.step - k
	if target < 1 {
		target = 1
	}

	cands := s.candidates(func(lv TraceBlock) int64 {
		if target >= lv.StartStep && target <= lv.EndStep {
			return target
		}
		return (lv.StartStep + lv.EndStep) / 2
	})

	var best *candidate
	bestDist := int64(-1)
	for i := range cands {
		c := &cands[i]
		d := c.step - target
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDist || (d == bestDist && c.span < best.span) {
			bestDist = d
			best = c
		}
	}
	if best == nil {
		return Result{Found: false}
	}
	return Result{
		Found:      true,
		Value:      best.vector.Clone(),
		Similarity: 0,
		StoredStep: best.step,
		AgeSteps:   s.step - best.step,
		Level:      best.level,
		Span:       best.span,
		Source:     best.source,
	}
}
