// Package ruleset implements the declarative line-based DSL that
// bootstraps program manifolds: constraint mode, symbol
// definitions (one-hot or explicit vector), reflex triggers, and
// heuristic config overrides.
package ruleset

import "github.com/axonforge/hdkernel/tensor"

// ReflexTrigger associates a target symbol with a similarity threshold and
// an opaque action name. The core never interprets the action itself:
// it is purely structural, associated with the trigger
// for an external runtime to act on.
type ReflexTrigger struct {
	Target              string
	SimilarityThreshold float64
	Action              string
}

// Ruleset is a parsed (or programmatically built) manifold bootstrap
// descriptor.
type Ruleset struct {
	ConstraintMode     bool
	SymbolDefinitions  map[string]tensor.Tensor
	ReflexTriggers     []ReflexTrigger
	HeuristicOverrides map[string]float64
}

// New returns an empty Ruleset with initialized maps/slices.
func New() *Ruleset {
	return &Ruleset{
		SymbolDefinitions:  make(map[string]tensor.Tensor),
		HeuristicOverrides: make(map[string]float64),
	}
}
