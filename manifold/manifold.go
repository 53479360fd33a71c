// Package manifold implements the program manifold: a
// sub-kernel with its own energy allocation, cache, and ruleset, running
// the same ingest pipeline as the host kernel but under strict energy
// isolation — manifold work never touches the host's budget.
package manifold

import (
	"context"

	"github.com/axonforge/hdkernel/kernel"
	"github.com/axonforge/hdkernel/ruleset"
)

// MinAllocEnergy floors a manifold's energy allocation regardless of
// alloc_pct, so a manifold is never booted with zero budget.
const MinAllocEnergy = 16

// Manifold wraps an independent kernel allocated a fraction of the host's
// max energy, plus the ruleset that bootstrapped it.
type Manifold struct {
	Kernel  *kernel.Kernel
	Ruleset *ruleset.Ruleset

	batch []kernel.DataStream
}

// New allocates a Manifold at allocPct of host.Metabolism.MaxEnergy
// (floored at MinAllocEnergy) and bootstraps its symbol space from rs.
func New(cfg kernel.Config, host *kernel.Kernel, allocPct float64, rs *ruleset.Ruleset) *Manifold {
	alloc := allocPct * host.Metabolism.MaxEnergy
	if alloc < MinAllocEnergy {
		alloc = MinAllocEnergy
	}
	m := kernel.New(cfg, kernel.Metabolism{
		Energy:           alloc,
		MaxEnergy:        alloc,
		FatigueThreshold: cfg.FatigueRatio * alloc,
		ZombieThreshold:  cfg.ZombieRatio * alloc,
	})
	if rs != nil {
		ruleset.Bootstrap(rs, m.Symbols)
	}
	return &Manifold{Kernel: m, Ruleset: rs}
}

// Enqueue accepts a data stream into the manifold's own batch controller.
func (mf *Manifold) Enqueue(ds kernel.DataStream) {
	mf.batch = append(mf.batch, ds)
}

// RunBatch runs up to n queued streams (or all of them, if fewer) through
// the manifold's own ingest pipeline and returns their diagnostics.
func (mf *Manifold) RunBatch(ctx context.Context, n int) ([]kernel.Diagnostic, error) {
	if n <= 0 || n > len(mf.batch) {
		n = len(mf.batch)
	}
	batch := mf.batch[:n]
	mf.batch = mf.batch[n:]

	diagnostics := make([]kernel.Diagnostic, 0, len(batch))
	for _, ds := range batch {
		diag, err := mf.Kernel.Ingest(ctx, ds)
		if err != nil {
			return diagnostics, err
		}
		diagnostics = append(diagnostics, diag)
	}
	return diagnostics, nil
}

// QueueLen returns the number of streams still queued.
func (mf *Manifold) QueueLen() int { return len(mf.batch) }

// Sleep first evolves the manifold's ruleset from any cache entries
// currently flagged anomalous (each anomaly's deduced constraint becomes a
// new symbol definition and reflex trigger, after which anomaly flags are
// cleared) and then runs the kernel's normal consolidation. Host energy is
// never touched — the manifold owns its own kernel and metabolism
// entirely, strictly isolated from the host's.
func (mf *Manifold) Sleep() {
	mf.EvolveRulesetDuringSleep()
	mf.Kernel.Sleep()
}

// EvolveRulesetDuringSleep folds anomalies into the ruleset: for every
// cache entry flagged anomalous with a deduced constraint, add a symbol
// definition keyed on the entry and a reflex trigger pointing at it,
// then clear the anomaly flag.
func (mf *Manifold) EvolveRulesetDuringSleep() {
	if mf.Ruleset == nil {
		return
	}
	for _, entry := range mf.Kernel.Cache.Snapshot() {
		if !entry.Anomaly || !entry.HasDeducedConstraint {
			continue
		}
		mf.Ruleset.SymbolDefinitions[entry.Key] = entry.DeducedConstraint
		mf.Ruleset.ReflexTriggers = append(mf.Ruleset.ReflexTriggers, ruleset.ReflexTrigger{
			Target:              entry.Key,
			SimilarityThreshold: mf.Kernel.Config.Adapter.CriticMin,
			Action:               "resolve_state",
		})
		mf.Kernel.Cache.ClearAnomaly(entry.Key)
	}
}

// Tick polls the manifold's own sleep scheduler with idle ticks, using the
// manifold kernel's own config, and runs Sleep when it triggers. The
// manifold holds no reference to the host kernel, so the host's scheduler
// cadence is not consulted and the host's scheduler and budget are never
// touched.
func (mf *Manifold) Tick(idle int64) {
	if reason, should := mf.Kernel.Sleeper.Poll(mf.Kernel.Config, mf.Kernel.Metabolism, idle); should {
		_ = reason
		mf.Sleep()
	}
}
