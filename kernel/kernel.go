package kernel

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/axonforge/hdkernel/adapter"
	"github.com/axonforge/hdkernel/episodic"
	"github.com/axonforge/hdkernel/reflex"
	"github.com/axonforge/hdkernel/symbol"
	"github.com/axonforge/hdkernel/tensor"
	"github.com/axonforge/hdkernel/workmem"
)

// DataStream is one unit of ingest input.
type DataStream struct {
	DatasetType string
	DatasetID   string
	Payload     string
	DimHint     int
}

// Diagnostic is the single structured object the kernel emits per ingest.
type Diagnostic struct {
	IngestID        uuid.UUID
	Outcome         string
	Success         bool
	Reflex          bool
	Deep            bool
	Zombie          bool
	SleepTriggered  bool
	Iterations      int
	Similarity      float64
	Profile         adapter.SignalProfile
	EnergyRemaining float64
	SleepReason     string
}

// Pipeline outcome strings.
const (
	OutcomeReflexHit       = "reflex_hit"
	OutcomeDeepThinkAccept = "deep_think_accept"
	OutcomeCriticReject    = "critic_reject"
	OutcomeFatigueLimit    = "fatigue_limit"
	OutcomeZombieBlock     = "zombie_block"
)

// Kernel is one cognitive pipeline: its HDC stores, working memory,
// metabolism, and sleep scheduler. The zero value is not usable; use New.
type Kernel struct {
	ID uuid.UUID

	Config Config

	Symbols  *symbol.Space
	Reflexes *reflex.Store
	Episodes *episodic.Store
	Cache    *workmem.Cache

	Metabolism Metabolism
	Sleeper    SleepScheduler

	currentTick int64
	processed   int64
	sleepCount  int64
}

// New builds a Kernel from cfg and an already computed metabolism (for
// example one returned by Boot), wiring fresh symbol/reflex/episodic/cache
// stores.
func New(cfg Config, metabolism Metabolism) *Kernel {
	return &Kernel{
		ID:         uuid.New(),
		Config:     cfg,
		Symbols:    symbol.New(),
		Reflexes:   reflex.New(),
		Episodes:   episodic.New(episodic.DefaultLevels, episodic.DefaultRecentCap),
		Cache:      workmem.New(workmem.DefaultOptions()),
		Metabolism: metabolism,
	}
}

// Processed returns the number of ingests accepted into working memory.
func (k *Kernel) Processed() int64 { return k.processed }

// SleepCount returns the number of completed sleep cycles.
func (k *Kernel) SleepCount() int64 { return k.sleepCount }

// CurrentTick returns the kernel's logical tick counter.
func (k *Kernel) CurrentTick() int64 { return k.currentTick }

// Ingest runs one data stream through the full pipeline:
// System 1 cache lookup, then a bounded System 2 deliberation loop, memory
// promotion on accept, anomaly detection, and sleep-scheduler polling.
// ctx is checked cooperatively between System 2 iterations; a cancelled
// context halts deliberation early with the iterations completed so far.
func (k *Kernel) Ingest(ctx context.Context, ds DataStream) (Diagnostic, error) {
	k.currentTick++
	diag := Diagnostic{IngestID: uuid.New()}

	zombie := k.Metabolism.Zombie()
	diag.Zombie = zombie

	profile, thresholds := adapter.Analyze(k.Config.Adapter, ds.DatasetType, ds.Payload)
	diag.Profile = profile

	dim := adapter.ResolveDim(k.Config.Adapter, ds.DimHint, k.Symbols.Dim(), k.Episodes.Dim())
	target := adapter.Encode(k.Symbols, ds.DatasetType, ds.Payload, dim)

	if entry, ok, sim := k.Cache.Lookup(target, thresholds.System1SimThresh); ok {
		k.Metabolism.Spend(k.Config.ReflexCost)
		diag.Outcome = OutcomeReflexHit
		diag.Success = true
		diag.Reflex = true
		diag.Similarity = sim
		k.Cache.Promote(entry.Key, entry.Vector, entry.Fitness, entry.DatasetType, entry.DatasetID, 0)
		k.finishIngest(&diag, false)
		return diag, nil
	}

	if zombie {
		diag.Outcome = OutcomeZombieBlock
		k.finishIngest(&diag, false)
		return diag, nil
	}

	accepted, iterations, lastFitness, err := k.systemTwo(ctx, &diag, target, ds, profile, thresholds)
	if err != nil {
		diag.Iterations = iterations
		return diag, err
	}
	diag.Iterations = iterations
	diag.Similarity = lastFitness

	if accepted {
		diag.Outcome = OutcomeDeepThinkAccept
		diag.Success = true
		diag.Deep = true
		k.processed++

		key := fmt.Sprintf("%s:%s", ds.DatasetType, ds.DatasetID)
		priorEntry, hadPrior := k.Cache.Get(key)
		k.Cache.Promote(key, target, lastFitness, ds.DatasetType, ds.DatasetID, 0)
		_ = k.Episodes.Store(target)

		if hadPrior && profile.Entropy > k.Config.AnomalyEntropyThresh && iterations > k.Config.AnomalyIterThresh {
			k.flagAnomaly(key, target, priorEntry.Vector)
		}
	} else if diag.Outcome == "" {
		diag.Outcome = OutcomeCriticReject
	}

	k.finishIngest(&diag, accepted)
	return diag, nil
}

func (k *Kernel) systemTwo(ctx context.Context, diag *Diagnostic, target tensor.Tensor, ds DataStream, profile adapter.SignalProfile, thresholds adapter.Thresholds) (bool, int, float64, error) {
	candidates := k.cacheCandidates(target.Len())

	var lastFitness float64
	for iteration := 0; iteration < k.Config.SystemTwoBudget; iteration++ {
		select {
		case <-ctx.Done():
			return false, iteration, lastFitness, ctx.Err()
		default:
		}

		route := adapter.Route(k.Config.Adapter, target, profile, thresholds, candidates, iteration)
		k.Metabolism.Spend(route.Cost)
		lastFitness = route.Fitness

		if k.Metabolism.Fatigued() {
			diag.Outcome = OutcomeFatigueLimit
			return false, iteration + 1, lastFitness, nil
		}

		if adapter.Critic(k.Config.Adapter, route.Fitness, thresholds, k.Metabolism.Zombie()) {
			return true, iteration + 1, lastFitness, nil
		}
	}
	return false, k.Config.SystemTwoBudget, lastFitness, nil
}

func (k *Kernel) cacheCandidates(dim int) []tensor.Tensor {
	snapshot := k.Cache.Snapshot()
	limit := k.Config.CacheCandidateLimit
	out := make([]tensor.Tensor, 0, len(snapshot))
	for _, e := range snapshot {
		if e.Vector.Len() != dim {
			continue
		}
		out = append(out, e.Vector)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// flagAnomaly marks key's cache entry anomalous with a deduced constraint —
// the L2-normalized geometric gap between the just-accepted target (the
// required next state) and currentState, the entry's vector as it stood
// before this ingest promoted it.
func (k *Kernel) flagAnomaly(key string, requiredNextState, currentState tensor.Tensor) {
	if !currentState.SameLen(requiredNextState) {
		return
	}
	gap := tensor.L2Normalize(tensor.Sub(requiredNextState, currentState))
	k.Cache.SetAnomaly(key, gap)
}

func (k *Kernel) finishIngest(diag *Diagnostic, activity bool) {
	if activity {
		k.Sleeper.tick(diag.Outcome == OutcomeFatigueLimit)
	}
	reason, shouldSleep := k.Sleeper.Poll(k.Config, k.Metabolism, 1)
	if shouldSleep {
		k.Sleep()
		diag.SleepTriggered = true
		diag.SleepReason = reason
	}
	diag.EnergyRemaining = k.Metabolism.Energy
}

// Sleep runs one consolidation cycle: promotes qualifying cache entries
// into the reflex and episodic stores, refills energy to max, clears
// zombie mode, and resets the sleep scheduler.
// Sleep never fails: consolidation errors are swallowed since sleep and
// consolidation must always be able to proceed.
func (k *Kernel) Sleep() {
	_, _ = adapter.ConsolidateMemory(adapter.ConsolidateInput{
		Cache:       k.Cache,
		Reflexes:    k.Reflexes,
		Episodic:    k.Episodes,
		TopN:        k.Config.ConsolidateTopN,
		MinFitness:  k.Config.ConsolidateMinFit,
		MaxMeanBurn: k.Config.ConsolidateMaxBurn,
	})
	k.Metabolism.Refill()
	k.Sleeper.reset()
	k.sleepCount++
}
