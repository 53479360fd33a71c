package adapter

import "github.com/axonforge/hdkernel/tensor"

// Strategy names a routing decision.
const (
	StrategyCacheBundle      = "cache_bundle"
	StrategySelfPermute      = "self_permute"
	StrategyDiscoveryInduction = "discovery_induction"
)

// RouteResult is the outcome of one Route call.
type RouteResult struct {
	Vector   tensor.Tensor
	Strategy string
	Fitness  float64
	Cost     float64
}

// Route picks a strategy for target given the current signal profile and
// cache candidates. Candidates whose length differs from target are
// skipped; the best remaining candidate counts as a cosine match when its
// similarity is at or above thresholds.System1SimThresh.
func Route(cfg Config, target tensor.Tensor, profile SignalProfile, thresholds Thresholds, candidates []tensor.Tensor, iteration int) RouteResult {
	bestIdx, bestCosine := bestMatch(target, candidates)

	var result RouteResult
	if bestIdx >= 0 && bestCosine >= thresholds.System1SimThresh {
		result = cacheBundleRoute(cfg, target, candidates[bestIdx], profile)
	} else {
		result = selfPermuteRoute(target, iteration)
	}

	if profile.Entropy > cfg.DiscoveryEntropyThresh &&
		bestCosine < cfg.DiscoveryBestCosineThresh &&
		iteration > cfg.DiscoveryIterationThresh {
		result.Strategy = StrategyDiscoveryInduction
		result.Fitness = thresholds.CriticAccept + 1e-3
	}

	result.Cost = thermodynamicCost(cfg, thresholds.DeepCostBias, result.Fitness)
	if result.Strategy == StrategyCacheBundle {
		result.Cost *= cfg.CacheBundleCostBias
	}
	return result
}

func bestMatch(target tensor.Tensor, candidates []tensor.Tensor) (int, float64) {
	bestIdx := -1
	bestCosine := -1.0
	for i, c := range candidates {
		if !c.SameLen(target) {
			continue
		}
		sim := tensor.Cosine(target, c)
		if sim > bestCosine {
			bestCosine = sim
			bestIdx = i
		}
	}
	return bestIdx, bestCosine
}

func cacheBundleRoute(cfg Config, target, best tensor.Tensor, profile SignalProfile) RouteResult {
	w := clamp(0.30+0.50*(1-profile.Entropy), cfg.BlendMin, cfg.BlendMax)
	blended := blend(target, best, w)
	fitness := tensor.Cosine(blended, target)
	return RouteResult{Vector: blended, Strategy: StrategyCacheBundle, Fitness: fitness}
}

// blend computes target*(1-w) + best*w, L2-normalized.
func blend(target, best tensor.Tensor, w float64) tensor.Tensor {
	scaledTarget := tensor.Scale(target, 1-w)
	scaledBest := tensor.Scale(best, w)
	return tensor.L2Normalize(tensor.Bundle(false, scaledTarget, scaledBest))
}

func selfPermuteRoute(target tensor.Tensor, iteration int) RouteResult {
	dim := target.Len()
	shift := 1
	if dim > 1 {
		shift = (iteration % (dim - 1)) + 1
	}
	permuted := tensor.Permute(target, shift)
	bundled := tensor.Bundle(true, target, permuted)
	fitness := tensor.Cosine(bundled, target)
	return RouteResult{Vector: bundled, Strategy: StrategySelfPermute, Fitness: fitness}
}

func thermodynamicCost(cfg Config, deepCostBias, fitness float64) float64 {
	return cfg.CostBase + 12*deepCostBias + 8*(1-fitness)
}

// Critic accepts iff fitness is at or above the critic threshold — the
// zombie threshold while zombie mode is active.
func Critic(cfg Config, fitness float64, thresholds Thresholds, zombie bool) bool {
	threshold := thresholds.CriticAccept
	if zombie {
		threshold = cfg.ZombieCriticAccept
	}
	return fitness >= threshold
}
