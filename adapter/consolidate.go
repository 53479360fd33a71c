package adapter

import (
	"fmt"

	"github.com/axonforge/hdkernel/episodic"
	"github.com/axonforge/hdkernel/reflex"
	"github.com/axonforge/hdkernel/workmem"
)

// ConsolidateInput configures one ConsolidateMemory pass.
type ConsolidateInput struct {
	Cache        *workmem.Cache
	Reflexes     *reflex.Store
	Episodic     *episodic.Store
	TopN         int // 0 or negative means all entries
	MinFitness   float64
	MaxMeanBurn  float64
}

// ConsolidateMemory snapshots the cache's top entries by priority and, for
// each meeting the fitness/burn bar, promotes a reflex synthesized from its
// key and stores its vector as a new episodic trace. Returns the reflex ids
// promoted, in priority order.
func ConsolidateMemory(in ConsolidateInput) ([]string, error) {
	snapshot := in.Cache.PrioritySnapshot()
	if in.TopN > 0 && len(snapshot) > in.TopN {
		snapshot = snapshot[:in.TopN]
	}

	promoted := make([]string, 0, len(snapshot))
	for _, entry := range snapshot {
		if entry.Fitness < in.MinFitness || entry.MeanBurn > in.MaxMeanBurn {
			continue
		}

		reflexID := synthesizeReflexID(entry.Key)
		meta := map[string]string{
			"label":           entry.Key,
			"dataset_id":      entry.DatasetID,
			"stability":       fmt.Sprintf("%.6f", entry.Fitness),
			"source":          "sleep_consolidation",
			"cache_hits":      fmt.Sprintf("%d", entry.Hits),
			"metabolic_burn":  fmt.Sprintf("%.6f", entry.MeanBurn),
		}

		_, err := in.Reflexes.Promote(reflex.PromoteInput{
			ReflexID:  reflexID,
			Vector:    entry.Vector,
			HasVector: true,
			Meta:      meta,
			Overwrite: true,
		})
		if err != nil {
			return promoted, err
		}
		if err := in.Episodic.Store(entry.Vector); err != nil {
			return promoted, err
		}
		promoted = append(promoted, reflexID)
	}
	return promoted, nil
}

func synthesizeReflexID(key string) string {
	return "reflex:" + key
}
