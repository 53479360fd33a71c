package workmem

import "sort"

// PriorityEntry pairs an Entry with its computed consolidation priority.
type PriorityEntry struct {
	Entry
	Priority float64
}

// PrioritySnapshot returns every entry sorted by descending priority:
//
//	priority = fitness * decay * (0.6 + 0.4*efficiency) + 0.02*hits
//
// where efficiency = 1 - meanBurn (or 0.5 if the entry has no burn
// samples). Ties break toward the most recently touched entry.
func (c *Cache) PrioritySnapshot() []PriorityEntry {
	entries := c.Snapshot()
	out := make([]PriorityEntry, len(entries))
	for i, e := range entries {
		out[i] = PriorityEntry{Entry: e, Priority: priority(e)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].LastTouch > out[j].LastTouch
	})
	return out
}

func priority(e Entry) float64 {
	efficiency := 0.5
	if e.BurnSamples > 0 {
		efficiency = 1 - e.MeanBurn
	}
	return e.Fitness*e.Decay*(0.6+0.4*efficiency) + 0.02*float64(e.Hits)
}
