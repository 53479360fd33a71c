package reflex

import "sort"

// Scope narrows a Query to entries matching a particular metadata
// dimension, or the whole store.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeLabel
	ScopeTarget
)

// QueryParams selects and orders reflexes for Query.
type QueryParams struct {
	Scope        Scope
	Label        string
	TargetID     string
	MinStability float64
	Limit        int // 0 or negative means unbounded
}

// Query returns entries matching params, sorted by descending stability,
// then ascending edits, then ascending reflex id, truncated to Limit if
// positive.
func (s *Store) Query(params QueryParams) []Entry {
	s.mu.Lock()
	matches := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !matchesScope(e, params) {
			continue
		}
		if e.Stability() < params.MinStability {
			continue
		}
		matches = append(matches, e.clone())
	}
	s.mu.Unlock()

	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].Stability(), matches[j].Stability()
		if si != sj {
			return si > sj
		}
		ei, ej := matches[i].Edits(), matches[j].Edits()
		if ei != ej {
			return ei < ej
		}
		return matches[i].ReflexID < matches[j].ReflexID
	})

	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	return matches
}

func matchesScope(e Entry, params QueryParams) bool {
	switch params.Scope {
	case ScopeLabel:
		return e.Meta["label"] == params.Label
	case ScopeTarget:
		return e.Meta["target_id"] == params.TargetID
	default:
		return true
	}
}
