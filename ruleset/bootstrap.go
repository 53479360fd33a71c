package ruleset

import "github.com/axonforge/hdkernel/symbol"

// Bootstrap defines every one of rs's symbol definitions into space via
// Define, locking space's dimension to the ruleset's vectors. Integration
// beyond symbol definitions (reflex triggers, heuristic overrides) is left
// to the caller — reflex triggers are only associated structurally.
func Bootstrap(rs *Ruleset, space *symbol.Space) error {
	for token, vec := range rs.SymbolDefinitions {
		if err := space.Define(token, vec); err != nil {
			return err
		}
	}
	return nil
}
