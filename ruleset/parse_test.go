package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axonforge/hdkernel/ruleset"
	"github.com/axonforge/hdkernel/symbol"
	"github.com/axonforge/hdkernel/tensor"
)

func TestParse_ConstraintModeAndHeuristic(t *testing.T) {
	rs, err := ruleset.Parse(`
constraint_mode on
heuristic s1_base 0.7
`)
	require.NoError(t, err)
	require.True(t, rs.ConstraintMode)
	require.InDelta(t, 0.7, rs.HeuristicOverrides["s1_base"], 1e-9)
}

func TestParse_OneHotSymbol(t *testing.T) {
	rs, err := ruleset.Parse("symbol ALPHA onehot 8 0,3")
	require.NoError(t, err)
	v, ok := rs.SymbolDefinitions["ALPHA"]
	require.True(t, ok)
	require.InDelta(t, 1.0, tensor.Norm(v), 1e-5)
}

func TestParse_ExplicitVectorSymbol(t *testing.T) {
	rs, err := ruleset.Parse("symbol BETA vector 4 1,0,0,0")
	require.NoError(t, err)
	v, ok := rs.SymbolDefinitions["BETA"]
	require.True(t, ok)
	require.Equal(t, float32(1), v.At(0))
}

func TestParse_ReflexTrigger(t *testing.T) {
	rs, err := ruleset.Parse("reflex ALPHA 0.9 resolve_state")
	require.NoError(t, err)
	require.Len(t, rs.ReflexTriggers, 1)
	require.Equal(t, "ALPHA", rs.ReflexTriggers[0].Target)
	require.Equal(t, 0.9, rs.ReflexTriggers[0].SimilarityThreshold)
}

func TestParse_CommentsAndBlankLinesIgnored(t *testing.T) {
	rs, err := ruleset.Parse("# a comment\n\nconstraint_mode off\n")
	require.NoError(t, err)
	require.False(t, rs.ConstraintMode)
}

func TestParse_UnknownDirectiveReturnsParseError(t *testing.T) {
	_, err := ruleset.Parse("bogus directive here")
	require.Error(t, err)
	var perr *ruleset.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 1, perr.Line)
}

func TestParse_InvalidOneHotIndexReturnsParseError(t *testing.T) {
	_, err := ruleset.Parse("symbol ALPHA onehot 4 99")
	require.Error(t, err)
}

func TestParse_VectorWrongLengthReturnsParseError(t *testing.T) {
	_, err := ruleset.Parse("symbol ALPHA vector 4 1,0")
	require.Error(t, err)
}

func TestBootstrap_DefinesSymbolsIntoSpace(t *testing.T) {
	rs, err := ruleset.Parse("symbol ALPHA onehot 8 0\nsymbol BETA onehot 8 1")
	require.NoError(t, err)

	space := symbol.New()
	require.NoError(t, ruleset.Bootstrap(rs, space))
	require.Equal(t, 8, space.Dim())
	require.Equal(t, 2, space.Len())
}
