package reflex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axonforge/hdkernel/reflex"
	"github.com/axonforge/hdkernel/symbol"
	"github.com/axonforge/hdkernel/tensor"
)

func TestPromote_MissingIDReturnsError(t *testing.T) {
	s := reflex.New()
	_, err := s.Promote(reflex.PromoteInput{ReflexID: "   "})
	require.ErrorIs(t, err, reflex.ErrMissingReflexID)
}

func TestPromote_InsertsNewEntry(t *testing.T) {
	s := reflex.New()
	outcome, err := s.Promote(reflex.PromoteInput{
		ReflexID: "R1",
		Meta:     map[string]string{"stability": "0.4"},
	})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeInserted, outcome)
	require.Equal(t, 1, s.Len())
}

func TestPromote_ExistingWithoutOverwriteAndLowerStability(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "r1", Meta: map[string]string{"stability": "0.9"}})
	outcome, err := s.Promote(reflex.PromoteInput{ReflexID: "r1", Meta: map[string]string{"stability": "0.1"}})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeExists, outcome)
}

func TestPromote_ExistingWithoutOverwriteButHigherStabilityUpdatesMeta(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "r1", Meta: map[string]string{"stability": "0.1", "label": "old"}})
	outcome, err := s.Promote(reflex.PromoteInput{ReflexID: "r1", Meta: map[string]string{"stability": "0.9", "label": "new"}})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeUpdatedMeta, outcome)

	e, ok := s.Get("r1")
	require.True(t, ok)
	require.Equal(t, "new", e.Meta["label"])
}

func TestPromote_OverwriteTrueReplacesEntry(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "r1", Meta: map[string]string{"stability": "0.9"}})
	outcome, err := s.Promote(reflex.PromoteInput{ReflexID: "r1", Overwrite: true, Meta: map[string]string{"stability": "0.1"}})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeOverwritten, outcome)
}

func TestPromote_SequenceDedup_HigherStabilityUpdatesMeta(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{
		ReflexID: "r1",
		Meta:     map[string]string{"stability": "0.2", "sequence_sha1": "abc"},
	})
	outcome, err := s.Promote(reflex.PromoteInput{
		ReflexID: "r2",
		Meta:     map[string]string{"stability": "0.8", "sequence_sha1": "abc"},
	})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeUpdatedMeta, outcome)
	// still keyed under r1, not a new r2 entry.
	require.Equal(t, 1, s.Len())
}

func TestPromote_SequenceDedup_ExactVectorMatch(t *testing.T) {
	s := reflex.New()
	v := tensor.Random(8, 1)
	_, _ = s.Promote(reflex.PromoteInput{
		ReflexID: "r1", Vector: v, HasVector: true,
		Meta: map[string]string{"stability": "0.8", "sequence_sha1": "abc"},
	})
	outcome, err := s.Promote(reflex.PromoteInput{
		ReflexID: "r2", Vector: v, HasVector: true,
		Meta: map[string]string{"stability": "0.1", "sequence_sha1": "abc"},
	})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeDuplicateExact, outcome)
}

func TestPromote_SequenceDedup_DifferentVectorIsDuplicateSequence(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{
		ReflexID: "r1", Vector: tensor.Random(8, 1), HasVector: true,
		Meta: map[string]string{"stability": "0.8", "sequence_sha1": "abc"},
	})
	outcome, err := s.Promote(reflex.PromoteInput{
		ReflexID: "r2", Vector: tensor.Random(8, 2), HasVector: true,
		Meta: map[string]string{"stability": "0.1", "sequence_sha1": "abc"},
	})
	require.NoError(t, err)
	require.Equal(t, reflex.OutcomeDuplicateSequence, outcome)
}

func TestQuery_ScopeLabelAndMinStability(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "a", Meta: map[string]string{"stability": "0.9", "label": "x"}})
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "b", Meta: map[string]string{"stability": "0.2", "label": "x"}})
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "c", Meta: map[string]string{"stability": "0.9", "label": "y"}})

	res := s.Query(reflex.QueryParams{Scope: reflex.ScopeLabel, Label: "x", MinStability: 0.5})
	require.Len(t, res, 1)
	require.Equal(t, "a", res[0].ReflexID)
}

func TestQuery_SortedByStabilityThenEditsThenID(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "b", Meta: map[string]string{"stability": "0.5", "edits": "2"}})
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "a", Meta: map[string]string{"stability": "0.5", "edits": "1"}})
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "z", Meta: map[string]string{"stability": "0.9", "edits": "5"}})

	res := s.Query(reflex.QueryParams{})
	require.Len(t, res, 3)
	require.Equal(t, "z", res[0].ReflexID)
	require.Equal(t, "a", res[1].ReflexID)
	require.Equal(t, "b", res[2].ReflexID)
}

func TestQuery_LimitTruncates(t *testing.T) {
	s := reflex.New()
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "a", Meta: map[string]string{"stability": "0.9"}})
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "b", Meta: map[string]string{"stability": "0.5"}})
	res := s.Query(reflex.QueryParams{Limit: 1})
	require.Len(t, res, 1)
	require.Equal(t, "a", res[0].ReflexID)
}

func TestResolveVector_PrefersStoredVector(t *testing.T) {
	s := reflex.New()
	v := tensor.Random(8, 1)
	e := reflex.Entry{HasVector: true, Vector: v, Meta: map[string]string{}}
	got := s.ResolveVector(e, nil, 8)
	require.Equal(t, v.Data(), got.Data())
}

func TestResolveVector_FallsBackToSymbolID(t *testing.T) {
	s := reflex.New()
	space := symbol.New()
	v := space.Resolve("alpha")
	id, ok := space.ID("alpha")
	require.True(t, ok)

	e := reflex.Entry{HasSymbolID: true, SymbolID: id, Meta: map[string]string{}}
	got := s.ResolveVector(e, space, space.Dim())
	require.Equal(t, v.Data(), got.Data())
}

func TestResolveVector_FallsBackToNextToken(t *testing.T) {
	s := reflex.New()
	space := symbol.New()
	e := reflex.Entry{Meta: map[string]string{"next_token": "beta"}}
	got := s.ResolveVector(e, space, space.Dim())
	want := space.Resolve("beta")
	require.Equal(t, want.Data(), got.Data())
}

func TestResolveVector_FallsBackToZeroVector(t *testing.T) {
	s := reflex.New()
	e := reflex.Entry{Meta: map[string]string{}}
	got := s.ResolveVector(e, nil, 8)
	require.Equal(t, 8, got.Len())
	for _, x := range got.Data() {
		require.Equal(t, float32(0), x)
	}
}

func TestGet_UnknownReturnsFalse(t *testing.T) {
	s := reflex.New()
	_, ok := s.Get("missing")
	require.False(t, ok)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := reflex.New()
	v := tensor.Random(8, 1)
	_, _ = s.Promote(reflex.PromoteInput{ReflexID: "a", Vector: v, HasVector: true, Meta: map[string]string{"stability": "0.5"}})
	snap := s.Snapshot()
	snap[0].Meta["label"] = "mutated"

	e, _ := s.Get("a")
	require.NotEqual(t, "mutated", e.Meta["label"])
}
