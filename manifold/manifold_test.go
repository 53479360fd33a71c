package manifold_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axonforge/hdkernel/kernel"
	"github.com/axonforge/hdkernel/manifold"
	"github.com/axonforge/hdkernel/ruleset"
	"github.com/axonforge/hdkernel/substrate"
	"github.com/axonforge/hdkernel/tensor"
)

func newHost(t *testing.T) *kernel.Kernel {
	t.Helper()
	cfg := kernel.DefaultConfig()
	override := 1000.0
	m := kernel.Boot(cfg, substrate.Fallback, &override)
	return kernel.New(cfg, m)
}

func TestNew_AllocatesPercentageOfHostEnergy(t *testing.T) {
	host := newHost(t)
	mf := manifold.New(kernel.DefaultConfig(), host, 0.15, nil)
	require.InDelta(t, 150, mf.Kernel.Metabolism.MaxEnergy, 1e-6)
}

func TestNew_FloorsAllocationAtMinimum(t *testing.T) {
	host := newHost(t)
	mf := manifold.New(kernel.DefaultConfig(), host, 0.001, nil)
	require.GreaterOrEqual(t, mf.Kernel.Metabolism.MaxEnergy, float64(manifold.MinAllocEnergy))
}

func TestNew_BootstrapsSymbolsFromRuleset(t *testing.T) {
	rs, err := ruleset.Parse("symbol ALPHA onehot 1024 0,10\nsymbol BETA onehot 1024 1,11")
	require.NoError(t, err)

	host := newHost(t)
	mf := manifold.New(kernel.DefaultConfig(), host, 0.15, rs)
	require.Equal(t, 1024, mf.Kernel.Symbols.Dim())
}

func TestRunBatch_HostEnergyUnaffected(t *testing.T) {
	host := newHost(t)
	hostEnergyBefore := host.Metabolism.Energy

	mf := manifold.New(kernel.DefaultConfig(), host, 0.15, nil)
	mf.Enqueue(kernel.DataStream{DatasetType: "text", DatasetID: "d1", Payload: "alpha beta gamma"})
	diagnostics, err := mf.RunBatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	require.Equal(t, hostEnergyBefore, host.Metabolism.Energy)
}

func TestRunBatch_DrainsQueueInOrder(t *testing.T) {
	host := newHost(t)
	mf := manifold.New(kernel.DefaultConfig(), host, 0.15, nil)
	mf.Enqueue(kernel.DataStream{DatasetType: "text", DatasetID: "d1", Payload: "one"})
	mf.Enqueue(kernel.DataStream{DatasetType: "text", DatasetID: "d2", Payload: "two"})
	require.Equal(t, 2, mf.QueueLen())

	_, err := mf.RunBatch(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, mf.QueueLen())
}

func TestEvolveRulesetDuringSleep_PromotesAnomaliesAndClearsFlag(t *testing.T) {
	host := newHost(t)
	rs := ruleset.New()
	mf := manifold.New(kernel.DefaultConfig(), host, 0.15, rs)

	v := tensor.L2Normalize(tensor.Random(8, 1))
	mf.Kernel.Cache.Promote("anomalous-key", v, 0.9, "t", "d", 0.1)
	mf.Kernel.Cache.SetAnomaly("anomalous-key", v)

	mf.EvolveRulesetDuringSleep()

	_, ok := rs.SymbolDefinitions["anomalous-key"]
	require.True(t, ok)
	require.Len(t, rs.ReflexTriggers, 1)
	require.Equal(t, "anomalous-key", rs.ReflexTriggers[0].Target)

	snap := mf.Kernel.Cache.Snapshot()
	require.False(t, snap[0].Anomaly)
}
