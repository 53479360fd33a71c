package mapper_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axonforge/hdkernel/mapper"
	"github.com/axonforge/hdkernel/reflex"
	"github.com/axonforge/hdkernel/tensor"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	doc := mapper.Document{
		Version: mapper.Version3,
		Dim:     8,
		Symbols: map[string]tensor.Tensor{
			"alpha": tensor.L2Normalize(tensor.Random(8, 1)),
			"beta":  tensor.L2Normalize(tensor.Random(8, 2)),
		},
		Reflexes: []reflex.Entry{
			{
				ReflexID:  "r1",
				Vector:    tensor.L2Normalize(tensor.Random(8, 3)),
				HasVector: true,
				Meta:      map[string]string{"stability": "0.8", "label": "x"},
			},
			{
				ReflexID:    "r2",
				HasSymbolID: true,
				SymbolID:    1,
				Meta:        map[string]string{"stability": "0.4"},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, mapper.Save(&buf, doc))

	loaded, err := mapper.Load(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, doc.Dim, loaded.Dim)
	require.Len(t, loaded.Symbols, 2)
	require.Len(t, loaded.Reflexes, 2)

	for tok, v := range doc.Symbols {
		got, ok := loaded.Symbols[tok]
		require.True(t, ok)
		want := v.Data()
		have := got.Data()
		require.Equal(t, len(want), len(have))
		for i := range want {
			require.InDelta(t, want[i], have[i], 1e-5)
		}
	}
}

func TestLoad_EmptyInputYieldsEmptyStoresAtRequestedDim(t *testing.T) {
	loaded, err := mapper.Load(&bytes.Buffer{}, 256)
	require.NoError(t, err)
	require.Equal(t, 256, loaded.Dim)
	require.Empty(t, loaded.Symbols)
	require.Empty(t, loaded.Reflexes)
}

func TestLoad_InvalidMagicReturnsError(t *testing.T) {
	buf := bytes.NewBufferString("NOTAMAPFILE-with-extra-bytes-padding")
	_, err := mapper.Load(buf, 0)
	require.ErrorIs(t, err, mapper.ErrInvalidMagic)
}

func TestLoad_UnsupportedVersionReturnsError(t *testing.T) {
	doc := mapper.Document{Version: 99, Dim: 4, Symbols: map[string]tensor.Tensor{}}
	var buf bytes.Buffer
	require.NoError(t, mapper.Save(&buf, doc))
	_, err := mapper.Load(&buf, 0)
	require.ErrorIs(t, err, mapper.ErrVersionUnsupported)
}

func TestSaveLoad_Version2ImplicitHasVectorNoSymbolID(t *testing.T) {
	doc := mapper.Document{
		Version: mapper.Version2,
		Dim:     4,
		Symbols: map[string]tensor.Tensor{},
		Reflexes: []reflex.Entry{
			{ReflexID: "r1", Vector: tensor.L2Normalize(tensor.Random(4, 1)), HasVector: true, Meta: map[string]string{"stability": "0.5"}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, mapper.Save(&buf, doc))

	loaded, err := mapper.Load(&buf, 0)
	require.NoError(t, err)
	require.True(t, loaded.Reflexes[0].HasVector)
	require.False(t, loaded.Reflexes[0].HasSymbolID)
}

func TestLoad_MissingStabilityDefaultsToZero(t *testing.T) {
	doc := mapper.Document{
		Version: mapper.Version3,
		Dim:     4,
		Symbols: map[string]tensor.Tensor{},
		Reflexes: []reflex.Entry{
			{ReflexID: "r1", HasVector: true, Vector: tensor.Random(4, 1), Meta: map[string]string{}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, mapper.Save(&buf, doc))

	loaded, err := mapper.Load(&buf, 0)
	require.NoError(t, err)
	require.Equal(t, "0", loaded.Reflexes[0].Meta["stability"])
}
