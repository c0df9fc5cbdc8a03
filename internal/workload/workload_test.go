package workload

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tstromberg/hashmark/internal/cache"
)

func smallConfig(seed int64) Config {
	return Config{Seed: seed, Orders: 2_000, Accesses: 20_000, Theta: 0.99}
}

func TestGenerateReproducible(t *testing.T) {
	a, err := Generate(smallConfig(42))
	require.NoError(t, err)
	b, err := Generate(smallConfig(42))
	require.NoError(t, err)

	require.Equal(t, a.Orders, b.Orders)
	require.Equal(t, a.Access, b.Access)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.Equal(t, a.String(), b.String())
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a, err := Generate(smallConfig(1))
	require.NoError(t, err)
	b, err := Generate(smallConfig(2))
	require.NoError(t, err)

	assert.NotEqual(t, a.Orders, b.Orders)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestGenerateShape(t *testing.T) {
	for _, theta := range []float64{0, 0.5, 0.99} {
		cfg := smallConfig(7)
		cfg.Theta = theta
		w, err := Generate(cfg)
		require.NoError(t, err)

		require.Len(t, w.Orders, cfg.Orders)
		require.Len(t, w.Access, cfg.Accesses)
		require.NoError(t, w.Validate())
		for _, r := range w.Orders {
			require.Equal(t, cache.CheckOf(r.ID), r.Check)
		}
	}
}

func TestGenerateSkew(t *testing.T) {
	count := func(theta float64) int {
		cfg := smallConfig(3)
		cfg.Theta = theta
		w, err := Generate(cfg)
		require.NoError(t, err)
		freq := make(map[int64]int)
		top := 0
		for _, id := range w.Access {
			freq[id]++
			top = max(top, freq[id])
		}
		return top
	}

	uniformTop := count(0)
	skewedTop := count(0.99)
	// 20K accesses over 2K ids: uniform peaks near 10, Zipf(0.99) far above.
	assert.Less(t, uniformTop, 40)
	assert.Greater(t, skewedTop, 5*uniformTop)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(1), true},
		{"uniform", Config{Orders: 1, Accesses: 1}, true},
		{"no orders", Config{Orders: 0, Accesses: 1}, false},
		{"no access", Config{Orders: 1, Accesses: 0}, false},
		{"negative theta", Config{Orders: 1, Accesses: 1, Theta: -0.1}, false},
		{"theta one", Config{Orders: 1, Accesses: 1, Theta: 1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			_, err = Generate(tc.cfg)
			require.Error(t, err)
		})
	}
}

func TestValidateInconsistent(t *testing.T) {
	orders := []cache.Record{cache.NewRecord(10), cache.NewRecord(20)}

	w := New(0, orders, []int64{10, 20, 10})
	require.NoError(t, w.Validate())

	w = New(0, orders, []int64{10, 99})
	require.ErrorIs(t, w.Validate(), ErrInconsistent)

	w = New(0, append(orders, cache.NewRecord(10)), []int64{10})
	require.ErrorIs(t, w.Validate(), ErrInconsistent)
}

func TestSnapshotRoundTrip(t *testing.T) {
	w, err := Generate(smallConfig(9))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, w))

	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, w.Orders, got.Orders)
	assert.Equal(t, w.Access, got.Access)
	assert.Equal(t, w.Fingerprint(), got.Fingerprint())
	assert.Equal(t, w.String(), got.String())
}

func TestSnapshotFile(t *testing.T) {
	w, err := Generate(smallConfig(4))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "workload.zst")
	require.NoError(t, SaveFile(path, w))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, w.Fingerprint(), got.Fingerprint())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.zst"))
	require.Error(t, err)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("definitely not zstd")))
	require.Error(t, err)

	w, err := Generate(smallConfig(5))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, w))
	truncated := buf.Bytes()[:buf.Len()/2]
	_, err = Load(bytes.NewReader(truncated))
	require.Error(t, err)
}
