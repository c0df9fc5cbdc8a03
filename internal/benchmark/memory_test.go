package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtractBaseline(t *testing.T) {
	tests := []struct {
		name     string
		in       []MemoryResult
		baseline uint64
		want     []MemoryResult
	}{
		{
			name: "empty",
			want: []MemoryResult{},
		},
		{
			name:     "overhead per record",
			in:       []MemoryResult{{Name: "map", Items: 1000, Bytes: 150_000}},
			baseline: 100_000,
			want:     []MemoryResult{{Name: "map", Items: 1000, Bytes: 150_000, BytesPerRecord: 50, BaselineBytes: 100_000}},
		},
		{
			name: "sorted by total bytes",
			in: []MemoryResult{
				{Name: "lru", Items: 100, Bytes: 30_000},
				{Name: "doublehash", Items: 100, Bytes: 12_000},
				{Name: "map", Items: 100, Bytes: 20_000},
			},
			baseline: 10_000,
			want: []MemoryResult{
				{Name: "doublehash", Items: 100, Bytes: 12_000, BytesPerRecord: 20, BaselineBytes: 10_000},
				{Name: "map", Items: 100, Bytes: 20_000, BytesPerRecord: 100, BaselineBytes: 10_000},
				{Name: "lru", Items: 100, Bytes: 30_000, BytesPerRecord: 200, BaselineBytes: 10_000},
			},
		},
		{
			// GC noise can leave a cache below the baseline
			name:     "below baseline",
			in:       []MemoryResult{{Name: "map", Items: 10, Bytes: 9_900}},
			baseline: 10_000,
			want:     []MemoryResult{{Name: "map", Items: 10, Bytes: 9_900, BytesPerRecord: -10, BaselineBytes: 10_000}},
		},
		{
			name:     "no items",
			in:       []MemoryResult{{Name: "map", Bytes: 12_000}},
			baseline: 10_000,
			want:     []MemoryResult{{Name: "map", Bytes: 12_000, BaselineBytes: 10_000}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, subtractBaseline(tc.in, tc.baseline))
		})
	}
}
