package workload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/tstromberg/hashmark/internal/cache"
)

var snapshotMagic = [4]byte{'H', 'M', 'W', 'L'}

const (
	snapshotVersion = 1
	// maxSnapshotLen bounds allocations when reading a corrupt snapshot.
	maxSnapshotLen = 1 << 30
)

type snapshotHeader struct {
	Magic       [4]byte
	Version     uint32
	Seed        int64
	Theta       float64
	Orders      uint64
	Accesses    uint64
	Fingerprint uint64
}

// Save writes w to out as a zstd-compressed snapshot.
func Save(out io.Writer, w *Workload) error {
	enc, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	hdr := snapshotHeader{
		Magic:       snapshotMagic,
		Version:     snapshotVersion,
		Seed:        w.Seed,
		Theta:       w.Theta,
		Orders:      uint64(len(w.Orders)),
		Accesses:    uint64(len(w.Access)),
		Fingerprint: w.fingerprint,
	}
	for _, v := range []any{hdr, w.Orders, w.Access} {
		if err := binary.Write(enc, binary.LittleEndian, v); err != nil {
			enc.Close() //nolint:errcheck,gosec // already failing
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save and checks it is intact.
func Load(in io.Reader) (*Workload, error) {
	dec, err := zstd.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	var hdr snapshotHeader
	if err := binary.Read(dec, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if hdr.Magic != snapshotMagic || hdr.Version != snapshotVersion {
		return nil, errors.New("not a workload snapshot")
	}
	if hdr.Orders == 0 || hdr.Orders > maxSnapshotLen || hdr.Accesses > maxSnapshotLen {
		return nil, fmt.Errorf("snapshot sizes out of range: %d orders, %d accesses", hdr.Orders, hdr.Accesses)
	}

	orders := make([]cache.Record, hdr.Orders)
	access := make([]int64, hdr.Accesses)
	if err := binary.Read(dec, binary.LittleEndian, orders); err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	if err := binary.Read(dec, binary.LittleEndian, access); err != nil {
		return nil, fmt.Errorf("read access: %w", err)
	}

	w := New(hdr.Seed, orders, access)
	w.Theta = hdr.Theta
	if w.fingerprint != hdr.Fingerprint {
		return nil, fmt.Errorf("snapshot fingerprint %016x, content hashes to %016x", hdr.Fingerprint, w.fingerprint)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// SaveFile writes w to path.
func SaveFile(path string, w *Workload) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, w); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	return f.Close()
}

// LoadFile reads a snapshot from path.
func LoadFile(path string) (*Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only
	return Load(f)
}
