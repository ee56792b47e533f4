// Package wire encodes remote participant snapshots for transport.
package wire

import (
	"fmt"
	"os"
	"path/filepath"

	"consensus-market/internal/model"

	"github.com/vmihailenco/msgpack/v5"
)

// ContentType identifies msgpack-encoded snapshots over HTTP.
const ContentType = "application/msgpack"

// Snapshot is a remote participant as it travels: a name and the demand
// curve flattened to interleaved price/quantity values.
type Snapshot struct {
	Name   string    `msgpack:"name" json:"name"`
	Points []float64 `msgpack:"points" json:"points"`
}

// FromBuilding flattens a caller-owned building into a snapshot.
func FromBuilding(b *model.Building) Snapshot {
	return Snapshot{Name: b.Name, Points: b.FlattenBid()}
}

// RemoteAdder is satisfied by *market.Market.
type RemoteAdder interface {
	AddRemoteBuilding(name string, points []float64) error
}

// AddTo submits the snapshot to a market.
func (s Snapshot) AddTo(m RemoteAdder) error {
	return m.AddRemoteBuilding(s.Name, s.Points)
}

func Encode(s Snapshot) ([]byte, error) {
	raw, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %q: %w", s.Name, err)
	}
	return raw, nil
}

func Decode(raw []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(raw, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Name == "" {
		return Snapshot{}, model.ConfigErrorf("name", "snapshot has no participant name")
	}
	return s, nil
}

// WriteFile encodes s to path, creating parent directories.
func WriteFile(path string, s Snapshot) error {
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

func ReadFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := Decode(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
