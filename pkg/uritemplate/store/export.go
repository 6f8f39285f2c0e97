package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// Snapshot is a portable dump of a store, in List order.
type Snapshot struct {
	Version     int          `json:"version"`
	Exported    time.Time    `json:"exported"`
	Definitions []Definition `json:"definitions"`
}

// Export serializes every definition in s to JSON.
func Export(s Store) ([]byte, error) {
	defs, err := s.List()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return json.Marshal(Snapshot{
		Version:     SnapshotVersion,
		Exported:    time.Now().UTC(),
		Definitions: defs,
	})
}

// Import saves every definition in a snapshot into s, in snapshot order.
// The target store assigns its own IDs and timestamps. Definitions that
// fail to save are skipped and their errors returned together; the count
// of saved definitions is returned either way.
func Import(s Store, data []byte) (int, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return 0, fmt.Errorf("import: unsupported snapshot version %d", snap.Version)
	}

	var errs []error
	saved := 0
	for _, d := range snap.Definitions {
		if _, err := s.Save(d.Name, d.Source); err != nil {
			if errors.Is(err, ErrStoreClosed) {
				return saved, err
			}
			errs = append(errs, err)
			continue
		}
		saved++
	}
	return saved, errors.Join(errs...)
}
