// Package admin provides offline maintenance of the persisted edit snapshot.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/recipegrid/internal/core"
)

// Timeout is the maximum duration for one maintenance operation.
const Timeout = 30 * time.Second

// Snapshot inspects and clears the snapshot stored under Key.
type Snapshot struct {
	Store core.Store
	Key   string
}

// Read returns the persisted records. found is false when nothing is
// stored or the stored value is an empty array.
func (s *Snapshot) Read(ctx context.Context) (records []core.Record, found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	raw, ok, err := s.Store.Get(ctx, s.Key)
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", s.Key, err)
	}
	if !ok {
		return nil, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("%w: %q: %v", core.ErrCorruptSnapshot, s.Key, err)
	}
	return records, len(records) > 0, nil
}

// Clear removes the snapshot. It has the same effect on storage as Reset
// in the running app, but needs no fetch and also clears corrupt values
// that keep the app from loading.
func (s *Snapshot) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	if err := s.Store.Remove(ctx, s.Key); err != nil {
		return fmt.Errorf("clear %q: %w", s.Key, err)
	}
	return nil
}
