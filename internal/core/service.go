package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/JonMunkholm/recipegrid/internal/logging"
	"github.com/google/uuid"
)

// DefaultStoreKey is the key the persisted edit snapshot is stored under.
const DefaultStoreKey = "dataStored"

// Fetcher retrieves the full record set from the remote source.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Record, error)
}

// Store is a string key-value capability holding the persisted snapshot.
// Get reports found=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Service is the application state and the actions that change it.
// All mutations are serialized by mu.
type Service struct {
	source Fetcher
	store  Store
	key    string

	mu       sync.RWMutex
	state    State
	table    *Table
	revision string
}

// NewService creates a Service in the Loading state.
// An empty key selects DefaultStoreKey.
func NewService(source Fetcher, store Store, key string) *Service {
	if key == "" {
		key = DefaultStoreKey
	}
	return &Service{
		source: source,
		store:  store,
		key:    key,
		state:  StateLoading,
	}
}

// Load fetches the record set, reads any persisted snapshot and moves the
// service to Ready. On error the service stays in Loading.
func (s *Service) Load(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	fetched, err := s.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	persisted, err := s.readPersisted(ctx)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	table, err := NewTable(fetched, persisted)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	s.mu.Lock()
	s.table = table
	s.state = StateReady
	s.revision = uuid.NewString()
	rev := s.revision
	s.mu.Unlock()

	logger.Info("records loaded",
		"records", len(fetched),
		"persisted", len(persisted) > 0,
		"revision", rev,
	)
	return nil
}

// readPersisted decodes the stored snapshot. A missing key, an empty value,
// "null" and "[]" all mean no snapshot.
func (s *Service) readPersisted(ctx context.Context) ([]Record, error) {
	raw, found, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorruptSnapshot, s.key, err)
	}
	return records, nil
}

// State returns the lifecycle state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Revision returns an id that changes on every load and mutation.
// Empty while loading.
func (s *Service) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// View returns the rows to render, ordered by spec. While loading it
// returns a view with State Loading and no rows.
func (s *Service) View(spec SortSpec) View {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := View{
		State:    s.state,
		Columns:  Columns,
		Sort:     spec,
		Revision: s.revision,
	}
	if s.state != StateReady {
		return v
	}

	v.Rows = Rows(s.table.EffectiveData(), spec)
	v.Shadowed = s.table.Shadowed()
	return v
}

// Working returns a copy of the working set.
func (s *Service) Working() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	return s.table.Working(), nil
}

// UpdateField sets field of the record at position to value. Reports false
// when position is out of range; the working set is then unchanged.
func (s *Service) UpdateField(ctx context.Context, position int, field Field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return false, ErrNotReady
	}

	updated, err := s.table.UpdateField(position, field, value)
	if err != nil {
		return false, fmt.Errorf("update %s at %d: %w", field, position, err)
	}

	logger := logging.WithFields(ctx, "position", position, "field", string(field))
	if !updated {
		logger.Debug("cell edit ignored: position out of range", "records", s.table.Len())
		return false, nil
	}

	s.revision = uuid.NewString()
	logger.Info("cell edited", "value", value, "revision", s.revision)
	return true, nil
}

// Reset discards all edits: the working set is restored from the fetched
// snapshot and the persisted snapshot is removed from the store.
func (s *Service) Reset(ctx context.Context) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return Ack{}, ErrNotReady
	}

	if err := s.store.Remove(ctx, s.key); err != nil {
		return Ack{}, fmt.Errorf("reset: remove %q: %w", s.key, err)
	}
	s.table.Reset()
	s.revision = uuid.NewString()

	ack, _ := AckFor(ActionReset)
	ack.Revision = s.revision

	logging.WithFields(ctx, clientAttrs(ctx)...).Info("table reset",
		"records", s.table.Len(),
		"revision", s.revision,
	)
	return ack, nil
}

// Submit writes the working set to the store. The working set itself is
// left unchanged; from now on the view renders the persisted copy.
func (s *Service) Submit(ctx context.Context) (Ack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return Ack{}, ErrNotReady
	}

	snapshot := s.table.Working()
	data, err := json.Marshal(snapshot)
	if err != nil {
		return Ack{}, fmt.Errorf("submit: encode snapshot: %w", err)
	}

	if err := s.store.Set(ctx, s.key, string(data)); err != nil {
		return Ack{}, fmt.Errorf("submit: write %q: %w", s.key, err)
	}
	s.table.MarkPersisted(snapshot)
	s.revision = uuid.NewString()

	ack, _ := AckFor(ActionSubmit)
	ack.Revision = s.revision

	logging.WithFields(ctx, clientAttrs(ctx)...).Info("changes submitted",
		"records", len(snapshot),
		"bytes", len(data),
		"revision", s.revision,
	)
	return ack, nil
}
