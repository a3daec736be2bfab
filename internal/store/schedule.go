package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/rcliao/retain/internal/model"
)

// ScheduleStore persists the item → MemoryState map as a single JSON
// document. Writes go to a temp file in the same directory and rename
// over the target, so a crash mid-write leaves the previous document
// intact.
type ScheduleStore struct {
	path string
}

// NewScheduleStore points at (but does not create) the schedule file.
func NewScheduleStore(path string) *ScheduleStore {
	return &ScheduleStore{path: path}
}

// Path returns the schedule file location.
func (s *ScheduleStore) Path() string { return s.path }

// Load reads the full schedule snapshot. A missing file is an empty
// schedule. Entries that fail to decode or validate are dropped — the
// affected item restarts fresh on its next review — and reported as
// warnings; one rotten entry never blocks the rest.
func (s *ScheduleStore) Load() (Schedule, []string, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Schedule{}, nil, nil
	}
	if err != nil {
		return nil, nil, &model.PersistenceError{Op: "read schedule", Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		warn := (&model.StateCorruptionError{Err: err}).Error()
		return Schedule{}, []string{warn}, nil
	}

	sched := make(Schedule, len(raw))
	var warnings []string
	for id, msg := range raw {
		var st model.MemoryState
		if err := json.Unmarshal(msg, &st); err != nil {
			warnings = append(warnings, (&model.StateCorruptionError{Item: id, Err: err}).Error())
			continue
		}
		if err := st.Validate(); err != nil {
			warnings = append(warnings, (&model.StateCorruptionError{Item: id, Err: err}).Error())
			continue
		}
		sched[id] = st
	}
	sort.Strings(warnings)
	return sched, warnings, nil
}

// Save atomically replaces the schedule document.
func (s *ScheduleStore) Save(sched Schedule) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &model.PersistenceError{Op: "create schedule dir", Err: err}
	}

	b, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		return &model.PersistenceError{Op: "encode schedule", Err: err}
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".schedule-*.json")
	if err != nil {
		return &model.PersistenceError{Op: "create schedule temp file", Err: err}
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "write schedule", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "close schedule temp file", Err: err}
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "replace schedule file", Err: err}
	}
	return nil
}

// Get loads a single item's state; ok is false for untracked items.
func (s *ScheduleStore) Get(itemID string) (model.MemoryState, bool, error) {
	sched, _, err := s.Load()
	if err != nil {
		return model.MemoryState{}, false, err
	}
	st, ok := sched[itemID]
	return st, ok, nil
}
