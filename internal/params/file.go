package params

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcliao/retain/internal/model"
)

// Load reads the active parameter set from path. A missing, malformed
// or out-of-range file falls back to the default preset; the returned
// warning is non-empty when that happened. Reviews must never fail just
// because the config rotted.
func Load(path string) (Params, string) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), ""
	}
	if err != nil {
		return Default(), fmt.Sprintf("read params %s: %v; using default preset", path, err)
	}

	var p Params
	if err := json.Unmarshal(b, &p); err != nil {
		return Default(), fmt.Sprintf("parse params %s: %v; using default preset", path, err)
	}
	checked, err := New(p.Weights, p.DesiredRetention, p.MaximumInterval)
	if err != nil {
		return Default(), fmt.Sprintf("params %s out of range: %v; using default preset", path, err)
	}
	checked.Preset = p.Preset
	return checked, ""
}

// Save writes a parameter set with the atomic-replace discipline: the
// JSON lands in a temp file in the same directory, then renames over
// the target so a crash never leaves a half-written config.
func Save(path string, p Params) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &model.PersistenceError{Op: "create params dir", Err: err}
	}

	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &model.PersistenceError{Op: "encode params", Err: err}
	}
	b = append(b, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".params-*.json")
	if err != nil {
		return &model.PersistenceError{Op: "create params temp file", Err: err}
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "write params", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "close params temp file", Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &model.PersistenceError{Op: "replace params file", Err: err}
	}
	return nil
}
