package params

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rcliao/retain/internal/model"
)

func TestPresetsAreValid(t *testing.T) {
	for _, name := range PresetNames() {
		p, err := Preset(name)
		if err != nil {
			t.Fatalf("preset %s: %v", name, err)
		}
		if p.Preset != name {
			t.Errorf("preset %s: tag is %q", name, p.Preset)
		}
		if err := p.Weights.Validate(); err != nil {
			t.Errorf("preset %s weights: %v", name, err)
		}
	}
}

func TestUnknownPresetEnumeratesValidNames(t *testing.T) {
	_, err := Preset("bogus")
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	for _, name := range PresetNames() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %q", err, name)
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	w := baseWeights()
	if got := FromVector(w.Vector()); got != w {
		t.Errorf("vector round trip changed weights:\n  %+v\n  %+v", w, got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	w := baseWeights()
	cases := []struct {
		name      string
		retention float64
		maxIvl    int
	}{
		{"zero retention", 0, 365},
		{"retention above one", 1.5, 365},
		{"zero max interval", 0.9, 0},
	}
	for _, tc := range cases {
		if _, err := New(w, tc.retention, tc.maxIvl); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateRejectsOutOfRangeWeight(t *testing.T) {
	w := baseWeights()
	w.Decay = 5 // outside the decay bounds
	if err := w.Validate(); err == nil {
		t.Error("expected error for out-of-range decay")
	}
	w = baseWeights()
	w.InitialStability[0] = -1
	if err := w.Validate(); err == nil {
		t.Error("expected error for negative initial stability")
	}
}

func TestClampVectorStaysInBounds(t *testing.T) {
	var v [NumWeights]float64
	for i := range v {
		v[i] = -100
	}
	lo, hi := Bounds()
	clamped := ClampVector(v)
	for i := range clamped {
		if clamped[i] < lo[i] || clamped[i] > hi[i] {
			t.Errorf("w[%d]=%v outside [%v, %v]", i, clamped[i], lo[i], hi[i])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	want := Conservative()

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, warning := Load(path)
	if warning != "" {
		t.Fatalf("unexpected warning: %s", warning)
	}
	if got != want {
		t.Errorf("round trip changed params:\n  %+v\n  %+v", want, got)
	}
}

func TestLoadMissingFileFallsBackSilently(t *testing.T) {
	got, warning := Load(filepath.Join(t.TempDir(), "absent.json"))
	if warning != "" {
		t.Errorf("missing file should not warn, got %q", warning)
	}
	if got != Default() {
		t.Errorf("expected default preset, got %+v", got)
	}
}

func TestLoadCorruptFileFallsBackWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, warning := Load(path)
	if warning == "" {
		t.Error("expected a warning for corrupt params")
	}
	if got != Default() {
		t.Errorf("expected default preset, got %+v", got)
	}
}
