package params

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/retain/internal/model"
)

// baseWeights are the shipped model coefficients, fit against public
// review datasets. Presets share them and differ in retention targets.
func baseWeights() Weights {
	return Weights{
		InitialStability:    [4]float64{0.4872, 1.4003, 3.7145, 13.8206},
		InitialDifficulty:   5.1618,
		DifficultyScale:     1.2298,
		DifficultyDelta:     0.8975,
		MeanReversion:       0.031,
		StabilityScale:      1.6474,
		StabilityDecay:      0.1367,
		RetrievabilityBonus: 1.0461,
		LapseScale:          2.1072,
		LapseDifficultyExp:  0.0793,
		LapseStabilityPow:   0.3246,
		LapseRetrievability: 1.587,
		HardPenalty:         0.2272,
		EasyBonus:           2.8755,
		Decay:               0.5,
	}
}

// Default targets 90% retention with intervals up to a year.
func Default() Params {
	p, _ := New(baseWeights(), 0.9, 365)
	p.Preset = "default"
	return p
}

// Conservative reviews more often: 95% retention, intervals capped at
// half a year.
func Conservative() Params {
	p, _ := New(baseWeights(), 0.95, 180)
	p.Preset = "conservative"
	return p
}

// Aggressive spaces reviews out: 80% retention, intervals up to two
// years.
func Aggressive() Params {
	p, _ := New(baseWeights(), 0.8, 730)
	p.Preset = "aggressive"
	return p
}

var presets = map[string]func() Params{
	"default":      Default,
	"conservative": Conservative,
	"aggressive":   Aggressive,
}

// PresetNames lists the valid preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a named parameter set. Unknown names are rejected with
// the valid names enumerated.
func Preset(name string) (Params, error) {
	fn, ok := presets[name]
	if !ok {
		return Params{}, &model.ValidationError{
			Field:  "preset",
			Reason: fmt.Sprintf("unknown preset %q (valid: %s)", name, strings.Join(PresetNames(), ", ")),
		}
	}
	return fn(), nil
}
