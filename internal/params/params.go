// Package params defines the scheduler's tunable parameter set.
//
// The model weights are a named struct rather than an opaque vector so
// every field carries its unit and range; the flat vector form exists
// only at the optimizer boundary.
package params

import (
	"fmt"

	"github.com/rcliao/retain/internal/model"
)

// NumWeights is the length of the flat weight vector.
const NumWeights = 18

// Weights are the memory-model coefficients.
//
// Vector order: indices 0-3 are InitialStability[0..3], then the fields
// in declaration order, Decay last (index 17).
type Weights struct {
	// InitialStability is the stability, in days, assigned on an item's
	// first-ever review, indexed by rating-1 (Again/Hard/Good/Easy).
	InitialStability [4]float64 `json:"initial_stability"`

	// InitialDifficulty and DifficultyScale set the first-review
	// difficulty: InitialDifficulty - (rating-3)*DifficultyScale.
	InitialDifficulty float64 `json:"initial_difficulty"`
	DifficultyScale   float64 `json:"difficulty_scale"`

	// DifficultyDelta is the per-review difficulty step; MeanReversion
	// is the fraction pulled back toward the Easy baseline afterwards.
	DifficultyDelta float64 `json:"difficulty_delta"`
	MeanReversion   float64 `json:"mean_reversion"`

	// Success-growth shape: exp(StabilityScale) scales the gain,
	// StabilityDecay damps it for already-stable items, and
	// RetrievabilityBonus rewards reviewing close to the forgetting edge.
	StabilityScale      float64 `json:"stability_scale"`
	StabilityDecay      float64 `json:"stability_decay"`
	RetrievabilityBonus float64 `json:"retrievability_bonus"`

	// Post-lapse stability shape.
	LapseScale          float64 `json:"lapse_scale"`
	LapseDifficultyExp  float64 `json:"lapse_difficulty_exp"`
	LapseStabilityPow   float64 `json:"lapse_stability_pow"`
	LapseRetrievability float64 `json:"lapse_retrievability"`

	// Per-rating growth modifiers: HardPenalty in (0,1], EasyBonus >= 1.
	HardPenalty float64 `json:"hard_penalty"`
	EasyBonus   float64 `json:"easy_bonus"`

	// Decay is the power-law forgetting exponent.
	Decay float64 `json:"decay"`
}

// Params is an immutable scheduler configuration. Construct through New
// or a preset; the optimizer produces a new value, never mutates one.
type Params struct {
	Preset           string  `json:"preset,omitempty"`
	Weights          Weights `json:"weights"`
	DesiredRetention float64 `json:"desired_retention"`
	MaximumInterval  int     `json:"maximum_interval"`
}

// New validates and assembles a parameter set.
func New(w Weights, desiredRetention float64, maximumInterval int) (Params, error) {
	if desiredRetention <= 0 || desiredRetention > 1 {
		return Params{}, &model.ValidationError{Field: "desired_retention", Reason: fmt.Sprintf("%v not in (0, 1]", desiredRetention)}
	}
	if maximumInterval < 1 {
		return Params{}, &model.ValidationError{Field: "maximum_interval", Reason: fmt.Sprintf("%d below 1", maximumInterval)}
	}
	if err := w.Validate(); err != nil {
		return Params{}, err
	}
	return Params{Weights: w, DesiredRetention: desiredRetention, MaximumInterval: maximumInterval}, nil
}

// Validate checks every weight against its physical range.
func (w Weights) Validate() error {
	lo, hi := Bounds()
	vec := w.Vector()
	for i, v := range vec {
		if v < lo[i] || v > hi[i] {
			return &model.ValidationError{
				Field:  "weights",
				Reason: fmt.Sprintf("w[%d]=%v outside [%v, %v]", i, v, lo[i], hi[i]),
			}
		}
	}
	return nil
}

// Vector flattens the weights for the optimizer.
func (w Weights) Vector() [NumWeights]float64 {
	return [NumWeights]float64{
		w.InitialStability[0], w.InitialStability[1], w.InitialStability[2], w.InitialStability[3],
		w.InitialDifficulty, w.DifficultyScale,
		w.DifficultyDelta, w.MeanReversion,
		w.StabilityScale, w.StabilityDecay, w.RetrievabilityBonus,
		w.LapseScale, w.LapseDifficultyExp, w.LapseStabilityPow, w.LapseRetrievability,
		w.HardPenalty, w.EasyBonus,
		w.Decay,
	}
}

// FromVector rebuilds named weights from the optimizer's flat form.
func FromVector(v [NumWeights]float64) Weights {
	return Weights{
		InitialStability:    [4]float64{v[0], v[1], v[2], v[3]},
		InitialDifficulty:   v[4],
		DifficultyScale:     v[5],
		DifficultyDelta:     v[6],
		MeanReversion:       v[7],
		StabilityScale:      v[8],
		StabilityDecay:      v[9],
		RetrievabilityBonus: v[10],
		LapseScale:          v[11],
		LapseDifficultyExp:  v[12],
		LapseStabilityPow:   v[13],
		LapseRetrievability: v[14],
		HardPenalty:         v[15],
		EasyBonus:           v[16],
		Decay:               v[17],
	}
}

// Bounds returns the per-weight box the optimizer must stay inside.
// Everything is non-negative; the decay exponent is kept away from the
// flat (0) and cliff-like (>0.8) regimes where the forgetting curve
// degenerates.
func Bounds() (lo, hi [NumWeights]float64) {
	for i := range lo {
		lo[i] = 0.001
		hi[i] = 10
	}
	for i := 0; i < 4; i++ { // initial stabilities, days
		lo[i] = 0.01
		hi[i] = 100
	}
	lo[4], hi[4] = model.MinDifficulty, model.MaxDifficulty // initial difficulty
	lo[7], hi[7] = 0, 0.75                                  // mean reversion fraction
	lo[15], hi[15] = 0.01, 1                                // hard penalty
	lo[16], hi[16] = 1, 5                                   // easy bonus
	lo[17], hi[17] = 0.1, 0.8                               // decay exponent
	return lo, hi
}

// ClampVector projects a candidate vector into Bounds.
func ClampVector(v [NumWeights]float64) [NumWeights]float64 {
	lo, hi := Bounds()
	for i := range v {
		if v[i] < lo[i] {
			v[i] = lo[i]
		}
		if v[i] > hi[i] {
			v[i] = hi[i]
		}
	}
	return v
}

// WithWeights returns a copy of p carrying new weights. The preset tag
// is cleared because the result no longer matches a named preset.
func (p Params) WithWeights(w Weights) (Params, error) {
	np, err := New(w, p.DesiredRetention, p.MaximumInterval)
	if err != nil {
		return Params{}, err
	}
	return np, nil
}
