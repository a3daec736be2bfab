// Package optimizer refits the model weights against the review log.
//
// It replays each item's logged history through the memory state model
// under candidate weights, scores the predicted retrievability before
// every repeat review against the observed outcome with binary
// cross-entropy, and minimizes that loss with a bounded derivative-free
// search. The live parameter set is only ever replaced on an explicit
// accept, and only when the refit did not get worse.
package optimizer

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
	"github.com/rcliao/retain/internal/srs"
	"github.com/rcliao/retain/internal/store"
)

// Gates are the data-sufficiency thresholds checked before any fitting.
type Gates struct {
	MinReviews int
	MinLapses  int
	MinItems   int
}

// DefaultGates require enough reviews to shape the curve, enough lapses
// to observe forgetting, and enough distinct items to avoid fitting one
// item's quirks.
func DefaultGates() Gates {
	return Gates{MinReviews: 30, MinLapses: 10, MinItems: 3}
}

// maxIterations caps the simplex search; hitting the cap returns the
// best point found so far rather than failing.
const maxIterations = 500

// probEps keeps predicted probabilities away from 0 and 1 in the loss.
const probEps = 1e-6

// Result is the structured optimizer output. OptimizedWeights is the
// fitted candidate whether or not it was accepted; Accepted is true
// only when the fit is at least as good as the baseline.
type Result struct {
	OptimizedWeights params.Weights `json:"optimized_weights"`
	BaselineLoss     float64        `json:"baseline_loss"`
	OptimizedLoss    float64        `json:"optimized_loss"`
	Improvement      float64        `json:"improvement"`
	Accepted         bool           `json:"accepted"`
	Reviews          int            `json:"reviews"`
	PredictedReviews int            `json:"predicted_reviews"`
}

// Optimize refits weights from the review log, starting at the current
// parameter set. The log and current params are read-only inputs.
func Optimize(recs []store.ReviewRecord, current params.Params, gates Gates) (*Result, error) {
	if err := checkGates(recs, gates); err != nil {
		return nil, err
	}

	histories := groupByItem(recs)
	predicted := 0
	for _, h := range histories {
		if len(h) > 1 {
			predicted += len(h) - 1
		}
	}
	if predicted == 0 {
		return nil, &model.InsufficientDataError{
			Reason: "no repeat reviews; every logged review is an item's first, so the forgetting curve is unobservable",
		}
	}

	lossAt := func(v [params.NumWeights]float64) float64 {
		return logLoss(histories, params.FromVector(v))
	}

	start := current.Weights.Vector()
	baseline := lossAt(start)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			var v [params.NumWeights]float64
			copy(v[:], x)
			return lossAt(params.ClampVector(v))
		},
	}
	settings := &optimize.Settings{MajorIterations: maxIterations}

	x0 := make([]float64, params.NumWeights)
	copy(x0, start[:])
	fit, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if fit == nil {
		return nil, fmt.Errorf("optimize weights: %w", err)
	}

	var candidate [params.NumWeights]float64
	copy(candidate[:], fit.X)
	candidate = params.ClampVector(candidate)
	optimized := lossAt(candidate)

	res := &Result{
		OptimizedWeights: params.FromVector(candidate),
		BaselineLoss:     baseline,
		OptimizedLoss:    optimized,
		Improvement:      baseline - optimized,
		Accepted:         optimized <= baseline,
		Reviews:          len(recs),
		PredictedReviews: predicted,
	}
	return res, nil
}

func checkGates(recs []store.ReviewRecord, gates Gates) error {
	lapses := 0
	items := map[string]bool{}
	for _, r := range recs {
		if r.Rating == model.RatingAgain {
			lapses++
		}
		items[r.ItemID] = true
	}

	switch {
	case len(recs) < gates.MinReviews:
		return &model.InsufficientDataError{
			Reason: fmt.Sprintf("need at least %d reviews, have %d", gates.MinReviews, len(recs)),
		}
	case lapses < gates.MinLapses:
		return &model.InsufficientDataError{
			Reason: fmt.Sprintf("need at least %d lapses to observe forgetting, have %d", gates.MinLapses, lapses),
		}
	case len(items) < gates.MinItems:
		return &model.InsufficientDataError{
			Reason: fmt.Sprintf("need at least %d distinct items, have %d", gates.MinItems, len(items)),
		}
	}
	return nil
}

// groupByItem splits the log into per-item histories in review order.
func groupByItem(recs []store.ReviewRecord) map[string][]store.ReviewRecord {
	sorted := make([]store.ReviewRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ReviewedAt.Equal(sorted[j].ReviewedAt) {
			return sorted[i].ReviewedAt.Before(sorted[j].ReviewedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	histories := map[string][]store.ReviewRecord{}
	for _, r := range sorted {
		histories[r.ItemID] = append(histories[r.ItemID], r)
	}
	return histories
}

// logLoss replays every item history under the candidate weights and
// returns the mean binary cross-entropy of predicted recall before each
// repeat review versus the observed outcome. First reviews initialize
// the replayed state and are not scored; there is nothing to predict
// before an item has been seen.
func logLoss(histories map[string][]store.ReviewRecord, w params.Weights) float64 {
	total := 0.0
	count := 0

	// Fixed item order: float summation is order-sensitive, and a
	// map-ordered walk would make the loss (and the whole fit) differ
	// between identical runs.
	items := make([]string, 0, len(histories))
	for id := range histories {
		items = append(items, id)
	}
	sort.Strings(items)

	for _, id := range items {
		history := histories[id]
		var difficulty, stability float64
		for i, rec := range history {
			if i == 0 {
				difficulty = srs.InitialDifficulty(rec.Rating, w)
				stability = srs.InitialStability(rec.Rating, w)
				continue
			}

			elapsed := rec.ElapsedDays
			if elapsed < 0 {
				elapsed = 0
			}
			p, err := srs.Retrievability(stability, float64(elapsed), w.Decay)
			if err != nil {
				p = probEps
			}
			if p < probEps {
				p = probEps
			}
			if p > 1-probEps {
				p = 1 - probEps
			}

			if rec.Rating.Success() {
				total += -math.Log(p)
			} else {
				total += -math.Log(1 - p)
			}
			count++

			nextStability := srs.NextStability(difficulty, stability, p, rec.Rating, w)
			difficulty = srs.NextDifficulty(difficulty, rec.Rating, w)
			stability = math.Max(nextStability, model.MinStability)
		}
	}

	if count == 0 {
		return math.Inf(1)
	}
	return total / float64(count)
}
