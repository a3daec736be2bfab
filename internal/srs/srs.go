// Package srs implements the memory state model: power-law forgetting,
// mean-reverting difficulty, and diminishing-returns stability growth.
//
// Every function here is pure. The scheduler owns persistence; the
// optimizer replays these same functions when refitting weights.
package srs

import (
	"fmt"
	"math"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
)

// calibrationRetention anchors the forgetting curve: retrievability
// equals this value after exactly `stability` days without review.
const calibrationRetention = 0.9

// decayFactor returns f such that (1+f)^(-decay) == calibrationRetention.
func decayFactor(decay float64) float64 {
	return math.Pow(calibrationRetention, -1/decay) - 1
}

// Retrievability predicts recall probability after elapsedDays without
// review: (1 + f*t/S)^(-decay). It is 1 at t=0, strictly decreasing in
// t and increasing in S, and tends to 0 as t grows.
func Retrievability(stability, elapsedDays, decay float64) (float64, error) {
	if elapsedDays < 0 {
		return 0, &model.ValidationError{Field: "elapsed_days", Reason: fmt.Sprintf("%v is negative", elapsedDays)}
	}
	if stability <= 0 {
		return 0, &model.ValidationError{Field: "stability", Reason: fmt.Sprintf("%v is not positive", stability)}
	}
	f := decayFactor(decay)
	return math.Pow(1+f*elapsedDays/stability, -decay), nil
}

// NextInterval inverts the forgetting curve: the number of days until
// retrievability falls to the desired retention, given the new
// stability. Clipped to [1, MaximumInterval].
func NextInterval(stability float64, p params.Params) int {
	f := decayFactor(p.Weights.Decay)
	t := stability / f * (math.Pow(p.DesiredRetention, -1/p.Weights.Decay) - 1)
	days := int(math.Round(t))
	if days < 1 {
		days = 1
	}
	if days > p.MaximumInterval {
		days = p.MaximumInterval
	}
	return days
}

// InitialStability seeds stability on an item's first-ever review,
// indexed by rating. This is the one transition not conditioned on a
// prior state.
func InitialStability(rating model.Rating, w params.Weights) float64 {
	s := w.InitialStability[rating-1]
	if s < model.MinStability {
		s = model.MinStability
	}
	return s
}

// InitialDifficulty seeds difficulty on a first review: the baseline
// shifted down for easy answers, up for forgotten ones.
func InitialDifficulty(rating model.Rating, w params.Weights) float64 {
	d := w.InitialDifficulty - float64(rating-model.RatingGood)*w.DifficultyScale
	return clampDifficulty(d)
}

// NextDifficulty steps difficulty by the rating's distance from Good,
// then mean-reverts part of the way toward the Easy baseline so
// repeated extreme ratings cannot run difficulty off its scale.
func NextDifficulty(difficulty float64, rating model.Rating, w params.Weights) float64 {
	next := difficulty - w.DifficultyDelta*float64(rating-model.RatingGood)
	baseline := w.InitialDifficulty - w.DifficultyScale
	next = w.MeanReversion*baseline + (1-w.MeanReversion)*next
	return clampDifficulty(next)
}

// NextStability computes post-review stability. Success ratings grow
// stability, with less gain for hard items and for items reviewed while
// still well retained; Again recomputes from the post-lapse formula.
func NextStability(difficulty, stability, retrievability float64, rating model.Rating, w params.Weights) float64 {
	if rating == model.RatingAgain {
		return lapseStability(difficulty, stability, retrievability, w)
	}

	growth := math.Exp(w.StabilityScale) *
		(model.MaxDifficulty + 1 - difficulty) *
		math.Pow(stability, -w.StabilityDecay) *
		(math.Exp((1-retrievability)*w.RetrievabilityBonus) - 1)
	switch rating {
	case model.RatingHard:
		growth *= w.HardPenalty
	case model.RatingEasy:
		growth *= w.EasyBonus
	}
	return stability * (1 + growth)
}

// lapseStability is the steep post-lapse reduction. It is a fresh
// estimate from difficulty and retention at failure, not a reset to a
// fixed floor, and is capped strictly below the prior stability — with
// one carve-out: a prior already at the MinStability floor stays at the
// floor, since there is nothing left to shrink.
func lapseStability(difficulty, stability, retrievability float64, w params.Weights) float64 {
	s := w.LapseScale *
		math.Pow(difficulty, -w.LapseDifficultyExp) *
		(math.Pow(stability+1, w.LapseStabilityPow) - 1) *
		math.Exp((1-retrievability)*w.LapseRetrievability)
	if s >= stability {
		s = stability * calibrationRetention
	}
	if s < model.MinStability {
		s = model.MinStability
	}
	return s
}

func clampDifficulty(d float64) float64 {
	if d < model.MinDifficulty {
		return model.MinDifficulty
	}
	if d > model.MaxDifficulty {
		return model.MaxDifficulty
	}
	return d
}
