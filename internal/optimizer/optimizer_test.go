package optimizer

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
	"github.com/rcliao/retain/internal/store"
)

// syntheticLog builds per-item histories with the given rating pattern
// repeated across items. Elapsed days follow a plausible expanding
// schedule with resets after lapses.
func syntheticLog(items int, pattern []model.Rating) []store.ReviewRecord {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	var recs []store.ReviewRecord

	for i := 0; i < items; i++ {
		itemID := fmt.Sprintf("item-%02d", i)
		elapsed := 0
		day := 0
		for j, rating := range pattern {
			recs = append(recs, store.ReviewRecord{
				ID:          fmt.Sprintf("%s-%03d", itemID, j),
				ItemID:      itemID,
				Rating:      rating,
				ElapsedDays: elapsed,
				ReviewedAt:  base.AddDate(0, 0, day),
			})
			if rating == model.RatingAgain {
				elapsed = 1
			} else {
				elapsed = 2 + j + i%3
			}
			day += elapsed
		}
	}
	return recs
}

// fittablePattern yields 2 lapses per item, so 5 items clear every
// default gate.
var fittablePattern = []model.Rating{
	model.RatingGood, model.RatingGood, model.RatingAgain, model.RatingGood,
	model.RatingHard, model.RatingGood, model.RatingAgain, model.RatingGood,
}

func TestGateTooFewReviews(t *testing.T) {
	recs := syntheticLog(5, fittablePattern[:4]) // 20 reviews
	_, err := Optimize(recs, params.Default(), DefaultGates())

	var insufficient *model.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if insufficient.Reason == "" {
		t.Error("expected a human-readable reason")
	}
}

func TestGateTooFewLapses(t *testing.T) {
	pattern := make([]model.Rating, 8)
	for i := range pattern {
		pattern[i] = model.RatingGood
	}
	recs := syntheticLog(5, pattern) // 40 reviews, zero lapses

	_, err := Optimize(recs, params.Default(), DefaultGates())
	var insufficient *model.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestGateTooFewItems(t *testing.T) {
	// Two items with plenty of reviews and lapses: only the
	// distinct-item gate should refuse.
	pattern := make([]model.Rating, 16)
	for i := range pattern {
		if i%3 == 0 {
			pattern[i] = model.RatingAgain // 6 lapses per item
		} else {
			pattern[i] = model.RatingGood
		}
	}
	recs := syntheticLog(2, pattern)

	_, err := Optimize(recs, params.Default(), DefaultGates())
	var insufficient *model.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestOptimizeNeverAcceptsWorse(t *testing.T) {
	recs := syntheticLog(5, fittablePattern)
	res, err := Optimize(recs, params.Default(), DefaultGates())
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if math.IsNaN(res.OptimizedLoss) || math.IsInf(res.OptimizedLoss, 0) {
		t.Fatalf("non-finite optimized loss %v", res.OptimizedLoss)
	}
	if res.OptimizedLoss > res.BaselineLoss {
		t.Errorf("optimized loss %v above baseline %v", res.OptimizedLoss, res.BaselineLoss)
	}
	if !res.Accepted {
		t.Error("a fit no worse than baseline must be accepted")
	}
	if got := res.BaselineLoss - res.OptimizedLoss; math.Abs(got-res.Improvement) > 1e-12 {
		t.Errorf("improvement %v inconsistent with losses", res.Improvement)
	}
	if err := res.OptimizedWeights.Validate(); err != nil {
		t.Errorf("fitted weights out of bounds: %v", err)
	}
	if res.Reviews != len(recs) {
		t.Errorf("expected %d reviews counted, got %d", len(recs), res.Reviews)
	}
}

func TestOptimizeIsDeterministic(t *testing.T) {
	recs := syntheticLog(5, fittablePattern)
	p := params.Default()

	first, err := Optimize(recs, p, DefaultGates())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Optimize(recs, p, DefaultGates())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Accepted != second.Accepted {
		t.Errorf("accept decision changed: %v vs %v", first.Accepted, second.Accepted)
	}
	if first.OptimizedLoss != second.OptimizedLoss || first.BaselineLoss != second.BaselineLoss {
		t.Errorf("losses changed between runs: %+v vs %+v", first, second)
	}
	if first.OptimizedWeights != second.OptimizedWeights {
		t.Error("fitted weights changed between runs")
	}
}

func TestLogLossIsCallStable(t *testing.T) {
	// The loss must not depend on map iteration order: identical
	// inputs give a bit-identical sum on every call.
	histories := groupByItem(syntheticLog(5, fittablePattern))
	w := params.Default().Weights

	first := logLoss(histories, w)
	for i := 0; i < 2000; i++ {
		if got := logLoss(histories, w); got != first {
			t.Fatalf("call %d: loss changed from %.20f to %.20f", i, first, got)
		}
	}
}

func TestOptimizeDoesNotMutateInputs(t *testing.T) {
	recs := syntheticLog(5, fittablePattern)
	snapshot := make([]store.ReviewRecord, len(recs))
	copy(snapshot, recs)
	p := params.Default()

	if _, err := Optimize(recs, p, DefaultGates()); err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if p != params.Default() {
		t.Error("current params mutated")
	}
	for i := range recs {
		if recs[i] != snapshot[i] {
			t.Fatalf("log record %d mutated", i)
		}
	}
}

func TestOnlyFirstReviewsIsRefused(t *testing.T) {
	// 30 items reviewed once each with 10 lapses passes the counting
	// gates but leaves nothing to predict.
	var recs []store.ReviewRecord
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		rating := model.RatingGood
		if i < 10 {
			rating = model.RatingAgain
		}
		recs = append(recs, store.ReviewRecord{
			ID:         fmt.Sprintf("r-%03d", i),
			ItemID:     fmt.Sprintf("item-%02d", i),
			Rating:     rating,
			ReviewedAt: base.AddDate(0, 0, i),
		})
	}

	_, err := Optimize(recs, params.Default(), DefaultGates())
	var insufficient *model.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}
