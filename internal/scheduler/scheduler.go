// Package scheduler applies the memory state model to persisted item
// state: one review event in, one atomic state transition out.
package scheduler

import (
	"context"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
	"github.com/rcliao/retain/internal/srs"
	"github.com/rcliao/retain/internal/store"
)

// Scheduler owns the review transition. It is the only writer of the
// schedule store; the selection policy only reads it.
type Scheduler struct {
	Schedule *store.ScheduleStore
	Log      store.Log
	Params   params.Params
}

// New assembles a scheduler.
func New(schedule *store.ScheduleStore, log store.Log, p params.Params) *Scheduler {
	return &Scheduler{Schedule: schedule, Log: log, Params: p}
}

// Review applies one review event and returns the new state.
//
// Input is validated before anything is touched; the schedule write is
// atomic-replace, so a failed persist leaves the prior state
// authoritative and the caller retries the whole review. Warnings carry
// per-item corruption recoveries that happened while loading.
func (s *Scheduler) Review(ctx context.Context, itemID string, rating model.Rating, today model.Date) (model.MemoryState, []string, error) {
	if itemID == "" {
		return model.MemoryState{}, nil, &model.ValidationError{Field: "item_id", Reason: "must not be empty"}
	}
	if !rating.Valid() {
		return model.MemoryState{}, nil, &model.ValidationError{Field: "rating", Reason: "must be 1-4"}
	}

	sched, warnings, err := s.Schedule.Load()
	if err != nil {
		return model.MemoryState{}, warnings, err
	}

	prev, tracked := sched[itemID]
	next, rec := transition(prev, tracked, itemID, rating, today, s.Params)

	// Log first, schedule second. If the schedule save fails the
	// orphan log row is benign (filterable by id); the reverse order
	// would leave a durable transition the log never saw, and a retry
	// would apply it twice.
	if _, err := s.Log.Append(ctx, rec); err != nil {
		return model.MemoryState{}, warnings, err
	}

	sched[itemID] = next
	if err := s.Schedule.Save(sched); err != nil {
		return model.MemoryState{}, warnings, err
	}

	return next, warnings, nil
}

// transition is the pure core of Review, shared with tests.
func transition(prev model.MemoryState, tracked bool, itemID string, rating model.Rating, today model.Date, p params.Params) (model.MemoryState, store.ReviewRecord) {
	w := p.Weights

	var (
		elapsed        int
		retrievability float64
		difficulty     float64
		stability      float64
	)

	if !tracked {
		// First-ever review: difficulty and stability come straight
		// from the rating-indexed initial weights.
		elapsed = 0
		retrievability = 1
		difficulty = srs.InitialDifficulty(rating, w)
		stability = srs.InitialStability(rating, w)
	} else {
		if prev.LastReviewDate != nil {
			elapsed = today.DaysSince(*prev.LastReviewDate)
			if elapsed < 0 {
				elapsed = 0
			}
		}
		retrievability, _ = srs.Retrievability(prev.Stability, float64(elapsed), w.Decay)
		difficulty = srs.NextDifficulty(prev.Difficulty, rating, w)
		stability = srs.NextStability(prev.Difficulty, prev.Stability, retrievability, rating, w)
	}

	interval := srs.NextInterval(stability, p)
	reviewed := today

	next := model.MemoryState{
		Difficulty:     difficulty,
		Stability:      stability,
		Retrievability: retrievability,
		ElapsedDays:    elapsed,
		ScheduledDays:  interval,
		Reps:           prev.Reps + 1,
		Lapses:         prev.Lapses,
		NextReviewDate: today.AddDays(interval),
		LastReviewDate: &reviewed,
	}
	if rating == model.RatingAgain {
		next.Lapses++
	}
	next.LearningState = nextLearningState(prev.LearningState, tracked, rating, next.Successes())
	next.Clamp()

	rec := store.ReviewRecord{
		ItemID:           itemID,
		Rating:           rating,
		ElapsedDays:      elapsed,
		DifficultyBefore: prev.Difficulty,
		StabilityBefore:  prev.Stability,
	}
	return next, rec
}

// reviewPromotionThreshold is the cumulative success count that
// graduates an item from Learning to Review.
const reviewPromotionThreshold = 3

// nextLearningState is the deterministic lifecycle machine:
//
//	first review           → Learning (whatever the rating)
//	Again from Review-ish  → Relearning
//	Again while Learning   → Learning
//	success while Learning → Review once successes reach the threshold
//	success in Relearning  → Review
//	success in Review      → Review
func nextLearningState(prev model.LearningState, tracked bool, rating model.Rating, successes int) model.LearningState {
	if !tracked || prev == model.StateNew {
		return model.StateLearning
	}
	if rating == model.RatingAgain {
		if prev == model.StateLearning {
			return model.StateLearning
		}
		return model.StateRelearning
	}
	switch prev {
	case model.StateLearning:
		if successes >= reviewPromotionThreshold {
			return model.StateReview
		}
		return model.StateLearning
	case model.StateRelearning, model.StateReview:
		return model.StateReview
	}
	return model.StateLearning
}
