// Package model defines the core scheduling data types.
package model

import (
	"fmt"
	"time"
)

// Rating is the outcome of a single review, graded 1-4.
type Rating int

const (
	RatingAgain Rating = iota + 1 // forgotten, counts as a lapse
	RatingHard
	RatingGood
	RatingEasy
)

// ParseRating validates an integer rating. Anything outside 1-4 is
// rejected, never clamped.
func ParseRating(n int) (Rating, error) {
	r := Rating(n)
	if !r.Valid() {
		return 0, &ValidationError{Field: "rating", Reason: fmt.Sprintf("%d is not in 1-4 (Again/Hard/Good/Easy)", n)}
	}
	return r, nil
}

// Valid reports whether the rating is in the 1-4 range.
func (r Rating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Success reports whether the review counts as a recall success.
func (r Rating) Success() bool {
	return r > RatingAgain
}

func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	}
	return fmt.Sprintf("rating(%d)", int(r))
}

// LearningState is the lifecycle stage of an item.
type LearningState string

const (
	StateNew        LearningState = "new"
	StateLearning   LearningState = "learning"
	StateReview     LearningState = "review"
	StateRelearning LearningState = "relearning"
)

// ValidStates are the allowed learning states.
var ValidStates = map[LearningState]bool{
	StateNew:        true,
	StateLearning:   true,
	StateReview:     true,
	StateRelearning: true,
}

// Difficulty and stability bounds enforced after every transition.
const (
	MinDifficulty = 1.0
	MaxDifficulty = 10.0
	MinStability  = 0.01
)

// MemoryState is the scheduler's persisted belief about one item.
type MemoryState struct {
	Difficulty     float64       `json:"difficulty"`
	Stability      float64       `json:"stability"`
	Retrievability float64       `json:"retrievability"`
	ElapsedDays    int           `json:"elapsed_days"`
	ScheduledDays  int           `json:"scheduled_days"`
	Reps           int           `json:"reps"`
	Lapses         int           `json:"lapses"`
	LearningState  LearningState `json:"learning_state"`
	NextReviewDate Date          `json:"next_review_date"`
	LastReviewDate *Date         `json:"last_review_date"`
}

// Clamp forces difficulty and stability back into their valid ranges.
// Transitions that drift out of range are corrected here, never persisted raw.
func (s *MemoryState) Clamp() {
	if s.Difficulty < MinDifficulty {
		s.Difficulty = MinDifficulty
	}
	if s.Difficulty > MaxDifficulty {
		s.Difficulty = MaxDifficulty
	}
	if s.Stability < MinStability {
		s.Stability = MinStability
	}
}

// Validate checks a persisted state for corruption. A state that fails
// here is discarded and rebuilt fresh rather than repaired.
func (s MemoryState) Validate() error {
	if s.Stability <= 0 {
		return fmt.Errorf("stability %v is not positive", s.Stability)
	}
	if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
		return fmt.Errorf("difficulty %v outside [%v, %v]", s.Difficulty, MinDifficulty, MaxDifficulty)
	}
	if s.Reps < 0 || s.Lapses < 0 || s.Lapses > s.Reps {
		return fmt.Errorf("inconsistent counters: reps=%d lapses=%d", s.Reps, s.Lapses)
	}
	if !ValidStates[s.LearningState] {
		return fmt.Errorf("unknown learning state %q", s.LearningState)
	}
	if s.ScheduledDays < 1 {
		return fmt.Errorf("scheduled_days %d below 1", s.ScheduledDays)
	}
	return nil
}

// Successes is the cumulative count of non-lapse reviews.
func (s MemoryState) Successes() int {
	return s.Reps - s.Lapses
}

// ReviewEvent is the only external input that mutates a MemoryState.
type ReviewEvent struct {
	ItemID    string    `json:"item_id"`
	Rating    Rating    `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}
