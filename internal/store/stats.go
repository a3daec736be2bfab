package store

import (
	"context"
	"os"

	"github.com/rcliao/retain/internal/model"
)

// Stats holds scheduler statistics.
type Stats struct {
	DataDir         string         `json:"data_dir"`
	ScheduleBytes   int64          `json:"schedule_bytes"`
	LogBytes        int64          `json:"log_bytes"`
	TrackedItems    int            `json:"tracked_items"`
	DueItems        int            `json:"due_items"`
	OverdueItems    int            `json:"overdue_items"`
	ByLearningState map[string]int `json:"by_learning_state"`
	TotalReviews    int            `json:"total_reviews"`
	TotalLapses     int            `json:"total_lapses"`
	ReviewedItems   int            `json:"reviewed_items"`
}

// CollectStats aggregates over the schedule snapshot and the review log.
func CollectStats(ctx context.Context, sched Schedule, log *SQLiteLog, today model.Date, dataDir, schedulePath, logPath string) (*Stats, error) {
	st := &Stats{
		DataDir:         dataDir,
		TrackedItems:    len(sched),
		ByLearningState: map[string]int{},
	}

	if info, err := os.Stat(schedulePath); err == nil {
		st.ScheduleBytes = info.Size()
	}
	if info, err := os.Stat(logPath); err == nil {
		st.LogBytes = info.Size()
	}

	for _, state := range sched {
		st.ByLearningState[string(state.LearningState)]++
		if !state.NextReviewDate.After(today) {
			st.DueItems++
		}
		if state.NextReviewDate.Before(today) {
			st.OverdueItems++
		}
	}

	log.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`).Scan(&st.TotalReviews)
	log.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE rating = 1`).Scan(&st.TotalLapses)
	log.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT item_id) FROM reviews`).Scan(&st.ReviewedItems)

	return st, nil
}
