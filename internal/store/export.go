package store

import (
	"context"
)

// Export bundles the full schedule and review history for backup or
// migration to another machine.
type Export struct {
	Schedule Schedule       `json:"schedule"`
	Reviews  []ReviewRecord `json:"reviews"`
}

// ExportAll snapshots the schedule and the complete review log.
func ExportAll(ctx context.Context, s *ScheduleStore, log Log) (*Export, []string, error) {
	sched, warnings, err := s.Load()
	if err != nil {
		return nil, warnings, err
	}
	recs, err := log.All(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return &Export{Schedule: sched, Reviews: recs}, warnings, nil
}
