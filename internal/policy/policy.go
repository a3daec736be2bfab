// Package policy chooses which due item to surface next. Strategies are
// pure functions of a schedule snapshot; nothing here mutates state, so
// the caller decides what to do with the selection.
package policy

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/store"
)

// Strategy names a selection rule over the due set.
type Strategy string

const (
	StrategyRandom        Strategy = "random"
	StrategyMostOverdue   Strategy = "most_overdue"
	StrategyLeastReviewed Strategy = "least_reviewed"
)

var strategies = map[Strategy]bool{
	StrategyRandom:        true,
	StrategyMostOverdue:   true,
	StrategyLeastReviewed: true,
}

// StrategyNames lists valid strategy names, sorted.
func StrategyNames() []string {
	names := make([]string, 0, len(strategies))
	for s := range strategies {
		names = append(names, string(s))
	}
	sort.Strings(names)
	return names
}

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(s)
	if !strategies[st] {
		return "", &model.ValidationError{
			Field:  "strategy",
			Reason: fmt.Sprintf("unknown strategy %q (valid: %s)", s, strings.Join(StrategyNames(), ", ")),
		}
	}
	return st, nil
}

// Candidate pairs an item id with its state.
type Candidate struct {
	ID    string
	State model.MemoryState
}

// Selection is the tagged result: either nothing is due, or exactly one
// item was selected. Counts describe the full due set either way.
type Selection struct {
	Selected bool   `json:"selected"`
	Item     string `json:"item,omitempty"`
	Due      int    `json:"due"`
	Overdue  int    `json:"overdue"`
}

// DueSet returns all items due on or before today, sorted by id so
// every strategy works over a deterministic ordering.
func DueSet(sched store.Schedule, today model.Date) []Candidate {
	var due []Candidate
	for id, st := range sched {
		if !st.NextReviewDate.After(today) {
			due = append(due, Candidate{ID: id, State: st})
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })
	return due
}

// Select picks zero or one item from the due set. Given the same
// snapshot, date and seed, the result is identical on every call.
func Select(sched store.Schedule, today model.Date, strategy Strategy, seed int64) (Selection, error) {
	if !strategies[strategy] {
		_, err := ParseStrategy(string(strategy))
		return Selection{}, err
	}

	due := DueSet(sched, today)
	sel := Selection{Due: len(due)}
	for _, c := range due {
		if c.State.NextReviewDate.Before(today) {
			sel.Overdue++
		}
	}
	if len(due) == 0 {
		return sel, nil
	}

	var pick Candidate
	switch strategy {
	case StrategyRandom:
		rng := rand.New(rand.NewSource(seed))
		pick = due[rng.Intn(len(due))]
	case StrategyMostOverdue:
		pick = due[0]
		best := today.DaysSince(pick.State.NextReviewDate)
		for _, c := range due[1:] {
			if d := today.DaysSince(c.State.NextReviewDate); d > best {
				pick, best = c, d
			}
		}
	case StrategyLeastReviewed:
		pick = due[0]
		for _, c := range due[1:] {
			if c.State.Reps < pick.State.Reps {
				pick = c
			}
		}
	}

	sel.Selected = true
	sel.Item = pick.ID
	return sel, nil
}
