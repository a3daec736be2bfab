// Package cli implements the retain CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/params"
	"github.com/rcliao/retain/internal/store"
)

var dataDirFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "retain",
	Short: "Spaced-repetition scheduler",
	Long:  "A tiny CLI spaced-repetition scheduler. Ratings in, review dates out. JSON schedule + SQLite review log, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dataDirFlag, "data", "d", "", "Data directory (default: $RETAIN_DATA_DIR or ~/.retain)")
}

func dataDir() string {
	if dataDirFlag != "" {
		return dataDirFlag
	}
	if env := os.Getenv("RETAIN_DATA_DIR"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".retain")
}

func schedulePath() string { return filepath.Join(dataDir(), "schedule.json") }
func logPath() string      { return filepath.Join(dataDir(), "reviews.db") }
func paramsPath() string   { return filepath.Join(dataDir(), "params.json") }

func openSchedule() *store.ScheduleStore {
	return store.NewScheduleStore(schedulePath())
}

func openLog() (*store.SQLiteLog, error) {
	return store.NewSQLiteLog(logPath())
}

// loadParams returns the active parameter set, falling back to the
// default preset (with a stderr warning) if the file is missing or bad.
func loadParams() params.Params {
	p, warning := params.Load(paramsPath())
	if warning != "" {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	return p
}

// todayFrom resolves the --today override, defaulting to the current
// UTC calendar day.
func todayFrom(cmd *cobra.Command) (model.Date, error) {
	s, _ := cmd.Flags().GetString("today")
	if s == "" {
		return model.DateOf(time.Now()), nil
	}
	return model.ParseDate(s)
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
