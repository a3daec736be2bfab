package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show scheduler statistics",
		Run:   runStats,
	}

	cmd.Flags().String("today", "", "Override today's date (YYYY-MM-DD)")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	today, err := todayFrom(cmd)
	if err != nil {
		exitErr("stats", err)
	}

	sched, warnings, err := openSchedule().Load()
	printWarnings(warnings)
	if err != nil {
		exitErr("load schedule", err)
	}

	log, err := openLog()
	if err != nil {
		exitErr("open review log", err)
	}
	defer log.Close()

	stats, err := store.CollectStats(cmd.Context(), sched, log, today, dataDir(), schedulePath(), logPath())
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
