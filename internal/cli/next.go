package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/policy"
)

func init() {
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Pick the next item to review",
		Long:  "Pick zero or one due item. Strategies: random, most_overdue, least_reviewed.",
		Run:   runNext,
	}

	cmd.Flags().StringP("strategy", "s", string(policy.StrategyMostOverdue), "Selection strategy")
	cmd.Flags().Int64("seed", 0, "PRNG seed for the random strategy")
	cmd.Flags().String("today", "", "Override today's date (YYYY-MM-DD)")

	RootCmd.AddCommand(cmd)
}

func runNext(cmd *cobra.Command, args []string) {
	strategyStr, _ := cmd.Flags().GetString("strategy")
	seed, _ := cmd.Flags().GetInt64("seed")

	strategy, err := policy.ParseStrategy(strategyStr)
	if err != nil {
		exitErr("next", err)
	}

	today, err := todayFrom(cmd)
	if err != nil {
		exitErr("next", err)
	}

	sched, warnings, err := openSchedule().Load()
	printWarnings(warnings)
	if err != nil {
		exitErr("load schedule", err)
	}

	sel, err := policy.Select(sched, today, strategy, seed)
	if err != nil {
		exitErr("next", err)
	}

	b, _ := json.MarshalIndent(sel, "", "  ")
	fmt.Println(string(b))
}
