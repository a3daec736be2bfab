package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/scheduler"
)

func init() {
	cmd := &cobra.Command{
		Use:   "review <item>",
		Short: "Record a review and reschedule the item",
		Long:  "Record a review outcome for an item. Rating: 1=Again, 2=Hard, 3=Good, 4=Easy.",
		Args:  cobra.ExactArgs(1),
		Run:   runReview,
	}

	cmd.Flags().IntP("rating", "r", 0, "Rating 1-4 (required)")
	cmd.Flags().String("today", "", "Override today's date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("rating")

	RootCmd.AddCommand(cmd)
}

func runReview(cmd *cobra.Command, args []string) {
	itemID := args[0]

	n, _ := cmd.Flags().GetInt("rating")
	rating, err := model.ParseRating(n)
	if err != nil {
		exitErr("review", err)
	}

	today, err := todayFrom(cmd)
	if err != nil {
		exitErr("review", err)
	}

	log, err := openLog()
	if err != nil {
		exitErr("open review log", err)
	}
	defer log.Close()

	sched := scheduler.New(openSchedule(), log, loadParams())
	state, warnings, err := sched.Review(cmd.Context(), itemID, rating, today)
	printWarnings(warnings)
	if err != nil {
		exitErr("review", err)
	}

	out := struct {
		Item  string            `json:"item"`
		State model.MemoryState `json:"state"`
	}{Item: itemID, State: state}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
