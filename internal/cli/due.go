package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/policy"
)

func init() {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List items due for review",
		Run:   runDue,
	}

	cmd.Flags().String("today", "", "Override today's date (YYYY-MM-DD)")
	cmd.Flags().Bool("ids-only", false, "Only output item ids")

	RootCmd.AddCommand(cmd)
}

func runDue(cmd *cobra.Command, args []string) {
	today, err := todayFrom(cmd)
	if err != nil {
		exitErr("due", err)
	}
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	sched, warnings, err := openSchedule().Load()
	printWarnings(warnings)
	if err != nil {
		exitErr("load schedule", err)
	}

	due := policy.DueSet(sched, today)

	if idsOnly {
		for _, c := range due {
			fmt.Println(c.ID)
		}
		return
	}

	type dueItem struct {
		Item  string            `json:"item"`
		State model.MemoryState `json:"state"`
	}
	out := make([]dueItem, 0, len(due))
	for _, c := range due {
		out = append(out, dueItem{Item: c.ID, State: c.State})
	}
	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}
