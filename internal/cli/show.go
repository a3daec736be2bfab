package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <item>",
		Short: "Show an item's memory state",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	itemID := args[0]

	state, ok, err := openSchedule().Get(itemID)
	if err != nil {
		exitErr("show", err)
	}
	if !ok {
		exitErr("show", fmt.Errorf("item not tracked: %s", itemID))
	}

	b, _ := json.MarshalIndent(state, "", "  ")
	fmt.Println(string(b))
}
