package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show review history",
		Run:   runLog,
	}

	cmd.Flags().StringP("item", "i", "", "Filter by item id")
	cmd.Flags().IntP("limit", "l", 20, "Max results (item filter only)")

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	itemID, _ := cmd.Flags().GetString("item")
	limit, _ := cmd.Flags().GetInt("limit")

	log, err := openLog()
	if err != nil {
		exitErr("open review log", err)
	}
	defer log.Close()

	var recs interface{}
	if itemID != "" {
		recs, err = log.ByItem(cmd.Context(), itemID, limit)
	} else {
		recs, err = log.All(cmd.Context())
	}
	if err != nil {
		exitErr("log", err)
	}

	b, _ := json.MarshalIndent(recs, "", "  ")
	fmt.Println(string(b))
}
