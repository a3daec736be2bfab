package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the schedule and review log as JSON",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	log, err := openLog()
	if err != nil {
		exitErr("open review log", err)
	}
	defer log.Close()

	export, warnings, err := store.ExportAll(cmd.Context(), openSchedule(), log)
	printWarnings(warnings)
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(export, "", "  ")
	fmt.Println(string(b))
}
