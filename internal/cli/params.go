package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/params"
)

func init() {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the active parameter set",
		Run:   runParamsShow,
	}

	use := &cobra.Command{
		Use:   "use <preset>",
		Short: "Switch to a named preset (default, conservative, aggressive)",
		Args:  cobra.ExactArgs(1),
		Run:   runParamsUse,
	}

	cmd.AddCommand(use)
	RootCmd.AddCommand(cmd)
}

func runParamsShow(cmd *cobra.Command, args []string) {
	p := loadParams()
	b, _ := json.MarshalIndent(p, "", "  ")
	fmt.Println(string(b))
}

func runParamsUse(cmd *cobra.Command, args []string) {
	p, err := params.Preset(args[0])
	if err != nil {
		exitErr("params use", err)
	}

	if err := params.Save(paramsPath(), p); err != nil {
		exitErr("params use", err)
	}

	b, _ := json.MarshalIndent(p, "", "  ")
	fmt.Println(string(b))
}
