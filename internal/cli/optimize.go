package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/retain/internal/model"
	"github.com/rcliao/retain/internal/optimizer"
	"github.com/rcliao/retain/internal/params"
)

func init() {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Refit model weights from the review log",
		Long:  "Refit the model weights against the full review history. The active parameter set is only replaced with --accept, and only if the fit improved.",
		Run:   runOptimize,
	}

	cmd.Flags().Bool("accept", false, "Write the fitted weights to the active parameter set if accepted")

	RootCmd.AddCommand(cmd)
}

func runOptimize(cmd *cobra.Command, args []string) {
	accept, _ := cmd.Flags().GetBool("accept")

	log, err := openLog()
	if err != nil {
		exitErr("open review log", err)
	}
	defer log.Close()

	recs, err := log.All(cmd.Context())
	if err != nil {
		exitErr("read review log", err)
	}

	current := loadParams()
	result, err := optimizer.Optimize(recs, current, optimizer.DefaultGates())

	var insufficient *model.InsufficientDataError
	if errors.As(err, &insufficient) {
		// Non-fatal refusal: report the reason, leave params untouched.
		out := struct {
			Accepted bool   `json:"accepted"`
			Reason   string `json:"reason"`
		}{Accepted: false, Reason: insufficient.Reason}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
		return
	}
	if err != nil {
		exitErr("optimize", err)
	}

	if accept && result.Accepted {
		next, err := current.WithWeights(result.OptimizedWeights)
		if err != nil {
			exitErr("optimize", err)
		}
		if err := params.Save(paramsPath(), next); err != nil {
			exitErr("save params", err)
		}
		fmt.Fprintf(os.Stderr, "accepted: wrote fitted weights to %s\n", paramsPath())
	}

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
