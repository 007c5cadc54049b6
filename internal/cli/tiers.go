package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type tierStatus struct {
	Difficulty string `json:"difficulty"`
	Unlocked   bool   `json:"unlocked"`
	Safe       bool   `json:"safe"`
	Reason     string `json:"reason,omitempty"`
	Sessions   int    `json:"sessions"`
	Best       int    `json:"best"`
}

func newTiersCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers <exercise>",
		Short: "Show unlock and safety status for each difficulty tier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			ex, ok := a.Catalog.Exercise(args[0])
			if !ok {
				return fmt.Errorf("unknown exercise %q", args[0])
			}
			a.Unlocks.SeedExercise(ex.ID)

			statuses := make([]tierStatus, 0, len(ex.Difficulties))
			for _, tier := range ex.Difficulties {
				safe, reason := a.Unlocks.IsSafeToSelect(ex.ID, tier)
				statuses = append(statuses, tierStatus{
					Difficulty: tier,
					Unlocked:   a.Unlocks.IsUnlocked(ex.ID, tier),
					Safe:       safe,
					Reason:     reason,
					Sessions:   a.Ledger.GetTierSessions(ex.ID, tier),
					Best:       a.Ledger.GetTierBest(ex.ID, tier),
				})
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			fmt.Fprintf(out, "%s (%s)\n", ex.Name, ex.Category)
			for _, s := range statuses {
				state := "locked"
				if s.Unlocked {
					state = "unlocked"
				}
				fmt.Fprintf(out, "  %-10s %-9s sessions %-4d best %d", s.Difficulty, state, s.Sessions, s.Best)
				if !s.Safe {
					fmt.Fprintf(out, "  (caution: %s)", s.Reason)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
