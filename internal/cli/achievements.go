package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"kinetrack/internal/achievements"
)

type achievementStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
}

func newAchievementsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and progress toward them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			stats := achievements.Stats{
				TotalSessions: a.Ledger.TotalSessions(),
				Streak:        a.Streak.Current(),
				TotalPoints:   a.Points.TotalPoints(),
				Level:         a.Points.Level(),
			}

			statuses := []achievementStatus{}
			for _, def := range a.Achievements.Definitions() {
				p := a.Achievements.GetProgress(def.ID, stats)
				ts, _ := a.Achievements.UnlockedAt(def.ID)
				statuses = append(statuses, achievementStatus{
					ID:          def.ID,
					Name:        def.Name,
					Description: def.Description,
					Unlocked:    p.Unlocked,
					UnlockedAt:  ts,
					Progress:    p.Progress,
					Target:      p.Target,
				})
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			for _, s := range statuses {
				mark := " "
				if s.Unlocked {
					mark = "x"
				}
				fmt.Fprintf(out, "[%s] %-22s %d/%d  %s\n", mark, s.Name, s.Progress, s.Target, s.Description)
			}
			return nil
		},
	}
}
