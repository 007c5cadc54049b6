package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand(opts *RootOptions) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show overall progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			summary := a.Summary()
			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintf(out, "Sessions:     %d\n", summary.TotalSessions)
			fmt.Fprintf(out, "Points:       %d (level %d", summary.TotalPoints, summary.Level)
			if summary.PointsToNext > 0 {
				fmt.Fprintf(out, ", %d to next", summary.PointsToNext)
			}
			fmt.Fprintln(out, ")")
			fmt.Fprintf(out, "Streak:       %d day(s)\n", summary.Streak)
			if summary.LastActiveDay != "" {
				fmt.Fprintf(out, "Last active:  %s\n", summary.LastActiveDay)
			}
			fmt.Fprintf(out, "Achievements: %d\n", summary.Achievements)

			if recent > 0 {
				fmt.Fprintln(out)
				for _, e := range a.RecentSessions(recent) {
					fmt.Fprintf(out, "%s  %s/%s  score %d\n", e.Day, e.ExerciseID, e.Difficulty, e.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "also list the N most recent sessions")
	return cmd
}
