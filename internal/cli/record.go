package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newRecordCommand(opts *RootOptions) *cobra.Command {
	var extras []string

	cmd := &cobra.Command{
		Use:   "record <exercise> <difficulty> <score>",
		Short: "Record a completed exercise session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("score must be an integer: %q", args[2])
			}
			extraMap, err := parseExtras(extras)
			if err != nil {
				return err
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.RecordSession(args[0], args[1], score, extraMap)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintf(out, "Recorded %s/%s score %d (session #%d)\n", args[0], args[1], res.Record.Entry.Score, res.Record.TotalSessions)
			if res.Record.IsNewBest {
				fmt.Fprintln(out, "New personal best!")
			}
			fmt.Fprintf(out, "Streak: %d day(s)  Points: +%d (total %d, level %d)\n", res.Streak, res.Points.PointsEarned, res.Points.TotalPoints, res.Level)
			if res.LeveledUp {
				fmt.Fprintf(out, "Leveled up to %d!\n", res.Points.NewLevel)
			}
			for _, u := range res.NewUnlocks {
				fmt.Fprintf(out, "Unlocked: %s/%s\n", u.ExerciseID, u.Difficulty)
			}
			for _, id := range res.NewAchievements {
				fmt.Fprintf(out, "Achievement: %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&extras, "extra", nil, "extra metric as key=value (numeric or boolean), repeatable")
	return cmd
}

// parseExtras turns key=value pairs into the open metric map the engine
// accepts. Values parse as numbers or booleans.
func parseExtras(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := map[string]any{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid extra %q: expected key=value", pair)
		}
		if b, err := strconv.ParseBool(value); err == nil {
			out[key] = b
			continue
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid extra %q: value must be numeric or boolean", pair)
		}
		out[key] = f
	}
	return out, nil
}
