package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show your points, levels and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			records := tracker.Records()
			if len(records) == 0 {
				fmt.Println("No progress yet. Take an exam to earn points.")
				return nil
			}

			fmt.Printf("%-4s  %-25s  %-8s  %-6s  %s\n", "ID", "SUBJECT", "POINTS", "LEVEL", "STREAK")
			for _, r := range records {
				name := ""
				if r.Subject != nil {
					name = r.Subject.Name
				}
				fmt.Printf("%-4d  %-25s  %-8d  %-6d  %d days\n", r.SubjectID(), name, r.TotalPoints, r.Level, r.StreakDays)
			}

			fmt.Printf("\nTotal points:  %d\n", tracker.TotalPoints())
			fmt.Printf("Average level: %d\n", tracker.AverageLevel())
			fmt.Printf("Best streak:   %d days\n", tracker.MaxStreak())
			return nil
		},
	}

	cmd.AddCommand(newProgressAddCmd())
	return cmd
}

func newProgressAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <subject_id> <points>",
		Short: "Award points for a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			subjectID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid subject id %q", args[0])
			}
			points, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid point count %q", args[1])
			}

			updated, err := tracker.AddPoints(cmd.Context(), subjectID, points)
			if err != nil {
				return err
			}

			fmt.Printf("+%d points! Now at %d points (level %d).\n", points, updated.TotalPoints, updated.Level)
			return nil
		},
	}
}
