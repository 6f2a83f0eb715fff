package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show a role-specific summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if sess.IsTeacher() || sess.IsAdmin() {
				return teacherDashboard(cmd.Context())
			}
			return studentDashboard(cmd.Context())
		},
	}
}

func studentDashboard(ctx context.Context) error {
	user := sess.User()
	fmt.Printf("Welcome back, %s!\n\n", displayName(user))

	records := tracker.Records()
	fmt.Printf("Total points:  %d\n", tracker.TotalPoints())
	fmt.Printf("Average level: %d\n", tracker.AverageLevel())
	fmt.Printf("Best streak:   %d days\n", tracker.MaxStreak())

	if len(records) > 0 {
		fmt.Printf("\n%-25s  %-8s  %-6s  %s\n", "SUBJECT", "POINTS", "LEVEL", "STREAK")
		for _, r := range records {
			name := ""
			if r.Subject != nil {
				name = r.Subject.Name
			}
			fmt.Printf("%-25s  %-8d  %-6d  %d days\n", name, r.TotalPoints, r.Level, r.StreakDays)
		}
	}

	notifications, unread := tracker.Notifications()
	if unread > 0 {
		fmt.Printf("\nYou have %d unread notification(s):\n", unread)
		for _, n := range notifications {
			if !n.IsRead {
				fmt.Printf("  [%d] %s\n", n.ID, n.Title)
			}
		}
	}

	tasks, err := client.Tasks(ctx)
	if err != nil {
		logger.Warn("load tasks", "error", err)
		return nil
	}
	pending := 0
	for _, t := range tasks {
		if t.Status != "completed" {
			pending++
		}
	}
	if pending > 0 {
		fmt.Printf("\nPending tutor tasks: %d (see `prep tasks`)\n", pending)
	}
	return nil
}

func teacherDashboard(ctx context.Context) error {
	user := sess.User()
	fmt.Printf("Welcome back, %s!\n\n", displayName(user))

	stats, err := client.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	fmt.Printf("Students:        %d\n", stats.TotalStudents)
	fmt.Printf("Exams taken:     %d\n", stats.TotalExams)
	fmt.Printf("Pending reviews: %d\n", stats.PendingReviews)
	fmt.Printf("Average score:   %.1f%%\n", stats.AverageScore)

	if stats.PendingReviews > 0 {
		exams, err := client.PendingReview(ctx)
		if err != nil {
			logger.Warn("load pending reviews", "error", err)
			return nil
		}
		fmt.Printf("\n%-6s  %-30s  %s\n", "ID", "TITLE", "SUBMITTED")
		for _, e := range exams {
			fmt.Printf("%-6d  %-30s  %s\n", e.ID, e.Title, relativeTime(e.EndTime))
		}
	}
	return nil
}
