package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/prep/pkg/api"
)

func newExamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exams",
		Short: "List and manage practice exams",
	}
	cmd.AddCommand(
		newExamsListCmd(),
		newExamsShowCmd(),
		newExamsCreateCmd(),
		newExamsPendingCmd(),
	)
	return cmd
}

func newExamsListCmd() *cobra.Command {
	var status string
	var page int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your exams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			list, err := client.MyExams(cmd.Context(), api.ExamListOptions{
				Status: status,
				Page:   page,
			})
			if err != nil {
				return err
			}
			if len(list.Exams) == 0 {
				fmt.Println("No exams found.")
				return nil
			}

			fmt.Printf("%-6s  %-30s  %-12s  %-7s  %s\n", "ID", "TITLE", "STATUS", "SCORE", "CREATED")
			for _, e := range list.Exams {
				score := "-"
				if e.Status == "completed" || e.Status == "graded" {
					score = fmt.Sprintf("%.0f%%", e.Percentage)
				}
				fmt.Printf("%-6d  %-30s  %-12s  %-7s  %s\n", e.ID, e.Title, e.Status, score, relativeTime(e.CreatedAt))
			}
			if list.Pages > 1 {
				fmt.Printf("\n(page %d of %d, %d total)\n", list.Page, list.Pages, list.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (in_progress, completed, graded)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	return cmd
}

func newExamsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <exam_id>",
		Short: "Show one exam with its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid exam id %q", args[0])
			}

			exam, err := client.ExamByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Printf("Exam: %s\n", exam.Title)
			fmt.Printf("  Status: %s\n", exam.Status)
			if exam.Status == "completed" || exam.Status == "graded" {
				fmt.Printf("  Score:  %.1f (%.0f%%)\n", exam.Score, exam.Percentage)
			}
			fmt.Printf("  Questions: %d\n", exam.TotalQuestions)
			if exam.CreatedAt != "" {
				fmt.Printf("  Created:   %s\n", relativeTime(exam.CreatedAt))
			}

			if len(exam.Answers) > 0 {
				fmt.Println("  Answers:")
				for _, a := range exam.Answers {
					mark := "✗"
					if a.IsCorrect {
						mark = "✓"
					}
					fmt.Printf("    %s question %d: %s (%d pts)\n", mark, a.QuestionID, a.UserAnswer, a.PointsEarned)
				}
			}
			return nil
		},
	}
}

func newExamsCreateCmd() *cobra.Command {
	var in api.CreateExamInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new practice exam",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if in.SubjectID == 0 {
				return fmt.Errorf("--subject is required")
			}

			created, err := client.CreateExam(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Exam %d created with %d questions.\n", created.Exam.ID, len(created.Questions))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Exam title")
	cmd.Flags().IntVar(&in.SubjectID, "subject", 0, "Subject ID")
	cmd.Flags().IntVar(&in.TopicID, "topic", 0, "Topic ID (optional)")
	cmd.Flags().StringVar(&in.ExamType, "type", "practice", "Exam type (practice, simulation)")
	cmd.Flags().IntVar(&in.TotalQuestions, "questions", 0, "Number of questions")
	cmd.Flags().IntVar(&in.TimeLimit, "time-limit", 0, "Time limit in minutes")
	cmd.Flags().StringVar(&in.Difficulty, "difficulty", "", "Difficulty (easy, medium, hard)")
	return cmd
}

func newExamsPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List exams awaiting review (teachers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if !sess.IsTeacher() && !sess.IsAdmin() {
				return fmt.Errorf("only teachers can review exams")
			}

			exams, err := client.PendingReview(cmd.Context())
			if err != nil {
				return err
			}
			if len(exams) == 0 {
				fmt.Println("Nothing to review.")
				return nil
			}

			fmt.Printf("%-6s  %-30s  %s\n", "ID", "TITLE", "SUBMITTED")
			for _, e := range exams {
				fmt.Printf("%-6d  %-30s  %s\n", e.ID, e.Title, relativeTime(e.EndTime))
			}
			return nil
		},
	}
}
