package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/prep/pkg/api"
)

func newSubjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subjects [id]",
		Short: "Browse subjects and their topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			if len(args) == 1 {
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid subject id %q", args[0])
				}
				return showSubject(cmd, id)
			}

			subjects, err := client.Subjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(subjects) == 0 {
				fmt.Println("No subjects available.")
				return nil
			}

			fmt.Printf("%-4s  %-25s  %s\n", "ID", "NAME", "TOPICS")
			for _, s := range subjects {
				fmt.Printf("%-4d  %-25s  %d\n", s.ID, s.Name, s.TotalTopics)
			}
			return nil
		},
	}
	cmd.AddCommand(newQuestionsCmd())
	return cmd
}

func newQuestionsCmd() *cobra.Command {
	var filter api.QuestionFilter

	cmd := &cobra.Command{
		Use:   "questions <topic_id>",
		Short: "Browse practice questions of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			topicID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid topic id %q", args[0])
			}

			questions, err := client.Questions(cmd.Context(), topicID, filter)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				fmt.Println("No questions found.")
				return nil
			}

			for _, q := range questions {
				fmt.Printf("[%d] (%s, %d pts) %s\n", q.ID, q.Difficulty, q.Points, q.QuestionText)
				for key, opt := range q.Options {
					fmt.Printf("      %s) %s\n", key, opt)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Difficulty, "difficulty", "", "Filter by difficulty (easy, medium, hard)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "Questions per page")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "Page number")
	return cmd
}

func showSubject(cmd *cobra.Command, id int) error {
	detail, err := client.SubjectByID(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("Subject: %s\n", detail.Name)
	if detail.Description != "" {
		fmt.Printf("  %s\n", detail.Description)
	}

	if len(detail.Topics) == 0 {
		fmt.Println("\nNo topics yet.")
		return nil
	}

	fmt.Printf("\n%-4s  %-30s  %-10s  %s\n", "ID", "TOPIC", "DIFFICULTY", "QUESTIONS")
	for _, t := range detail.Topics {
		fmt.Printf("%-4d  %-30s  %-10s  %d\n", t.ID, t.Name, t.Difficulty, t.TotalQuestions)
	}
	return nil
}
