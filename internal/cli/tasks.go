package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/prep/pkg/api"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tutor-assigned tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			tasks, err := client.Tasks(cmd.Context())
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("No tasks.")
				return nil
			}

			fmt.Printf("%-6s  %-30s  %-10s  %-12s  %s\n", "ID", "TITLE", "PRIORITY", "STATUS", "DUE")
			for _, t := range tasks {
				due := "-"
				if t.DueDate != "" {
					due = relativeTime(t.DueDate)
				}
				fmt.Printf("%-6d  %-30s  %-10s  %-12s  %s\n", t.ID, t.Title, t.Priority, t.Status, due)
			}
			return nil
		},
	}

	cmd.AddCommand(newTasksCreateCmd(), newTasksCompleteCmd(), newTasksRemoveCmd())
	return cmd
}

func newTasksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task_id>",
		Short: "Delete a task (tutors)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if !sess.IsTeacher() && !sess.IsAdmin() {
				return fmt.Errorf("only tutors can delete tasks")
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			if err := client.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Task %d deleted.\n", id)
			return nil
		},
	}
}

func newTasksCreateCmd() *cobra.Command {
	var in api.CreateTaskInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Assign a task to a student (tutors)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if !sess.IsTeacher() && !sess.IsAdmin() {
				return fmt.Errorf("only tutors can assign tasks")
			}
			if in.StudentID == 0 || in.Title == "" {
				return fmt.Errorf("--student and --title are required")
			}

			task, err := client.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Task %d assigned.\n", task.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.StudentID, "student", 0, "Student user ID")
	cmd.Flags().StringVar(&in.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&in.Description, "description", "", "Task description")
	cmd.Flags().IntVar(&in.SubjectID, "subject", 0, "Related subject ID")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Priority, "priority", "", "Priority (low, medium, high)")
	return cmd
}

func newTasksCompleteCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "complete <task_id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			status := "completed"
			in := api.UpdateTaskInput{Status: &status}
			if note != "" {
				in.CompletionNote = &note
			}

			task, err := client.UpdateTask(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("Task %d marked %s.\n", task.ID, task.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Completion note")
	return cmd
}
