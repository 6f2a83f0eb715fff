package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "List your tutees (teachers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if !sess.IsTeacher() && !sess.IsAdmin() {
				return fmt.Errorf("only teachers have students")
			}

			students, err := client.MyTutees(cmd.Context())
			if err != nil {
				return err
			}
			if len(students) == 0 {
				fmt.Println("No students assigned yet (see `prep students assign`).")
				return nil
			}

			fmt.Printf("%-6s  %-25s  %-30s  %s\n", "ID", "NAME", "EMAIL", "GRADE")
			for _, s := range students {
				fmt.Printf("%-6d  %-25s  %-30s  %s\n", s.ID, displayName(&s), s.Email, s.Grade)
			}
			return nil
		},
	}

	cmd.AddCommand(newStudentsAssignCmd(), newStudentsUnassignCmd())
	return cmd
}

func newStudentsAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <student_id>",
		Short: "Take a student on as a tutee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			if err := client.AssignTutor(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Student %d assigned to you.\n", id)
			return nil
		},
	}
}

func newStudentsUnassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <student_id>",
		Short: "Release a tutee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid student id %q", args[0])
			}

			if err := client.RemoveTutor(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Student %d released.\n", id)
			return nil
		},
	}
}
