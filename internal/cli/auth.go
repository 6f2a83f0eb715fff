package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/prep/pkg/api"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			user, err := sess.Login(cmd.Context(), api.LoginInput{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", displayName(user), roleName(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var in api.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Email == "" {
				in.Email = prompt("Email: ")
			}
			if in.FirstName == "" {
				in.FirstName = prompt("First name: ")
			}
			if in.LastName == "" {
				in.LastName = prompt("Last name: ")
			}
			if in.Password == "" {
				in.Password = prompt("Password: ")
				in.ConfirmPassword = prompt("Confirm password: ")
			} else if in.ConfirmPassword == "" {
				in.ConfirmPassword = in.Password
			}

			user, err := sess.Register(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Printf("Account created for %s (%s)\n", displayName(user), roleName(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&in.Password, "password", "", "Account password (prompted if omitted)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "First name (prompted if omitted)")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "Last name (prompted if omitted)")
	cmd.Flags().StringVar(&in.Role, "role", api.RoleStudent, "Account role (student, teacher)")
	cmd.Flags().StringVar(&in.Institution, "institution", "", "School or institution")
	cmd.Flags().StringVar(&in.Grade, "grade", "", "Current grade")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.Logout(cmd.Context())
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			user := sess.User()

			fmt.Printf("User:  %s\n", displayName(user))
			fmt.Printf("Email: %s\n", user.Email)
			fmt.Printf("Role:  %s\n", roleName(user))
			if user.Institution != "" {
				fmt.Printf("Institution: %s\n", user.Institution)
			}
			if user.LastLogin != "" {
				fmt.Printf("Last login:  %s\n", relativeTime(user.LastLogin))
			}
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func displayName(user *api.User) string {
	if user == nil {
		return ""
	}
	if user.FullName != "" {
		return user.FullName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func roleName(user *api.User) string {
	if user == nil || user.Role == nil {
		return "unknown"
	}
	return user.Role.Name
}

// relativeTime renders an API timestamp as "3 days ago", falling back
// to the raw string when it cannot be parsed.
func relativeTime(s string) string {
	t := api.ParseTime(s)
	if t.IsZero() {
		return s
	}
	return humanize.Time(t)
}
