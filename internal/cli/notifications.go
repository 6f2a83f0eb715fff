package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			notifications, unread := tracker.Notifications()
			if len(notifications) == 0 {
				fmt.Println("No notifications.")
				return nil
			}

			for _, n := range notifications {
				marker := " "
				if !n.IsRead {
					marker = "*"
				}
				fmt.Printf("%s [%d] %-30s  %s\n", marker, n.ID, n.Title, relativeTime(n.CreatedAt))
				if n.Message != "" {
					fmt.Printf("      %s\n", n.Message)
				}
			}
			fmt.Printf("\n%d unread\n", unread)
			return nil
		},
	}

	cmd.AddCommand(newNotificationsReadCmd())
	return cmd
}

func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification_id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}

			if err := tracker.MarkNotificationRead(cmd.Context(), id); err != nil {
				return err
			}
			_, unread := tracker.Notifications()
			fmt.Printf("Marked as read. %d unread remaining.\n", unread)
			return nil
		},
	}
}
