package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/me/prep/pkg/api"
)

func newMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List tutoring messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}

			list, err := client.Messages(cmd.Context())
			if err != nil {
				return err
			}
			if len(list.Messages) == 0 {
				fmt.Println("No messages.")
				return nil
			}

			for _, m := range list.Messages {
				marker := " "
				if !m.IsRead {
					marker = "*"
				}
				from := ""
				if m.Sender != nil {
					from = m.Sender.FullName
				}
				fmt.Printf("%s [%d] from %-20s  %s\n", marker, m.ID, from, relativeTime(m.CreatedAt))
				if m.Subject != "" {
					fmt.Printf("      %s\n", m.Subject)
				}
				fmt.Printf("      %s\n", m.Message)
			}
			fmt.Printf("\n%d unread\n", list.UnreadCount)
			return nil
		},
	}

	cmd.AddCommand(newMessagesSendCmd(), newMessagesReadCmd())
	return cmd
}

func newMessagesReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <message_id>",
		Short: "Mark a message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid message id %q", args[0])
			}

			if err := client.MarkMessageRead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("Marked as read.")
			return nil
		},
	}
}

func newMessagesSendCmd() *cobra.Command {
	var in api.SendMessageInput

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to a student or tutor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(); err != nil {
				return err
			}
			if in.ReceiverID == 0 {
				return fmt.Errorf("--to is required")
			}
			if in.Message == "" {
				in.Message = prompt("Message: ")
			}

			sent, err := client.SendMessage(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Printf("Message %d sent.\n", sent.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&in.ReceiverID, "to", 0, "Recipient user ID")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "Message subject")
	cmd.Flags().StringVar(&in.Message, "message", "", "Message body (prompted if omitted)")
	return cmd
}
