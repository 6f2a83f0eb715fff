package api

import (
	"context"
	"fmt"
)

// SendMessageInput composes a tutoring message.
type SendMessageInput struct {
	ReceiverID int    `json:"receiver_id"`
	Subject    string `json:"subject,omitempty"`
	Message    string `json:"message"`
}

// CreateTaskInput describes a task a tutor assigns to a student.
type CreateTaskInput struct {
	StudentID   int    `json:"student_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	SubjectID   int    `json:"subject_id,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// UpdateTaskInput carries a partial task update. Nil pointers leave the
// field unchanged.
type UpdateTaskInput struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	Priority       *string `json:"priority,omitempty"`
	Status         *string `json:"status,omitempty"`
	CompletionNote *string `json:"completion_note,omitempty"`
}

// MessageList bundles messages with the unread count.
type MessageList struct {
	Messages    []Message `json:"messages"`
	UnreadCount int       `json:"unread_count"`
}

// Messages lists the current user's tutoring messages.
func (c *Client) Messages(ctx context.Context) (*MessageList, error) {
	var out MessageList
	if err := c.get(ctx, "/tutoring/messages", &out); err != nil {
		return nil, fmt.Errorf("messages: %w", err)
	}
	return &out, nil
}

// Conversation lists the message exchange with one user.
func (c *Client) Conversation(ctx context.Context, userID int) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.get(ctx, fmt.Sprintf("/tutoring/messages/conversation/%d", userID), &out); err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	return out.Messages, nil
}

// SendMessage sends a tutoring message.
func (c *Client) SendMessage(ctx context.Context, in SendMessageInput) (*Message, error) {
	var out struct {
		Message string   `json:"message"`
		Sent    *Message `json:"sent_message"`
	}
	if err := c.post(ctx, "/tutoring/messages/send", in, &out); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return out.Sent, nil
}

// MarkMessageRead marks one message as read.
func (c *Client) MarkMessageRead(ctx context.Context, messageID int) error {
	if err := c.put(ctx, fmt.Sprintf("/tutoring/messages/%d/read", messageID), nil, nil); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Tasks lists tutoring tasks: assigned to the current student, or
// assigned by the current teacher.
func (c *Client) Tasks(ctx context.Context) ([]TutorTask, error) {
	var out struct {
		Tasks []TutorTask `json:"tasks"`
	}
	if err := c.get(ctx, "/tutoring/tasks", &out); err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}
	return out.Tasks, nil
}

// CreateTask assigns a new task to a student (teacher only).
func (c *Client) CreateTask(ctx context.Context, in CreateTaskInput) (*TutorTask, error) {
	var out struct {
		Task *TutorTask `json:"task"`
	}
	if err := c.post(ctx, "/tutoring/tasks/create", in, &out); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return out.Task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, taskID int, in UpdateTaskInput) (*TutorTask, error) {
	var out struct {
		Task *TutorTask `json:"task"`
	}
	if err := c.put(ctx, fmt.Sprintf("/tutoring/tasks/%d", taskID), in, &out); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return out.Task, nil
}

// DeleteTask removes a task (teacher only).
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	if err := c.del(ctx, fmt.Sprintf("/tutoring/tasks/%d", taskID)); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
