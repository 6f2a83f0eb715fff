package api

import (
	"context"
	"fmt"
)

// ProgressSummary is the server's view of a user's progress across
// subjects. The client recomputes aggregates locally; the server-side
// values are informational.
type ProgressSummary struct {
	Progress      []ProgressRecord `json:"progress"`
	TotalSubjects int              `json:"total_subjects"`
	TotalPoints   int              `json:"total_points"`
	AverageLevel  float64          `json:"average_level"`
}

// NotificationList bundles notifications with the unread count.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// MyProgress fetches the progress records of the current user.
func (c *Client) MyProgress(ctx context.Context) (*ProgressSummary, error) {
	var out ProgressSummary
	if err := c.get(ctx, "/progress/my-progress", &out); err != nil {
		return nil, fmt.Errorf("my progress: %w", err)
	}
	return &out, nil
}

// SubjectProgress fetches the progress record for one subject.
func (c *Client) SubjectProgress(ctx context.Context, subjectID int) (*ProgressRecord, error) {
	var out struct {
		Progress *ProgressRecord `json:"progress"`
	}
	if err := c.get(ctx, fmt.Sprintf("/progress/subject/%d", subjectID), &out); err != nil {
		return nil, fmt.Errorf("subject progress: %w", err)
	}
	return out.Progress, nil
}

// AddPoints awards points for a subject and returns the updated record.
func (c *Client) AddPoints(ctx context.Context, subjectID, points int) (*ProgressRecord, error) {
	body := map[string]int{
		"subject_id": subjectID,
		"points":     points,
	}
	var out struct {
		Progress *ProgressRecord `json:"progress"`
	}
	if err := c.post(ctx, "/progress/add-points", body, &out); err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}
	if out.Progress == nil {
		return nil, fmt.Errorf("add points: response missing progress record")
	}
	return out.Progress, nil
}

// Notifications fetches the current user's notifications.
func (c *Client) Notifications(ctx context.Context) (*NotificationList, error) {
	var out NotificationList
	if err := c.get(ctx, "/progress/notifications", &out); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return &out, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	if err := c.put(ctx, fmt.Sprintf("/progress/notifications/%d/read", id), nil, nil); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
