package api

import (
	"context"
	"fmt"
)

// ProfileUpdate carries the editable profile fields. Nil pointers are
// omitted from the request and left unchanged server-side.
type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Institution *string `json:"institution,omitempty"`
	Grade       *string `json:"grade,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.get(ctx, "/users/profile", &out); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return out.User, nil
}

// UpdateProfile applies a partial profile update and returns the
// refreshed user record.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfileUpdate) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.put(ctx, "/users/profile", patch, &out); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return out.User, nil
}

// Students lists all students (teacher only).
func (c *Client) Students(ctx context.Context) ([]User, error) {
	var out struct {
		Students []User `json:"students"`
	}
	if err := c.get(ctx, "/users/students", &out); err != nil {
		return nil, fmt.Errorf("students: %w", err)
	}
	return out.Students, nil
}

// AssignTutor registers the current teacher as a student's tutor.
func (c *Client) AssignTutor(ctx context.Context, studentID int) error {
	body := map[string]int{"student_id": studentID}
	if err := c.post(ctx, "/users/assign-tutor", body, nil); err != nil {
		return fmt.Errorf("assign tutor: %w", err)
	}
	return nil
}

// RemoveTutor removes the current teacher's tutorship of a student.
func (c *Client) RemoveTutor(ctx context.Context, studentID int) error {
	body := map[string]int{"student_id": studentID}
	if err := c.post(ctx, "/users/remove-tutor", body, nil); err != nil {
		return fmt.Errorf("remove tutor: %w", err)
	}
	return nil
}

// MyTutees lists the students under the current teacher's tutorship.
func (c *Client) MyTutees(ctx context.Context) ([]User, error) {
	var out struct {
		Students []User `json:"students"`
	}
	if err := c.get(ctx, "/users/my-tutees", &out); err != nil {
		return nil, fmt.Errorf("my tutees: %w", err)
	}
	return out.Students, nil
}

// MyTutor fetches the current student's assigned tutor, or nil when
// none is assigned.
func (c *Client) MyTutor(ctx context.Context) (*UserRef, error) {
	var out struct {
		Tutor *UserRef `json:"tutor"`
	}
	if err := c.get(ctx, "/users/my-tutor", &out); err != nil {
		return nil, fmt.Errorf("my tutor: %w", err)
	}
	return out.Tutor, nil
}
