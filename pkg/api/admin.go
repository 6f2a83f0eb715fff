package api

import (
	"context"
	"fmt"
)

// GradeExamInput carries a teacher's grading of an exam.
type GradeExamInput struct {
	ExamID       int     `json:"exam_id"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback,omitempty"`
	Strengths    string  `json:"strengths,omitempty"`
	Improvements string  `json:"improvements,omitempty"`
}

// TeacherStats summarizes platform activity for a teacher dashboard.
type TeacherStats struct {
	TotalStudents  int     `json:"total_students"`
	TotalExams     int     `json:"total_exams"`
	PendingReviews int     `json:"pending_reviews"`
	AverageScore   float64 `json:"average_score"`
}

// GradeExam records a grade with feedback for a completed exam.
func (c *Client) GradeExam(ctx context.Context, in GradeExamInput) (*Grade, error) {
	var out struct {
		Grade *Grade `json:"grade"`
	}
	if err := c.post(ctx, "/admin/grade-exam", in, &out); err != nil {
		return nil, fmt.Errorf("grade exam: %w", err)
	}
	return out.Grade, nil
}

// StudentExams lists one student's exams, answers included.
func (c *Client) StudentExams(ctx context.Context, studentID int) ([]Exam, error) {
	var out struct {
		Exams []Exam `json:"exams"`
	}
	if err := c.get(ctx, fmt.Sprintf("/admin/students/%d/exams", studentID), &out); err != nil {
		return nil, fmt.Errorf("student exams: %w", err)
	}
	return out.Exams, nil
}

// Stats fetches aggregate platform statistics (teacher only).
func (c *Client) Stats(ctx context.Context) (*TeacherStats, error) {
	var out TeacherStats
	if err := c.get(ctx, "/admin/stats", &out); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return &out, nil
}
