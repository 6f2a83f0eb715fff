package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CreateExamInput configures a new practice exam.
type CreateExamInput struct {
	Title          string `json:"title"`
	SubjectID      int    `json:"subject_id"`
	TopicID        int    `json:"topic_id,omitempty"`
	ExamType       string `json:"exam_type,omitempty"`
	TotalQuestions int    `json:"total_questions,omitempty"`
	TimeLimit      int    `json:"time_limit,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
}

// CreatedExam is a freshly created exam together with its question set.
type CreatedExam struct {
	Exam      *Exam      `json:"exam"`
	Questions []Question `json:"questions"`
}

// ExamList is a paginated exam listing.
type ExamList struct {
	Exams []Exam `json:"exams"`
	Total int    `json:"total"`
	Pages int    `json:"pages"`
	Page  int    `json:"current_page"`
}

// ExamListOptions filters and paginates an exam listing.
type ExamListOptions struct {
	Status  string
	Page    int
	PerPage int
}

// SubmittedExam is the grading result of a submitted exam.
type SubmittedExam struct {
	Message string `json:"message"`
	Exam    *Exam  `json:"exam"`
}

// CreateExam starts a new exam and returns its questions.
func (c *Client) CreateExam(ctx context.Context, in CreateExamInput) (*CreatedExam, error) {
	var out CreatedExam
	if err := c.post(ctx, "/exams/create", in, &out); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return &out, nil
}

// SubmitExam submits answers (question ID -> chosen option) and
// returns the graded exam.
func (c *Client) SubmitExam(ctx context.Context, examID int, answers map[int]string) (*SubmittedExam, error) {
	// Wire format keys question IDs as strings.
	wire := make(map[string]string, len(answers))
	for id, ans := range answers {
		wire[strconv.Itoa(id)] = ans
	}

	var out SubmittedExam
	if err := c.post(ctx, fmt.Sprintf("/exams/%d/submit", examID), map[string]any{"answers": wire}, &out); err != nil {
		return nil, fmt.Errorf("submit exam: %w", err)
	}
	return &out, nil
}

// MyExams lists the current user's exams.
func (c *Client) MyExams(ctx context.Context, opts ExamListOptions) (*ExamList, error) {
	q := url.Values{}
	if opts.Status != "" {
		q.Set("status", opts.Status)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/exams/my-exams"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out ExamList
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("my exams: %w", err)
	}
	return &out, nil
}

// ExamByID fetches one exam, including answers once completed.
func (c *Client) ExamByID(ctx context.Context, examID int) (*Exam, error) {
	var out struct {
		Exam *Exam `json:"exam"`
	}
	if err := c.get(ctx, fmt.Sprintf("/exams/%d", examID), &out); err != nil {
		return nil, fmt.Errorf("exam: %w", err)
	}
	return out.Exam, nil
}

// PendingReview lists completed exams awaiting teacher review.
func (c *Client) PendingReview(ctx context.Context) ([]Exam, error) {
	var out struct {
		Exams []Exam `json:"exams"`
	}
	if err := c.get(ctx, "/exams/pending-review", &out); err != nil {
		return nil, fmt.Errorf("pending review: %w", err)
	}
	return out.Exams, nil
}
