package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// QuestionFilter narrows a question listing.
type QuestionFilter struct {
	Difficulty string
	Limit      int
	Page       int
}

// Subjects lists all active subject areas.
func (c *Client) Subjects(ctx context.Context) ([]Subject, error) {
	var out struct {
		Subjects []Subject `json:"subjects"`
	}
	if err := c.get(ctx, "/subjects/", &out); err != nil {
		return nil, fmt.Errorf("subjects: %w", err)
	}
	return out.Subjects, nil
}

// SubjectDetail is a subject with its active topics inlined, as
// returned by the subject detail endpoint.
type SubjectDetail struct {
	Subject
	Topics []Topic `json:"topics"`
}

// SubjectByID fetches one subject with its topics included.
func (c *Client) SubjectByID(ctx context.Context, id int) (*SubjectDetail, error) {
	var out SubjectDetail
	if err := c.get(ctx, fmt.Sprintf("/subjects/%d", id), &out); err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	return &out, nil
}

// Topics lists the topics of a subject.
func (c *Client) Topics(ctx context.Context, subjectID int) ([]Topic, error) {
	var out struct {
		Topics []Topic `json:"topics"`
	}
	if err := c.get(ctx, fmt.Sprintf("/subjects/%d/topics", subjectID), &out); err != nil {
		return nil, fmt.Errorf("topics: %w", err)
	}
	return out.Topics, nil
}

// Questions lists practice questions of a topic.
func (c *Client) Questions(ctx context.Context, topicID int, filter QuestionFilter) ([]Question, error) {
	q := url.Values{}
	if filter.Difficulty != "" {
		q.Set("difficulty", filter.Difficulty)
	}
	if filter.Limit > 0 {
		q.Set("per_page", strconv.Itoa(filter.Limit))
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}

	path := fmt.Sprintf("/subjects/topics/%d/questions", topicID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out struct {
		Questions []Question `json:"questions"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("questions: %w", err)
	}
	return out.Questions, nil
}
