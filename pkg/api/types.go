package api

import "time"

// Role names used by the platform.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Timestamps arrive as ISO 8601 strings, with or without a timezone
// suffix, and are kept as strings in the DTOs. ParseTime converts one
// when a typed value is needed.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses an API timestamp string. The zero time is returned
// for empty or unparseable values.
func ParseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Role describes a user role.
type Role struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserRef is a compact reference to another user, as embedded in
// messages, tasks, and tutor assignments.
type UserRef struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// User is the platform identity record.
type User struct {
	ID          int      `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	FullName    string   `json:"full_name"`
	Phone       string   `json:"phone,omitempty"`
	Institution string   `json:"institution,omitempty"`
	Grade       string   `json:"grade,omitempty"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	IsActive    bool     `json:"is_active"`
	Role        *Role    `json:"role"`
	TutorID     *int     `json:"tutor_id,omitempty"`
	Tutor       *UserRef `json:"tutor,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	LastLogin   string   `json:"last_login,omitempty"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(name string) bool {
	return u != nil && u.Role != nil && u.Role.Name == name
}

// Subject is an exam subject area.
type Subject struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"is_active"`
	TotalTopics int    `json:"total_topics"`
}

// Topic is a study topic within a subject.
type Topic struct {
	ID             int    `json:"id"`
	SubjectID      int    `json:"subject_id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	Order          int    `json:"order"`
	IsActive       bool   `json:"is_active"`
	TotalQuestions int    `json:"total_questions"`
}

// Question is a practice question. Correct answers are only present
// when the server chooses to include them (completed exams).
type Question struct {
	ID            int               `json:"id"`
	TopicID       int               `json:"topic_id"`
	QuestionText  string            `json:"question_text"`
	QuestionType  string            `json:"question_type"`
	Options       map[string]string `json:"options"`
	Difficulty    string            `json:"difficulty,omitempty"`
	ImageURL      string            `json:"image_url,omitempty"`
	Points        int               `json:"points"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
}

// Exam is a practice exam or simulation taken by a student.
type Exam struct {
	ID             int          `json:"id"`
	StudentID      int          `json:"student_id"`
	ExamType       string       `json:"exam_type"`
	SubjectID      int          `json:"subject_id,omitempty"`
	Title          string       `json:"title"`
	TotalQuestions int          `json:"total_questions"`
	TimeLimit      int          `json:"time_limit,omitempty"`
	StartTime      string       `json:"start_time,omitempty"`
	EndTime        string       `json:"end_time,omitempty"`
	Status         string       `json:"status"`
	Score          float64      `json:"score,omitempty"`
	Percentage     float64      `json:"percentage,omitempty"`
	CreatedAt      string       `json:"created_at,omitempty"`
	Answers        []ExamAnswer `json:"answers,omitempty"`
}

// ExamAnswer is a single answered question within an exam.
type ExamAnswer struct {
	ID           int       `json:"id"`
	ExamID       int       `json:"exam_id"`
	QuestionID   int       `json:"question_id"`
	UserAnswer   string    `json:"user_answer,omitempty"`
	IsCorrect    bool      `json:"is_correct"`
	PointsEarned int       `json:"points_earned"`
	TimeSpent    int       `json:"time_spent,omitempty"`
	Question     *Question `json:"question,omitempty"`
}

// ProgressRecord holds the per-subject gamification counters.
type ProgressRecord struct {
	ID           int      `json:"id"`
	UserID       int      `json:"user_id"`
	Subject      *Subject `json:"subject"`
	TotalPoints  int      `json:"total_points"`
	Level        int      `json:"level"`
	StreakDays   int      `json:"streak_days"`
	LastActivity string   `json:"last_activity,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
}

// SubjectID returns the identity of the record's subject, or 0 when
// the subject reference is missing.
func (p *ProgressRecord) SubjectID() int {
	if p.Subject == nil {
		return 0
	}
	return p.Subject.ID
}

// Notification is a user notification.
type Notification struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	IsRead    bool   `json:"is_read"`
	Link      string `json:"link,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Message is a tutoring message between a student and a teacher.
type Message struct {
	ID        int      `json:"id"`
	Sender    *UserRef `json:"sender"`
	Receiver  *UserRef `json:"receiver"`
	Subject   string   `json:"subject,omitempty"`
	Message   string   `json:"message"`
	IsRead    bool     `json:"is_read"`
	ReadAt    string   `json:"read_at,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// TutorTask is a task a tutor assigned to a student.
type TutorTask struct {
	ID             int      `json:"id"`
	Tutor          *UserRef `json:"tutor"`
	Student        *UserRef `json:"student"`
	Subject        *Subject `json:"subject,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	Priority       string   `json:"priority"`
	Status         string   `json:"status"`
	CompletionNote string   `json:"completion_note,omitempty"`
	CompletedAt    string   `json:"completed_at,omitempty"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

// Grade is a teacher's grading of an exam.
type Grade struct {
	ID           int     `json:"id"`
	ExamID       int     `json:"exam_id"`
	TeacherID    int     `json:"teacher_id"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback,omitempty"`
	Strengths    string  `json:"strengths,omitempty"`
	Improvements string  `json:"improvements,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}
