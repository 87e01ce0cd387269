package models

import "time"

// Poll states, derived from IsActive and ActivatedAt.
const (
	StateDraft    = "draft"
	StateActive   = "active"
	StateInactive = "inactive"
)

// Domain types

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

type Answer struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// TotalVotes sums the vote counters of every answer.
func (q Question) TotalVotes() int {
	total := 0
	for _, a := range q.Answers {
		total += a.Votes
	}
	return total
}

type Poll struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Owner       string     `json:"owner"`
	IsActive    bool       `json:"is_active"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Questions   []Question `json:"questions"`
}

// State reports the lifecycle state of the poll.
func (p Poll) State() string {
	switch {
	case p.IsActive:
		return StateActive
	case p.ActivatedAt != nil:
		return StateInactive
	default:
		return StateDraft
	}
}

// Vote is a single tally mutation. PreviousAnswerID is set when the voter is
// moving an earlier choice within the same question.
type Vote struct {
	QuestionID       int  `json:"question_id"`
	AnswerID         int  `json:"answer_id"`
	PreviousAnswerID *int `json:"previous_answer_id"`
}

// ResultFile describes one archived artifact in a listing.
type ResultFile struct {
	Name      string    `json:"name"`
	PollID    string    `json:"poll_id"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	HumanSize string    `json:"human_size"`
	Age       string    `json:"age"`
}

// Request types

type AnswerInput struct {
	Text string `json:"text"`
}

type QuestionInput struct {
	Text    string        `json:"text"`
	Answers []AnswerInput `json:"answers"`
}

// PollInput is the editable content of a poll. Ids are assigned by position.
type PollInput struct {
	Title     string          `json:"title"`
	Questions []QuestionInput `json:"questions"`
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ChangeUsernameRequest struct {
	NewUsername string `json:"new_username"`
	Password    string `json:"password"`
}

// Response types

type UsernameStatus struct {
	Username string `json:"username"`
	Exists   bool   `json:"exists"`
}

type SessionResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type MeResponse struct {
	Username string `json:"username"`
	VotePath string `json:"vote_path"`
}

type PollListResponse struct {
	Polls []Poll `json:"polls"`
}

type ArchiveResponse struct {
	Filename string `json:"filename"`
}

type ResultListResponse struct {
	Results []ResultFile `json:"results"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
