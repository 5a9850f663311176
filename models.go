package quizmentor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a single multiple-choice question as exchanged with the
// provider, the client and the store. Correct must name one of the keys in
// Options.
type Question struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Correct  string            `json:"correct"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question has no options")
	}
	if q.Correct == "" {
		return fmt.Errorf("question has no correct option key")
	}
	if _, ok := q.Options[q.Correct]; !ok {
		return fmt.Errorf("correct option %q is not one of the options", q.Correct)
	}
	return nil
}

// AnswerMap maps a question index, rendered as a string key, to the option
// key the user picked for that question.
type AnswerMap map[string]string

// User is an authenticated identity, created on first sign-in and refreshed
// (name, image) on every subsequent sign-in. Never deleted.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleID  string    `gorm:"uniqueIndex;not null;column:google_id" json:"googleId"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Email     string    `gorm:"not null;column:email" json:"email"`
	Image     string    `gorm:"column:image" json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// QuizAttempt is one completed (or timer-expired) quiz session. Immutable
// after insert. Questions and UserAnswers are validated at the API boundary
// and stored as opaque JSON blobs.
type QuizAttempt struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string         `gorm:"index;not null;column:user_id" json:"userId"`
	Topic       string         `gorm:"not null;column:topic" json:"topic"`
	Questions   datatypes.JSON `gorm:"column:questions" json:"questions"`
	UserAnswers datatypes.JSON `gorm:"column:user_answers" json:"userAnswers"`
	Score       int            `gorm:"not null;column:score" json:"score"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempt"
}

// DecodedQuestions unpacks the stored question list.
func (a *QuizAttempt) DecodedQuestions() ([]Question, error) {
	var questions []Question
	if err := json.Unmarshal(a.Questions, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode stored questions: %w", err)
	}
	return questions, nil
}

// DecodedAnswers unpacks the stored answer map.
func (a *QuizAttempt) DecodedAnswers() (AnswerMap, error) {
	var answers AnswerMap
	if err := json.Unmarshal(a.UserAnswers, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode stored answers: %w", err)
	}
	return answers, nil
}
