package quizmentor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// QuizDuration is the wall-clock limit for a whole quiz session; the timer
// covers the session, not individual questions.
const QuizDuration = 120 * time.Second

// MaxTopicWords caps quiz topics for prompt quality.
const MaxTopicWords = 3

var (
	ErrTopicRequired     = errors.New("topic is required")
	ErrTopicTooLong      = fmt.Errorf("topic must be at most %d words", MaxTopicWords)
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrAlreadySubmitted  = errors.New("quiz already submitted")
	ErrUnansweredLeft    = errors.New("every question needs an answer before submitting")
)

// ValidateTopic trims the topic and rejects empty input.
func ValidateTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicRequired
	}
	return topic, nil
}

// ValidateQuizTopic additionally caps the topic at MaxTopicWords
// whitespace-separated words.
func ValidateQuizTopic(topic string) (string, error) {
	topic, err := ValidateTopic(topic)
	if err != nil {
		return "", err
	}
	if len(strings.Fields(topic)) > MaxTopicWords {
		return "", ErrTopicTooLong
	}
	return topic, nil
}

// SessionState is a phase of the quiz lifecycle.
type SessionState int

const (
	StateAwaitingTopic SessionState = iota
	StateGenerating
	StateReady
	StateInProgress
	StateSubmitted
	// StateFailed is the terminal state for generation failures and empty
	// question sets. No auto-retry.
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateAwaitingTopic:
		return "awaiting_topic"
	case StateGenerating:
		return "generating"
	case StateReady:
		return "ready"
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// QuizSession drives one quiz lifecycle:
// AwaitingTopic → Generating → Ready → InProgress → Submitted.
// It is independent of any UI; callers feed it events and timestamps.
// Not safe for concurrent use; one session belongs to one user interaction.
type QuizSession struct {
	state     SessionState
	topic     string
	questions []Question
	answers   AnswerMap
	current   int
	deadline  time.Time
	submitted bool
	score     int
	failure   error
}

// NewQuizSession returns a session waiting for a topic.
func NewQuizSession() *QuizSession {
	return &QuizSession{
		state:   StateAwaitingTopic,
		answers: AnswerMap{},
	}
}

func (s *QuizSession) State() SessionState { return s.state }
func (s *QuizSession) Topic() string       { return s.topic }
func (s *QuizSession) Current() int        { return s.current }

// Questions returns the generated question list.
func (s *QuizSession) Questions() []Question { return s.questions }

// Answers returns a copy of the recorded answer map.
func (s *QuizSession) Answers() AnswerMap {
	out := make(AnswerMap, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Failure returns the terminal generation error, if any.
func (s *QuizSession) Failure() error { return s.failure }

// SubmitTopic records the topic and moves to Generating. One-shot: a second
// call is rejected so an outstanding generation request is never duplicated.
func (s *QuizSession) SubmitTopic(topic string) error {
	if s.state != StateAwaitingTopic {
		return fmt.Errorf("%w: topic already submitted (state %s)", ErrInvalidTransition, s.state)
	}
	topic, err := ValidateQuizTopic(topic)
	if err != nil {
		return err
	}
	s.topic = topic
	s.state = StateGenerating
	return nil
}

// QuestionsReady delivers the parsed questions. A non-empty list moves the
// session to Ready; an empty list is a terminal failure ("no questions
// found") rather than a retry.
func (s *QuizSession) QuestionsReady(questions []Question) error {
	if s.state != StateGenerating {
		return fmt.Errorf("%w: not generating (state %s)", ErrInvalidTransition, s.state)
	}
	if len(questions) == 0 {
		s.state = StateFailed
		s.failure = fmt.Errorf("%w: no questions found", ErrMalformedQuizContent)
		return nil
	}
	s.questions = questions
	s.state = StateReady
	return nil
}

// GenerationFailed marks the session terminally failed.
func (s *QuizSession) GenerationFailed(err error) {
	if s.state != StateGenerating {
		return
	}
	s.state = StateFailed
	s.failure = err
}

// Begin starts the quiz and its fixed whole-session timer.
func (s *QuizSession) Begin(now time.Time) error {
	if s.state != StateReady {
		return fmt.Errorf("%w: not ready (state %s)", ErrInvalidTransition, s.state)
	}
	s.deadline = now.Add(QuizDuration)
	s.state = StateInProgress
	return nil
}

// Deadline returns the submission deadline set by Begin.
func (s *QuizSession) Deadline() time.Time { return s.deadline }

// TimeLeft reports the remaining quiz time, never negative.
func (s *QuizSession) TimeLeft(now time.Time) time.Duration {
	if s.state != StateInProgress {
		return 0
	}
	left := s.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// SelectAnswer records or changes the answer for a question. Refused once
// results are shown.
func (s *QuizSession) SelectAnswer(index int, option string) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}
	if s.state != StateInProgress {
		return fmt.Errorf("%w: quiz not in progress (state %s)", ErrInvalidTransition, s.state)
	}
	if index < 0 || index >= len(s.questions) {
		return fmt.Errorf("question index %d out of range", index)
	}
	if _, ok := s.questions[index].Options[option]; !ok {
		return fmt.Errorf("option %q is not offered by question %d", option, index)
	}
	s.answers[strconv.Itoa(index)] = option
	return nil
}

// Next moves to the next question, Prev to the previous one. Navigation is
// free in both directions until submission.
func (s *QuizSession) Next() {
	if s.state == StateInProgress && s.current < len(s.questions)-1 {
		s.current++
	}
}

func (s *QuizSession) Prev() {
	if s.state == StateInProgress && s.current > 0 {
		s.current--
	}
}

// AllAnswered reports whether every question has a recorded answer.
func (s *QuizSession) AllAnswered() bool {
	if len(s.questions) == 0 {
		return false
	}
	for i := range s.questions {
		if _, ok := s.answers[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}

// Submit is the manual submission path, allowed only once every question has
// an answer (unless the deadline has already passed, which degrades to the
// force-submit path). The first return value is true when this call performed
// the scoring; a session that was already submitted reports false with no
// error, so a manual click racing the timer scores at most once.
func (s *QuizSession) Submit(now time.Time) (bool, error) {
	if s.submitted {
		return false, nil
	}
	if s.state != StateInProgress {
		return false, fmt.Errorf("%w: quiz not in progress (state %s)", ErrInvalidTransition, s.state)
	}
	if !s.AllAnswered() && now.Before(s.deadline) {
		return false, ErrUnansweredLeft
	}
	s.finalize()
	return true, nil
}

// Tick checks the deadline and force-submits whatever answers are recorded
// once the timer reaches zero. Returns true when this tick performed the
// scoring.
func (s *QuizSession) Tick(now time.Time) bool {
	if s.submitted || s.state != StateInProgress {
		return false
	}
	if now.Before(s.deadline) {
		return false
	}
	s.finalize()
	return true
}

func (s *QuizSession) finalize() {
	s.score = Score(s.questions, s.answers)
	s.submitted = true
	s.state = StateSubmitted
}

// Score returns the computed score; ok is false before submission.
func (s *QuizSession) Score() (score int, ok bool) {
	return s.score, s.submitted
}
