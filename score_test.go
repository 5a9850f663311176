package quizmentor

import "testing"

func TestScore_AllCorrect(t *testing.T) {
	questions := sampleQuestions()
	answers := AnswerMap{"0": "b", "1": "a", "2": "c"}

	if got := Score(questions, answers); got != 3 {
		t.Fatalf("expected score 3, got %d", got)
	}
}

func TestScore_CountsOnlyMatches(t *testing.T) {
	questions := sampleQuestions()
	answers := AnswerMap{"0": "b", "1": "d", "2": "a"}

	if got := Score(questions, answers); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
}

func TestScore_UnansweredCountAsIncorrect(t *testing.T) {
	questions := sampleQuestions()
	answers := AnswerMap{"1": "a"}

	if got := Score(questions, answers); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
	if got := Score(questions, AnswerMap{}); got != 0 {
		t.Fatalf("expected score 0 for no answers, got %d", got)
	}
}

func TestScore_MissingCorrectKeyNeverMatchesMissingAnswer(t *testing.T) {
	// A question with no correct key must not count an absent answer as a
	// match on the empty string.
	questions := []Question{{Question: "q", Options: map[string]string{"a": "A"}}}

	if got := Score(questions, AnswerMap{}); got != 0 {
		t.Fatalf("expected score 0, got %d", got)
	}
}

func TestScore_IgnoresStrayAnswerKeys(t *testing.T) {
	questions := sampleQuestions()
	answers := AnswerMap{"0": "b", "9": "a", "x": "a"}

	if got := Score(questions, answers); got != 1 {
		t.Fatalf("expected score 1, got %d", got)
	}
}
