package quizmentor

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "test.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	return store
}

func TestFindOrCreateUser_CreatesThenRefreshes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	created, err := store.FindOrCreateUser(ctx, "google-1", "Ada", "ada@example.com", "https://img/1.png")
	if err != nil {
		t.Fatalf("FindOrCreateUser: %v", err)
	}
	if created.GoogleID != "google-1" || created.Name != "Ada" {
		t.Fatalf("unexpected user: %+v", created)
	}

	// Second auth event with a changed profile: same record, refreshed
	// name and image, email kept.
	refreshed, err := store.FindOrCreateUser(ctx, "google-1", "Ada L.", "other@example.com", "https://img/2.png")
	if err != nil {
		t.Fatalf("FindOrCreateUser (refresh): %v", err)
	}
	if refreshed.ID != created.ID {
		t.Fatalf("refresh must not create a second user: %s vs %s", refreshed.ID, created.ID)
	}
	if refreshed.Name != "Ada L." || refreshed.Image != "https://img/2.png" {
		t.Fatalf("expected refreshed name/image, got %+v", refreshed)
	}

	stored, err := store.FindUser(ctx, "google-1")
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if stored.Email != "ada@example.com" {
		t.Fatalf("email must not be refreshed, got %q", stored.Email)
	}
}

func TestFindUser_NotFound(t *testing.T) {
	store := testStore(t)

	if _, err := store.FindUser(context.Background(), "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateQuizAttempt_RoundTrips(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	questions := sampleQuestions()
	answers := AnswerMap{"0": "b", "1": "a"}

	attempt, err := store.CreateQuizAttempt(ctx, "google-1", "Algebra", questions, answers, 2)
	if err != nil {
		t.Fatalf("CreateQuizAttempt: %v", err)
	}
	if attempt.ID == 0 {
		t.Fatalf("expected a generated identifier")
	}
	if attempt.CreatedAt.IsZero() {
		t.Fatalf("expected a creation timestamp")
	}

	gotQuestions, err := attempt.DecodedQuestions()
	if err != nil {
		t.Fatalf("DecodedQuestions: %v", err)
	}
	if !reflect.DeepEqual(gotQuestions, questions) {
		t.Fatalf("stored questions mismatch:\ngot  %+v\nwant %+v", gotQuestions, questions)
	}

	gotAnswers, err := attempt.DecodedAnswers()
	if err != nil {
		t.Fatalf("DecodedAnswers: %v", err)
	}
	if !reflect.DeepEqual(gotAnswers, answers) {
		t.Fatalf("stored answers mismatch:\ngot  %+v\nwant %+v", gotAnswers, answers)
	}
}

func TestListQuizAttempts_NewestFirstAndScoped(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i, topic := range []string{"Algebra", "Geometry", "Calculus"} {
		if _, err := store.CreateQuizAttempt(ctx, "google-1", topic, sampleQuestions(), AnswerMap{"0": "b"}, i); err != nil {
			t.Fatalf("CreateQuizAttempt(%s): %v", topic, err)
		}
	}
	if _, err := store.CreateQuizAttempt(ctx, "google-2", "History", sampleQuestions(), AnswerMap{}, 0); err != nil {
		t.Fatalf("CreateQuizAttempt(other user): %v", err)
	}

	attempts, err := store.ListQuizAttempts(ctx, "google-1")
	if err != nil {
		t.Fatalf("ListQuizAttempts: %v", err)
	}
	if len(attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(attempts))
	}
	for _, attempt := range attempts {
		if attempt.UserID != "google-1" {
			t.Fatalf("attempt for wrong owner: %+v", attempt)
		}
	}
	if attempts[0].Topic != "Calculus" || attempts[2].Topic != "Algebra" {
		t.Fatalf("expected newest first, got %s .. %s", attempts[0].Topic, attempts[2].Topic)
	}
}

func TestListQuizAttempts_EmptyForUnknownUser(t *testing.T) {
	store := testStore(t)

	attempts, err := store.ListQuizAttempts(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListQuizAttempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("expected no attempts, got %d", len(attempts))
	}
}
