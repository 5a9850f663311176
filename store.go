package quizmentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store is the persistence gateway. It wraps the process-wide gorm handle:
// open it once at startup and share it across requests.
type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// OpenStore opens the database at path and migrates the schema.
func OpenStore(path string, log *zap.SugaredLogger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &QuizAttempt{}); err != nil {
		return nil, fmt.Errorf("auto migration failed: %w", err)
	}
	return &Store{db: db, log: log.With("component", "store")}, nil
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindOrCreateUser looks a user up by google id, creating the record on
// first authentication and refreshing name and image on every later one.
// Safe to call on every auth event.
func (s *Store) FindOrCreateUser(ctx context.Context, googleID, name, email, image string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	switch {
	case err == nil:
		user.Name = name
		user.Image = image
		if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
			"name":  name,
			"image": image,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to refresh user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{GoogleID: googleID, Name: name, Email: email, Image: image}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		s.log.Infow("created user", "google_id", googleID)
		return &user, nil
	default:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
}

// FindUser returns the user with the given google id, or ErrUserNotFound.
func (s *Store) FindUser(ctx context.Context, googleID string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// CreateQuizAttempt inserts one attempt and returns the persisted record,
// including its generated identifier and timestamp. No update semantics;
// attempts are immutable.
func (s *Store) CreateQuizAttempt(ctx context.Context, googleID, topic string, questions []Question, answers AnswerMap, score int) (*QuizAttempt, error) {
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	attempt := QuizAttempt{
		UserID:      googleID,
		Topic:       topic,
		Questions:   datatypes.JSON(questionsJSON),
		UserAnswers: datatypes.JSON(answersJSON),
		Score:       score,
	}
	if err := s.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("failed to create quiz attempt: %w", err)
	}
	s.log.Infow("stored quiz attempt", "google_id", googleID, "topic", topic, "score", score)
	return &attempt, nil
}

// ListQuizAttempts returns all attempts owned by the user, newest first.
func (s *Store) ListQuizAttempts(ctx context.Context, googleID string) ([]QuizAttempt, error) {
	var attempts []QuizAttempt
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", googleID).
		Order("created_at DESC, id DESC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	return attempts, nil
}
