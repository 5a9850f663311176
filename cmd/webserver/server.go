package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"quizmentor"
)

const (
	sessionName    = "quizmentor-session"
	sessionUserKey = "google_id"
	ctxUserKey     = "googleID"
)

// generator is the slice of the text-generation client the handlers use.
type generator interface {
	GenerateQuiz(ctx context.Context, topic string, count int) (string, error)
	GenerateStudyMaterial(ctx context.Context, topic string) (string, error)
}

// Server holds the shared handles for all request handlers.
type Server struct {
	store      *quizmentor.Store
	generator  generator
	sessions   *sessions.CookieStore
	genTimeout time.Duration
	log        *zap.SugaredLogger
}

func NewServer(store *quizmentor.Store, gen generator, sessionStore *sessions.CookieStore, genTimeout time.Duration, log *zap.SugaredLogger) *Server {
	return &Server{
		store:      store,
		generator:  gen,
		sessions:   sessionStore,
		genTimeout: genTimeout,
		log:        log.With("component", "webserver"),
	}
}

// Router wires up all routes.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", s.handleHealthCheck)
	router.POST("/auth/session", s.handleAuthSession)
	router.POST("/auth/logout", s.handleLogout)

	protected := router.Group("/")
	protected.Use(s.requireUser())
	protected.GET("/auth/me", s.handleMe)

	api := protected.Group("/api/user")
	api.POST("/learning", s.handleLearning)
	api.POST("/quiz", s.handleQuiz)
	api.POST("/quiz/submit", s.handleQuizSubmit)
	api.GET("/quizs", s.handleQuizHistory)

	return router
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: message, Code: code})
}

// requireUser resolves the authenticated identity from the session cookie.
// Absence fails the request with 401 before any other work occurs.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		googleID := s.sessionUser(c.Request)
		if googleID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}
		c.Set(ctxUserKey, googleID)
		c.Next()
	}
}

func (s *Server) sessionUser(r *http.Request) string {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return ""
	}
	googleID, _ := session.Values[sessionUserKey].(string)
	return googleID
}

func (s *Server) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAuthSession is the sign-in callback: the external OAuth subsystem
// has already verified the identity, this endpoint upserts the user and
// binds the session cookie. Runs on every authentication event.
func (s *Server) handleAuthSession(c *gin.Context) {
	var req struct {
		GoogleID string `json:"googleId"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Image    string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.GoogleID == "" {
		respondError(c, http.StatusBadRequest, "", "googleId is required")
		return
	}

	user, err := s.store.FindOrCreateUser(c.Request.Context(), req.GoogleID, req.Name, req.Email, req.Image)
	if err != nil {
		s.log.Errorw("failed to upsert user", "error", err)
		respondError(c, http.StatusInternalServerError, "store_error", "Internal server error")
		return
	}

	session, _ := s.sessions.Get(c.Request, sessionName)
	session.Values[sessionUserKey] = req.GoogleID
	if err := session.Save(c.Request, c.Writer); err != nil {
		s.log.Errorw("failed to save session", "error", err)
		respondError(c, http.StatusInternalServerError, "", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	session, _ := s.sessions.Get(c.Request, sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request, c.Writer); err != nil {
		respondError(c, http.StatusInternalServerError, "", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.store.FindUser(c.Request.Context(), c.GetString(ctxUserKey))
	if errors.Is(err, quizmentor.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "", "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "store_error", "Internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// handleLearning returns a verbose study summary for the topic.
func (s *Server) handleLearning(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "", "Topic is required")
		return
	}
	topic, err := quizmentor.ValidateTopic(req.Topic)
	if err != nil {
		respondError(c, http.StatusBadRequest, "", "Topic is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.genTimeout)
	defer cancel()

	result, err := s.generator.GenerateStudyMaterial(ctx, topic)
	if err != nil {
		s.log.Errorw("study material generation failed", "topic", topic, "error", err)
		respondError(c, http.StatusInternalServerError, "generation_failed", "No result from chat")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// handleQuiz generates, parses and returns a fresh question set.
func (s *Server) handleQuiz(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
		Count int    `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "", "Topic is required")
		return
	}
	topic, err := quizmentor.ValidateQuizTopic(req.Topic)
	if err != nil {
		respondError(c, http.StatusBadRequest, "", err.Error())
		return
	}
	count := req.Count
	if count == 0 {
		count = quizmentor.DefaultQuestionCount
	}
	if !quizmentor.ValidQuestionCount(count) {
		respondError(c, http.StatusBadRequest, "", "count must be one of 10, 15 or 20")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.genTimeout)
	defer cancel()

	raw, err := s.generator.GenerateQuiz(ctx, topic, count)
	if err != nil {
		s.log.Errorw("quiz generation failed", "topic", topic, "error", err)
		respondError(c, http.StatusInternalServerError, "generation_failed", "No result from chat")
		return
	}

	questions, err := quizmentor.ParseQuestions(raw)
	if err != nil {
		s.log.Errorw("quiz content did not parse", "topic", topic, "error", err)
		respondError(c, http.StatusInternalServerError, "malformed_quiz_content", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// handleQuizSubmit validates and persists a completed attempt.
func (s *Server) handleQuizSubmit(c *gin.Context) {
	var req struct {
		Topic       string                `json:"topic"`
		Questions   []quizmentor.Question `json:"questions"`
		UserAnswers quizmentor.AnswerMap  `json:"userAnswers"`
		Score       *int                  `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "", "Missing required fields")
		return
	}
	topic, err := quizmentor.ValidateTopic(req.Topic)
	if err != nil || len(req.Questions) == 0 || len(req.UserAnswers) == 0 || req.Score == nil {
		respondError(c, http.StatusBadRequest, "", "Missing required fields")
		return
	}
	for _, q := range req.Questions {
		if err := q.Validate(); err != nil {
			respondError(c, http.StatusBadRequest, "", "Invalid question: "+err.Error())
			return
		}
	}
	for key := range req.UserAnswers {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(req.Questions) {
			respondError(c, http.StatusBadRequest, "", "Invalid answer key: "+key)
			return
		}
	}
	if *req.Score < 0 || *req.Score > len(req.Questions) {
		respondError(c, http.StatusBadRequest, "", "Invalid score")
		return
	}

	attempt, err := s.store.CreateQuizAttempt(
		c.Request.Context(),
		c.GetString(ctxUserKey),
		topic,
		req.Questions,
		req.UserAnswers,
		*req.Score,
	)
	if err != nil {
		s.log.Errorw("failed to store quiz attempt", "error", err)
		respondError(c, http.StatusInternalServerError, "store_error", "Internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "quizAttempt": attempt})
}

// handleQuizHistory lists the caller's past attempts, newest first. A user
// with zero attempts gets a 404 rather than an empty list.
func (s *Server) handleQuizHistory(c *gin.Context) {
	user, err := s.store.FindUser(c.Request.Context(), c.GetString(ctxUserKey))
	if errors.Is(err, quizmentor.ErrUserNotFound) {
		respondError(c, http.StatusNotFound, "", "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "store_error", "Internal Server Error")
		return
	}

	quizzes, err := s.store.ListQuizAttempts(c.Request.Context(), user.GoogleID)
	if err != nil {
		s.log.Errorw("failed to list quiz attempts", "error", err)
		respondError(c, http.StatusInternalServerError, "store_error", "Internal Server Error")
		return
	}
	if len(quizzes) == 0 {
		respondError(c, http.StatusNotFound, "", "No quiz data found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}
