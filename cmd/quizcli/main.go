package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"quizmentor"
)

func main() {
	var (
		topic     = flag.String("topic", "", "Quiz or study topic (required)")
		count     = flag.Int("questions", quizmentor.DefaultQuestionCount, "Number of questions (10, 15 or 20)")
		learnMode = flag.Bool("learn", false, "Print study material instead of running a quiz")
		dbPath    = flag.String("db", "", "Database path for persisting the attempt (optional)")
		userID    = flag.String("user", "", "Google id to record the attempt under (requires -db)")
		apiKey    = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		model     = flag.String("model", "", "Model name override")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := quizmentor.LoadConfig()

	log, err := quizmentor.NewLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *apiKey == "" {
		*apiKey = cfg.OpenAIAPIKey
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}
	if *model == "" {
		*model = cfg.OpenAIModel
	}

	generator := quizmentor.NewGenerator(*apiKey, *model, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout)
	defer cancel()

	if *learnMode {
		cleanTopic, err := quizmentor.ValidateTopic(*topic)
		if err != nil {
			log.Fatal("Topic is required. Use -topic flag.")
		}
		result, err := generator.GenerateStudyMaterial(ctx, cleanTopic)
		if err != nil {
			log.Fatalw("failed to generate study material", "error", err)
		}
		fmt.Println(result)
		return
	}

	session := quizmentor.NewQuizSession()
	if err := session.SubmitTopic(*topic); err != nil {
		log.Fatalf("Invalid topic: %v", err)
	}
	if !quizmentor.ValidQuestionCount(*count) {
		log.Fatalf("Invalid question count %d: must be one of %v", *count, quizmentor.AllowedQuestionCounts)
	}

	fmt.Printf("🎯 Starting quiz on: %s\n", session.Topic())
	fmt.Printf("📝 Questions: %d, time limit: %s\n", *count, quizmentor.QuizDuration)
	fmt.Println("⏳ Generating questions... (this may take a moment)")
	fmt.Println()

	raw, err := generator.GenerateQuiz(ctx, session.Topic(), *count)
	if err != nil {
		session.GenerationFailed(err)
		log.Fatalw("failed to generate quiz", "error", err)
	}
	questions, err := quizmentor.ParseQuestions(raw)
	if err != nil {
		session.GenerationFailed(err)
		log.Fatalw("provider returned malformed quiz content", "error", err)
	}
	if err := session.QuestionsReady(questions); err != nil {
		log.Fatalw("could not ready the session", "error", err)
	}
	if session.State() == quizmentor.StateFailed {
		log.Fatalw("no questions found for the topic", "error", session.Failure())
	}

	if err := session.Begin(time.Now()); err != nil {
		log.Fatalw("could not start the quiz", "error", err)
	}

	runQuiz(session)

	score, ok := session.Score()
	if !ok {
		return
	}
	showResults(session, score)

	if *dbPath != "" && *userID != "" {
		persistAttempt(log, *dbPath, *userID, session, score)
	}
}

// runQuiz drives the session from the terminal until it is submitted, by
// answer, navigation or timer expiry.
func runQuiz(session *quizmentor.QuizSession) {
	scanner := bufio.NewScanner(os.Stdin)

	for session.State() == quizmentor.StateInProgress {
		if session.Tick(time.Now()) {
			fmt.Println("\n⏰ Time is up! Submitting whatever you answered.")
			return
		}

		questions := session.Questions()
		current := session.Current()
		question := questions[current]
		answers := session.Answers()

		fmt.Printf("Question %d/%d (time left: %s):\n", current+1, len(questions), session.TimeLeft(time.Now()).Round(time.Second))
		fmt.Printf("%s\n\n", question.Question)
		for _, key := range sortedOptionKeys(question.Options) {
			marker := " "
			if answers[strconv.Itoa(current)] == key {
				marker = "*"
			}
			fmt.Printf("%s %s) %s\n", marker, key, question.Options[key])
		}
		fmt.Println()
		fmt.Print("Answer key, (n)ext, (p)rev or (s)ubmit: ")

		if !scanner.Scan() {
			return
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if session.Tick(time.Now()) {
			fmt.Println("\n⏰ Time is up! Submitting whatever you answered.")
			return
		}

		switch input {
		case "n":
			session.Next()
		case "p":
			session.Prev()
		case "s":
			if _, err := session.Submit(time.Now()); err != nil {
				fmt.Printf("Cannot submit yet: %v\n\n", err)
			}
		default:
			if err := session.SelectAnswer(current, input); err != nil {
				fmt.Printf("Please pick one of the listed option keys.\n\n")
				continue
			}
			session.Next()
		}
	}
}

func showResults(session *quizmentor.QuizSession, score int) {
	questions := session.Questions()
	answers := session.Answers()

	fmt.Println("\n🎉 Quiz completed!")
	fmt.Printf("🏆 Score: %d/%d (%.1f%%)\n\n", score, len(questions), float64(score)/float64(len(questions))*100)

	for i, question := range questions {
		picked, answered := answers[strconv.Itoa(i)]
		switch {
		case answered && picked == question.Correct:
			fmt.Printf("✅ %d. %s\n", i+1, question.Question)
		case answered:
			fmt.Printf("❌ %d. %s (you: %s, correct: %s) %s\n", i+1, question.Question, picked, question.Correct, question.Options[question.Correct])
		default:
			fmt.Printf("❌ %d. %s (unanswered, correct: %s) %s\n", i+1, question.Question, question.Correct, question.Options[question.Correct])
		}
	}
}

// persistAttempt is fire-and-forget relative to the visible result: a store
// failure is logged and the score stays on screen.
func persistAttempt(log *zap.SugaredLogger, dbPath, userID string, session *quizmentor.QuizSession, score int) {
	store, err := quizmentor.OpenStore(dbPath, log)
	if err != nil {
		log.Warnw("could not open store, attempt not saved", "error", err)
		return
	}
	attempt, err := store.CreateQuizAttempt(context.Background(), userID, session.Topic(), session.Questions(), session.Answers(), score)
	if err != nil {
		log.Warnw("could not save attempt", "error", err)
		return
	}
	log.Infow("attempt saved", "id", attempt.ID)
}

func sortedOptionKeys(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
