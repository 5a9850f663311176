package quizmentor

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// AllowedQuestionCounts are the quiz sizes offered on the setup screen.
var AllowedQuestionCounts = []int{10, 15, 20}

// DefaultQuestionCount is used when the caller does not pick a size.
const DefaultQuestionCount = 10

// ValidQuestionCount reports whether n is one of the allowed quiz sizes.
func ValidQuestionCount(n int) bool {
	for _, allowed := range AllowedQuestionCounts {
		if n == allowed {
			return true
		}
	}
	return false
}

// completionAPI is the slice of the OpenAI client the generator needs.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator requests completions from the generative-text provider. It only
// forwards the prompt and returns raw text; enforcing the response shape is
// the parser's job.
type Generator struct {
	client completionAPI
	model  string
	log    *zap.SugaredLogger
}

// NewGenerator creates a generator backed by the OpenAI API.
func NewGenerator(apiKey, model string, log *zap.SugaredLogger) *Generator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log.With("component", "generator"),
	}
}

// GenerateQuiz asks the provider for exactly count multiple-choice questions
// on the topic, emitted as a JSON array of {question, options, correct}
// objects, and returns the raw completion text.
func (g *Generator) GenerateQuiz(ctx context.Context, topic string, count int) (string, error) {
	g.log.Debugw("requesting quiz questions", "topic", topic, "count", count)
	return g.complete(ctx, buildQuizPrompt(topic, count))
}

// GenerateStudyMaterial asks the provider for a verbose prose explanation of
// the topic.
func (g *Generator) GenerateStudyMaterial(ctx context.Context, topic string) (string, error) {
	g.log.Debugw("requesting study material", "topic", topic)
	return g.complete(ctx, buildStudyPrompt(topic))
}

func (g *Generator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		g.log.Errorw("provider call failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrGenerationFailed)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGenerationFailed)
	}
	g.log.Debugw("completion received", "chars", len(text))
	return text, nil
}

func buildQuizPrompt(topic string, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate %d multiple-choice questions on %s.\n", count, topic)
	sb.WriteString("The response should be a JSON array. Each object in the array should follow this format:\n")
	sb.WriteString(`{
  "question": "Your question?",
  "options": {
    "a": "Option A",
    "b": "Option B",
    "c": "Option C",
    "d": "Option D"
  },
  "correct": "a"
}` + "\n")
	sb.WriteString("where \"correct\" is the key of the correct option.\n")
	sb.WriteString("Respond with the JSON array only, no surrounding text.\n")

	return sb.String()
}

func buildStudyPrompt(topic string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate detailed information on %s. ", topic)
	sb.WriteString("The response should be verbose: give every piece of information on the topic, in detail.")

	return sb.String()
}
