package quizmentor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseQuestions decodes a raw provider completion into a question list.
//
// The provider sometimes wraps its JSON in a markdown code fence; a single
// leading ```json marker and a single trailing ``` marker are stripped
// before decoding. Any decode failure, wrong top-level shape or structural
// violation yields ErrMalformedQuizContent and no partial result.
func ParseQuestions(raw string) ([]Question, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var questions []Question
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuizContent, err)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", ErrMalformedQuizContent, i, err)
		}
	}
	return questions, nil
}
