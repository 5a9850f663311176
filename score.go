package quizmentor

import "strconv"

// Score counts the recorded answers that match the corresponding question's
// correct option key. Unanswered questions count as incorrect, never as
// errors. Computed once at submission time and persisted as-is.
func Score(questions []Question, answers AnswerMap) int {
	score := 0
	for i, q := range questions {
		answer, ok := answers[strconv.Itoa(i)]
		if ok && q.Correct != "" && answer == q.Correct {
			score++
		}
	}
	return score
}
