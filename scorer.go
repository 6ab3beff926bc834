package videoquiz

import (
	"math"

	"github.com/samber/lo"
)

// ScoreResult is the outcome of checking a submission against a quiz
type ScoreResult struct {
	Selected   []string `json:"selected"`
	Correct    []bool   `json:"correct"`
	Score      int      `json:"score"`
	Total      int      `json:"total"`
	Percentage float64  `json:"percentage"`
}

// Score compares the submitted selections, keyed by question index, with
// the recorded answers. A missing selection counts as an empty string and
// a question without an answer can never be answered correctly.
func Score(quiz Quiz, submitted map[int]string) ScoreResult {
	result := ScoreResult{
		Selected: make([]string, len(quiz)),
		Correct:  make([]bool, len(quiz)),
		Total:    len(quiz),
	}

	for i, q := range quiz {
		selected := submitted[i]
		result.Selected[i] = selected
		result.Correct[i] = q.Answer != "" && selected == q.Answer
	}

	result.Score = lo.Count(result.Correct, true)
	if result.Total > 0 {
		pct := float64(result.Score) / float64(result.Total) * 100
		result.Percentage = math.Round(pct*100) / 100
	}
	return result
}
