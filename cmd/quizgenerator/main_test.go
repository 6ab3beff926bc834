package main

import (
	"bytes"
	"strings"
	"testing"

	"videoquiz"
)

func TestPlayQuiz(t *testing.T) {
	quiz := videoquiz.Quiz{
		{Question: "2+2?", Options: []string{"2", "3", "4", "5"}, Answer: "4"},
		{Question: "Capital of France?", Options: []string{"Rome", "Paris", "Berlin", "Lisbon"}, Answer: "Paris"},
	}

	tests := []struct {
		name      string
		input     string
		wantScore int
		wantLine  string
	}{
		{"all correct", "c\nB\n", 2, "Score: 2/2 (100.00%)"},
		{"retries invalid letters", "z\n\nC\na\n", 1, "Score: 1/2 (50.00%)"},
		{"input ends early", "a\n", 0, "Score: 0/2 (0.00%)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			result := playQuiz(quiz, strings.NewReader(tc.input), &out)

			if result.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", result.Score, tc.wantScore)
			}
			if !strings.Contains(out.String(), tc.wantLine) {
				t.Errorf("output missing %q:\n%s", tc.wantLine, out.String())
			}
		})
	}
}

func TestPlayQuizPrintsCorrectAnswer(t *testing.T) {
	quiz := videoquiz.Quiz{{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}}

	var out bytes.Buffer
	playQuiz(quiz, strings.NewReader("A\n"), &out)

	if !strings.Contains(out.String(), "(correct answer: 4)") {
		t.Errorf("expected correct answer in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "A) 3") || !strings.Contains(out.String(), "B) 4") {
		t.Errorf("expected lettered options in output:\n%s", out.String())
	}
}
