package videoquiz

import (
	"reflect"
	"testing"
)

func TestScore(t *testing.T) {
	twoQuiz := Quiz{
		{Question: "2+2?", Options: []string{"2", "3", "4", "5"}, Answer: "4"},
		{Question: "Capital of France?", Options: []string{"Rome", "Paris", "Berlin", "Lisbon"}, Answer: "Paris"},
	}

	tests := []struct {
		name        string
		quiz        Quiz
		submitted   map[int]string
		wantScore   int
		wantPercent float64
		wantCorrect []bool
		wantChosen  []string
	}{
		{
			name:        "one of two correct",
			quiz:        twoQuiz,
			submitted:   map[int]string{0: "4", 1: "Rome"},
			wantScore:   1,
			wantPercent: 50,
			wantCorrect: []bool{true, false},
			wantChosen:  []string{"4", "Rome"},
		},
		{
			name:        "all correct",
			quiz:        twoQuiz,
			submitted:   map[int]string{0: "4", 1: "Paris"},
			wantScore:   2,
			wantPercent: 100,
			wantCorrect: []bool{true, true},
			wantChosen:  []string{"4", "Paris"},
		},
		{
			name:        "missing selection counts as empty",
			quiz:        twoQuiz,
			submitted:   map[int]string{1: "Paris"},
			wantScore:   1,
			wantPercent: 50,
			wantCorrect: []bool{false, true},
			wantChosen:  []string{"", "Paris"},
		},
		{
			name:        "extra indexes are ignored",
			quiz:        twoQuiz,
			submitted:   map[int]string{0: "4", 7: "Paris"},
			wantScore:   1,
			wantPercent: 50,
			wantCorrect: []bool{true, false},
			wantChosen:  []string{"4", ""},
		},
		{
			name:        "empty answer is never correct",
			quiz:        Quiz{{Question: "?", Options: []string{"a", ""}, Answer: ""}},
			submitted:   map[int]string{0: ""},
			wantScore:   0,
			wantPercent: 0,
			wantCorrect: []bool{false},
			wantChosen:  []string{""},
		},
		{
			name:        "answer outside the options still matches",
			quiz:        Quiz{{Question: "?", Options: []string{"a", "b"}, Answer: "c"}},
			submitted:   map[int]string{0: "c"},
			wantScore:   1,
			wantPercent: 100,
			wantCorrect: []bool{true},
			wantChosen:  []string{"c"},
		},
		{
			name:        "comparison is exact",
			quiz:        Quiz{{Question: "?", Options: []string{"Paris"}, Answer: "Paris"}},
			submitted:   map[int]string{0: "paris "},
			wantScore:   0,
			wantPercent: 0,
			wantCorrect: []bool{false},
			wantChosen:  []string{"paris "},
		},
		{
			name:        "percentage rounds to two decimals",
			quiz:        Quiz{{Answer: "a"}, {Answer: "b"}, {Answer: "c"}},
			submitted:   map[int]string{0: "a"},
			wantScore:   1,
			wantPercent: 33.33,
			wantCorrect: []bool{true, false, false},
			wantChosen:  []string{"a", "", ""},
		},
		{
			name:        "empty quiz",
			quiz:        Quiz{},
			submitted:   nil,
			wantScore:   0,
			wantPercent: 0,
			wantCorrect: []bool{},
			wantChosen:  []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.quiz, tc.submitted)

			if got.Score != tc.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tc.wantScore)
			}
			if got.Total != len(tc.quiz) {
				t.Errorf("Total = %d, want %d", got.Total, len(tc.quiz))
			}
			if got.Percentage != tc.wantPercent {
				t.Errorf("Percentage = %v, want %v", got.Percentage, tc.wantPercent)
			}
			if !reflect.DeepEqual(got.Correct, tc.wantCorrect) {
				t.Errorf("Correct = %v, want %v", got.Correct, tc.wantCorrect)
			}
			if !reflect.DeepEqual(got.Selected, tc.wantChosen) {
				t.Errorf("Selected = %q, want %q", got.Selected, tc.wantChosen)
			}
		})
	}
}

func TestScoreIsRepeatable(t *testing.T) {
	quiz := Quiz{{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4"}}
	submitted := map[int]string{0: "4"}

	first := Score(quiz, submitted)
	second := Score(quiz, submitted)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scoring the same submission twice differed: %+v vs %+v", first, second)
	}
}
