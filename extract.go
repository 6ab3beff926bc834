package videoquiz

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?m)^```(?:json)?|```$")

// ExtractJSONArray pulls the JSON array out of a model response.
//
// The first '[' through the last ']' wins, which tolerates prose before and
// after the array. Without brackets a markdown code fence is stripped; if
// there is no fence either the text is returned as is and left for the
// parser to reject.
func ExtractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start != -1 && end > start {
		return raw[start : end+1]
	}

	trimmed := strings.TrimSpace(raw)
	if codeFence.MatchString(trimmed) {
		return strings.TrimSpace(codeFence.ReplaceAllString(trimmed, ""))
	}
	return raw
}

// ParseQuestions decodes an extracted JSON array into a Quiz. Any valid JSON
// array is accepted; missing or oddly typed fields become empty values.
func ParseQuestions(text string) (Quiz, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}

	quiz := make(Quiz, 0, len(items))
	for _, item := range items {
		quiz = append(quiz, normalizeQuestion(item))
	}
	return quiz, nil
}

func normalizeQuestion(item json.RawMessage) Question {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return Question{Options: []string{}}
	}

	q := Question{
		Question: scalarString(fields["question"]),
		Answer:   scalarString(fields["answer"]),
		Options:  []string{},
	}

	var options []json.RawMessage
	if err := json.Unmarshal(fields["options"], &options); err == nil {
		for _, option := range options {
			q.Options = append(q.Options, scalarString(option))
		}
	}
	return q
}

// scalarString renders a JSON scalar as text. Strings are unquoted, numbers
// and booleans keep their literal form, everything else is empty.
func scalarString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v.(type) {
	case float64, bool:
		return strings.TrimSpace(string(raw))
	default:
		return ""
	}
}
