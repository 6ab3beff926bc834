package videoquiz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestGenerator(completer Completer, provider TranscriptProvider) *QuizGenerator {
	return NewQuizGenerator(
		NewVideoSource(provider, NopLogger()),
		TopicSource{},
		NewQuestionMaker(completer, NopLogger(), ""),
		NopLogger(),
	)
}

func TestQuizGeneratorVideo(t *testing.T) {
	completer := &fakeCompleter{response: twoQuestions}
	provider := &fakeProvider{segments: map[string][]TranscriptSegment{
		"ABC123": {{Text: "Paris is the capital"}, {Text: "of France."}},
	}}

	generated, err := newTestGenerator(completer, provider).GenerateQuiz(context.Background(), ModeVideo, "https://www.youtube.com/watch?v=ABC123&t=10", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if generated.Source.VideoID != "ABC123" {
		t.Errorf("VideoID = %q, want ABC123", generated.Source.VideoID)
	}
	if len(generated.Questions) != 2 {
		t.Errorf("expected 2 questions, got %d", len(generated.Questions))
	}
	if len(completer.prompts) != 1 || !strings.Contains(completer.prompts[0], "Paris is the capital of France.") {
		t.Errorf("prompt does not carry the joined transcript: %v", completer.prompts)
	}
}

func TestQuizGeneratorTopic(t *testing.T) {
	completer := &fakeCompleter{response: twoQuestions}

	generated, err := newTestGenerator(completer, &fakeProvider{}).GenerateQuiz(context.Background(), ModeTopic, "European capitals", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if generated.Source.Mode != ModeTopic || generated.Source.VideoID != "" {
		t.Errorf("unexpected source: %+v", generated.Source)
	}
	if !strings.Contains(completer.prompts[0], "Topic:\nEuropean capitals") {
		t.Errorf("prompt does not carry the topic: %s", completer.prompts[0])
	}
}

func TestQuizGeneratorErrors(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		input    string
		provider TranscriptProvider
		want     error
	}{
		{"bad url", ModeVideo, "https://vimeo.com/1", &fakeProvider{}, ErrInvalidReference},
		{"no captions", ModeVideo, "https://youtu.be/ABC123", &fakeProvider{err: errors.New("disabled")}, ErrTranscriptUnavailable},
		{"blank topic", ModeTopic, " ", &fakeProvider{}, ErrInvalidReference},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			completer := &fakeCompleter{response: twoQuestions}
			_, err := newTestGenerator(completer, tc.provider).GenerateQuiz(context.Background(), tc.mode, tc.input, 2)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if len(completer.prompts) != 0 {
				t.Error("generation service must not be called when the source fails")
			}
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		if _, err := newTestGenerator(&fakeCompleter{}, &fakeProvider{}).GenerateQuiz(context.Background(), Mode("audio"), "x", 1); err == nil {
			t.Error("expected error for unknown mode")
		}
	})
}
