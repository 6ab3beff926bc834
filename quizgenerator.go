package videoquiz

import (
	"context"
	"fmt"
)

// QuizGenerator resolves the input for a quiz and hands it to the question
// maker. It holds no per-request state.
type QuizGenerator struct {
	video SourceResolver
	topic SourceResolver
	maker *QuestionMaker
	log   *Logger
}

// GeneratedQuiz is a quiz together with the source it was generated from
type GeneratedQuiz struct {
	Source    *Source
	Questions Quiz
}

// NewQuizGenerator creates a generator from its collaborators
func NewQuizGenerator(video, topic SourceResolver, maker *QuestionMaker, log *Logger) *QuizGenerator {
	return &QuizGenerator{
		video: video,
		topic: topic,
		maker: maker,
		log:   log.With("component", "QuizGenerator"),
	}
}

// GenerateQuiz builds a quiz of count questions. For ModeVideo input is a
// video URL, for ModeTopic it is free text.
func (qg *QuizGenerator) GenerateQuiz(ctx context.Context, mode Mode, input string, count int) (*GeneratedQuiz, error) {
	var resolver SourceResolver
	switch mode {
	case ModeVideo:
		resolver = qg.video
	case ModeTopic:
		resolver = qg.topic
	default:
		return nil, fmt.Errorf("unknown quiz mode %q", mode)
	}

	source, err := resolver.Resolve(ctx, input)
	if err != nil {
		qg.log.Info("Failed to resolve quiz source", "mode", mode, "error", err)
		return nil, err
	}

	req := GenerationRequest{
		Mode:         mode,
		NumQuestions: count,
	}
	if mode == ModeTopic {
		req.Topic = source.Text
	} else {
		req.SourceMaterial = source.Text
	}

	questions, err := qg.maker.GenerateQuiz(ctx, req)
	if err != nil {
		return nil, err
	}

	return &GeneratedQuiz{Source: source, Questions: questions}, nil
}
