package videoquiz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are an expert quiz question generator. You answer with a raw JSON array of multiple choice questions and nothing else."

// Completer sends a prompt to a generative-text service and returns the raw
// response text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// OpenAICompleter talks to any OpenAI compatible chat completion endpoint
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer. An empty baseURL keeps the OpenAI
// default.
func NewOpenAICompleter(apiKey, baseURL, model string, timeout time.Duration) *OpenAICompleter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete runs a single chat completion
func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: system,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion failed with status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in chat completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// QuestionMaker generates quizzes from source text
type QuestionMaker struct {
	completer Completer
	log       *Logger
	logDir    string
}

// NewQuestionMaker creates a question maker. When logDir is set every
// generation call is also written to its own file there.
func NewQuestionMaker(completer Completer, log *Logger, logDir string) *QuestionMaker {
	return &QuestionMaker{
		completer: completer,
		log:       log.With("component", "QuestionMaker"),
		logDir:    logDir,
	}
}

// GenerateQuiz asks the model for req.NumQuestions questions and parses its
// answer. The number of questions returned is not enforced.
func (qm *QuestionMaker) GenerateQuiz(ctx context.Context, req GenerationRequest) (Quiz, error) {
	qm.log.Info("Generating questions", "mode", req.Mode, "topic", req.Topic, "count", req.NumQuestions)

	prompt := qm.buildPrompt(req)

	var llmLog *LLMLogger
	if qm.logDir != "" {
		l, err := NewLLMLogger(qm.logDir, req)
		if err != nil {
			qm.log.Warn("Failed to create generation log", "error", err)
		} else {
			llmLog = l
			defer llmLog.Close()
			llmLog.LogLLMRequest(prompt)
		}
	}

	raw, err := qm.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		qm.log.Error("Generation service call failed", "error", err)
		if llmLog != nil {
			llmLog.LogOutcome(0, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationService, err)
	}
	if llmLog != nil {
		llmLog.LogLLMResponse(raw)
	}

	quiz, err := ParseQuestions(ExtractJSONArray(strings.TrimSpace(raw)))
	if err != nil {
		qm.log.Warn("Model returned unparseable output", "error", err, "raw", raw)
		if llmLog != nil {
			llmLog.LogOutcome(0, err)
		}
		return nil, &ModelOutputError{Raw: raw, Err: err}
	}

	if llmLog != nil {
		llmLog.LogOutcome(len(quiz), nil)
	}
	if len(quiz) != req.NumQuestions {
		qm.log.Warn("Model returned a different number of questions", "requested", req.NumQuestions, "received", len(quiz))
	}
	qm.log.Info("Generated questions", "count", len(quiz))
	return quiz, nil
}

func (qm *QuestionMaker) buildPrompt(req GenerationRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate exactly %d multiple choice questions in English as a JSON array. ", req.NumQuestions))
	sb.WriteString("Each question must have:\n")
	sb.WriteString("- a 'question' field (string)\n")
	sb.WriteString("- an 'options' field (array of exactly 4 strings)\n")
	sb.WriteString("- an 'answer' field matching one of the options exactly\n\n")
	sb.WriteString("Do not include any explanations, markdown formatting, code fences, or introductory text. ")
	sb.WriteString("Respond only with a valid raw JSON array like this:\n\n")
	sb.WriteString("[\n")
	sb.WriteString("  {\n")
	sb.WriteString("    \"question\": \"What is 2 + 2?\",\n")
	sb.WriteString("    \"options\": [\"2\", \"3\", \"4\", \"5\"],\n")
	sb.WriteString("    \"answer\": \"4\"\n")
	sb.WriteString("  }\n")
	sb.WriteString("]\n\n")

	switch req.Mode {
	case ModeTopic:
		sb.WriteString(fmt.Sprintf("Topic:\n%s", req.Topic))
	default:
		if req.Topic != "" {
			sb.WriteString(fmt.Sprintf("Focus the questions on: %s\n\n", req.Topic))
		}
		sb.WriteString(fmt.Sprintf("Transcript:\n%s", req.SourceMaterial))
	}

	return sb.String()
}
