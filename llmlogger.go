package videoquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LLMLogger writes one generation call (prompt, raw response, outcome) to
// its own file so raw model output can be inspected later.
type LLMLogger struct {
	file *os.File
	mu   sync.Mutex
	ID   string
}

// NewLLMLogger creates a log file under dir for a single generation request
func NewLLMLogger(dir string, req GenerationRequest) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	id := uuid.NewString()
	file, err := os.Create(filepath.Join(dir, id+".log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{file: file, ID: id}

	logger.Logf("=== Quiz Generation Log ===\n")
	logger.Logf("Generation ID: %s\n", id)
	logger.Logf("Mode: %s\n", req.Mode)
	if req.Topic != "" {
		logger.Logf("Topic: %s\n", req.Topic)
	}
	logger.Logf("Number of Questions: %d\n", req.NumQuestions)
	logger.Logf("Source Material Length: %d characters\n", len(req.SourceMaterial))
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("========================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	ll.logf(format, args...)
}

func (ll *LLMLogger) logf(format string, args ...interface{}) {
	if ll.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogLLMRequest logs an LLM request
func (ll *LLMLogger) LogLLMRequest(prompt string) {
	ll.Logf("=== LLM REQUEST ===\n")
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("===================\n\n")
}

// LogLLMResponse logs the raw LLM response
func (ll *LLMLogger) LogLLMResponse(response string) {
	ll.Logf("=== LLM RESPONSE ===\n")
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("====================\n\n")
}

// LogOutcome records how the response was handled
func (ll *LLMLogger) LogOutcome(numQuestions int, err error) {
	if err != nil {
		ll.Logf("Outcome: FAILED - %v\n", err)
		return
	}
	ll.Logf("Outcome: parsed %d questions\n", numQuestions)
}

// Close closes the log file
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	ll.logf("=== Quiz Generation Complete ===\n")
	ll.logf("Completed: %s\n", time.Now().Format(time.RFC3339))
	err := ll.file.Close()
	ll.file = nil
	return err
}
