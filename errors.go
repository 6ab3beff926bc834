package videoquiz

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReference      = errors.New("invalid video url or topic")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	ErrGenerationService     = errors.New("generation service error")
	ErrInvalidModelOutput    = errors.New("invalid model output")
	ErrToken                 = errors.New("malformed quiz token")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrPersistence           = errors.New("persistence error")
)

// ModelOutputError is returned when the model response cannot be parsed.
// Raw holds the full response for the operational log.
type ModelOutputError struct {
	Raw string
	Err error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidModelOutput, e.Err)
}

func (e *ModelOutputError) Unwrap() error { return e.Err }

func (e *ModelOutputError) Is(target error) bool {
	return target == ErrInvalidModelOutput
}

// UserMessage converts an error into a short message that is safe to render
// back on a form.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidReference):
		return "Please enter a valid YouTube video URL or topic."
	case errors.Is(err, ErrTranscriptUnavailable):
		return "Failed to fetch transcript. Make sure the video has captions."
	case errors.Is(err, ErrInvalidModelOutput):
		return "The model did not return valid questions. Try again."
	case errors.Is(err, ErrGenerationService):
		return "The question generator is unavailable right now. Try again later."
	case errors.Is(err, ErrToken):
		return "Could not process your submission. Please generate a new quiz."
	case errors.Is(err, ErrDuplicateUsername):
		return "Username already exists."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, ErrPersistence):
		return "Something went wrong saving your data. Try again."
	default:
		return "Something went wrong. Try again."
	}
}
