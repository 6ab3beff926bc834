package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"videoquiz"
)

type resultRow struct {
	Index    int
	Question string
	Options  []string
	Answer   string
	Selected string
	Correct  bool
}

func formAction(mode videoquiz.Mode) string {
	if mode == videoquiz.ModeTopic {
		return "/mcq-topic"
	}
	return "/mcq"
}

func (s *Server) generationTimeout() time.Duration {
	return s.cfg.LLMTimeout + s.cfg.TranscriptTimeout
}

func (s *Server) renderQuizForm(w http.ResponseWriter, r *http.Request, status int, mode videoquiz.Mode, input string, count int, err error) {
	s.render(w, r, status, "quiz_form", map[string]interface{}{
		"Mode":     string(mode),
		"Action":   formAction(mode),
		"Input":    input,
		"Count":    count,
		"MaxCount": s.cfg.MaxMCQCount,
		"Error":    videoquiz.UserMessage(err),
	})
}

func (s *Server) handleQuizForm(mode videoquiz.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderQuizForm(w, r, http.StatusOK, mode, "", s.cfg.DefaultMCQCount, nil)
	}
}

func (s *Server) handleQuizGenerate(mode videoquiz.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		field := "video_url"
		if mode == videoquiz.ModeTopic {
			field = "topic"
		}
		input := strings.TrimSpace(r.FormValue(field))
		count := s.cfg.ClampCount(r.FormValue("mcq_count"))

		ctx, cancel := context.WithTimeout(r.Context(), s.generationTimeout())
		defer cancel()

		generated, err := s.generator.GenerateQuiz(ctx, mode, input, count)
		if err != nil {
			s.log.Info("Quiz generation failed", "mode", mode, "error", err)
			s.renderQuizForm(w, r, statusFor(err), mode, input, count, err)
			return
		}

		token, err := s.codec.Encode(generated.Questions)
		if err != nil {
			s.log.Error("Failed to encode quiz", "error", err)
			s.renderQuizForm(w, r, http.StatusInternalServerError, mode, input, count, err)
			return
		}

		data := map[string]interface{}{
			"Mode":         string(mode),
			"Questions":    generated.Questions,
			"Token":        token,
			"SubmitAction": formAction(mode) + "/submit",
		}
		if mode == videoquiz.ModeTopic {
			data["Topic"] = generated.Source.Text
		} else {
			data["VideoURL"] = videoquiz.EmbedURL(generated.Source.VideoID)
		}
		s.render(w, r, http.StatusOK, "quiz", data)
	}
}

func (s *Server) handleQuizSubmit(mode videoquiz.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		quiz, err := s.codec.Decode(r.PostFormValue("answers_json"))
		if err != nil {
			s.log.Info("Rejected quiz submission", "mode", mode, "error", err)
			s.renderQuizForm(w, r, http.StatusBadRequest, mode, "", s.cfg.DefaultMCQCount, err)
			return
		}

		result := videoquiz.Score(quiz, submittedAnswers(r, len(quiz)))
		s.log.Debug("Scored quiz", "mode", mode, "score", result.Score, "total", result.Total)

		rows := make([]resultRow, len(quiz))
		for i, q := range quiz {
			rows[i] = resultRow{
				Index:    i,
				Question: q.Question,
				Options:  q.Options,
				Answer:   q.Answer,
				Selected: result.Selected[i],
				Correct:  result.Correct[i],
			}
		}

		data := map[string]interface{}{
			"Mode":       string(mode),
			"Rows":       rows,
			"Score":      result.Score,
			"Total":      result.Total,
			"Percentage": result.Percentage,
			"Again":      formAction(mode),
		}
		if videoURL := r.PostFormValue("video_url"); isEmbedURL(videoURL) {
			data["VideoURL"] = videoURL
		}
		s.render(w, r, http.StatusOK, "quiz_results", data)
	}
}

// submittedAnswers collects the q{index} fields that are present in the form
func submittedAnswers(r *http.Request, n int) map[int]string {
	submitted := make(map[int]string, n)
	for i := 0; i < n; i++ {
		if values, ok := r.PostForm["q"+strconv.Itoa(i)]; ok && len(values) > 0 {
			submitted[i] = values[0]
		}
	}
	return submitted
}

func isEmbedURL(u string) bool {
	return strings.HasPrefix(u, "https://www.youtube.com/embed/")
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, videoquiz.ErrInvalidReference),
		errors.Is(err, videoquiz.ErrToken),
		errors.Is(err, videoquiz.ErrDuplicateUsername):
		return http.StatusBadRequest
	case errors.Is(err, videoquiz.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, videoquiz.ErrTranscriptUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, videoquiz.ErrGenerationService),
		errors.Is(err, videoquiz.ErrInvalidModelOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
