package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"videoquiz"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Quiz topic")
		videoURL     = flag.String("video", "", "YouTube video URL to build the quiz from")
		numQuestions = flag.Int("questions", videoquiz.DefaultMCQCount, "Number of questions to generate")
		outputFile   = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "API key for the generation service (or set LLM_API_KEY)")
		playMode     = flag.Bool("play", false, "Play the quiz interactively")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	cfg := videoquiz.LoadConfig()
	if *apiKey != "" {
		cfg.LLMAPIKey = *apiKey
	}

	log, err := videoquiz.NewLogger(cfg.LogMode, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.LLMAPIKey == "" {
		log.Fatal("An API key is required. Use -api-key flag or set LLM_API_KEY environment variable.")
	}

	mode, input := videoquiz.ModeTopic, *topic
	switch {
	case *videoURL != "" && *topic != "":
		log.Fatal("Use either -topic or -video, not both.")
	case *videoURL != "":
		mode, input = videoquiz.ModeVideo, *videoURL
	case *topic == "":
		log.Fatal("A topic or video is required. Use -topic or -video flag.")
	}

	count := cfg.ClampCount(fmt.Sprint(*numQuestions))

	completer := videoquiz.NewOpenAICompleter(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	generator := videoquiz.NewQuizGenerator(
		videoquiz.NewVideoSource(videoquiz.NewHTTPTranscriptProvider(cfg.TranscriptAPIURL, cfg.TranscriptTimeout), log),
		videoquiz.TopicSource{},
		videoquiz.NewQuestionMaker(completer, log, cfg.LogDir),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout+cfg.TranscriptTimeout)
	defer cancel()

	if *playMode {
		fmt.Println("⏳ Generating questions... (this may take a moment)")
	}

	generated, err := generator.GenerateQuiz(ctx, mode, input, count)
	if err != nil {
		log.Fatal("Failed to generate quiz", "error", err, "hint", videoquiz.UserMessage(err))
	}

	if *playMode {
		playQuiz(generated.Questions, os.Stdin, os.Stdout)
		return
	}

	output, err := json.MarshalIndent(generated.Questions, "", "  ")
	if err != nil {
		log.Fatal("Failed to marshal quiz", "error", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatal("Failed to write output file", "error", err)
		}
		log.Info("Quiz saved", "path", *outputFile)
		return
	}
	fmt.Println(string(output))
}

// playQuiz asks every question on out, reads a letter per question from in
// and prints the score at the end.
func playQuiz(quiz videoquiz.Quiz, in io.Reader, out io.Writer) videoquiz.ScoreResult {
	scanner := bufio.NewScanner(in)
	submitted := make(map[int]string, len(quiz))

	for i, q := range quiz {
		fmt.Fprintf(out, "\nQuestion %d/%d:\n%s\n\n", i+1, len(quiz), q.Question)
		for j, option := range q.Options {
			fmt.Fprintf(out, "%c) %s\n", 'A'+j, option)
		}

		for {
			fmt.Fprintf(out, "Your answer (A-%c): ", 'A'+max(len(q.Options)-1, 0))
			if !scanner.Scan() {
				break
			}
			answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
			if len(answer) == 1 {
				idx := int(answer[0] - 'A')
				if idx >= 0 && idx < len(q.Options) {
					submitted[i] = q.Options[idx]
					break
				}
			}
			fmt.Fprintln(out, "Please enter one of the listed letters")
		}
	}

	result := videoquiz.Score(quiz, submitted)

	fmt.Fprintln(out, "\n🎉 Quiz completed!")
	for i, q := range quiz {
		if result.Correct[i] {
			fmt.Fprintf(out, "✅ %d. %s\n", i+1, q.Question)
		} else {
			fmt.Fprintf(out, "❌ %d. %s (correct answer: %s)\n", i+1, q.Question, q.Answer)
		}
	}
	fmt.Fprintf(out, "\n📊 Score: %d/%d (%.2f%%)\n", result.Score, result.Total, result.Percentage)

	return result
}
