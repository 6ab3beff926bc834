package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"videoquiz"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionName = "videoquiz-session"

type Server struct {
	cfg       *videoquiz.Config
	log       *videoquiz.Logger
	generator *videoquiz.QuizGenerator
	codec     videoquiz.Codec
	store     videoquiz.AccountStore
	sessions  sessions.Store
	templates map[string]*template.Template
}

func main() {
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg := videoquiz.LoadConfig()

	log, err := videoquiz.NewLogger(cfg.LogMode, *verbose)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	db, err := videoquiz.OpenStore(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", "driver", cfg.DBDriver, "error", err)
	}
	defer db.Close()

	completer := videoquiz.NewOpenAICompleter(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMTimeout)
	maker := videoquiz.NewQuestionMaker(completer, log, cfg.LogDir)
	transcripts := videoquiz.NewHTTPTranscriptProvider(cfg.TranscriptAPIURL, cfg.TranscriptTimeout)
	generator := videoquiz.NewQuizGenerator(
		videoquiz.NewVideoSource(transcripts, log),
		videoquiz.TopicSource{},
		maker,
		log,
	)

	templates, err := loadTemplates()
	if err != nil {
		log.Fatal("Failed to load templates", "error", err)
	}

	server := &Server{
		cfg:       cfg,
		log:       log,
		generator: generator,
		codec:     videoquiz.NewCodec(cfg.QuizTokenKey),
		store:     db,
		sessions:  newSessionStore(cfg.SessionSecret),
		templates: templates,
	}

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      server.generationTimeout() + 30*time.Second,
	}

	log.Info("Starting server", "addr", httpServer.Addr, "model", cfg.LLMModel)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.loggingMiddleware)

	router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)

	router.HandleFunc("/mcq", s.handleQuizForm(videoquiz.ModeVideo)).Methods(http.MethodGet)
	router.HandleFunc("/mcq", s.handleQuizGenerate(videoquiz.ModeVideo)).Methods(http.MethodPost)
	router.HandleFunc("/mcq/submit", s.handleQuizSubmit(videoquiz.ModeVideo)).Methods(http.MethodPost)

	router.HandleFunc("/mcq-topic", s.handleQuizForm(videoquiz.ModeTopic)).Methods(http.MethodGet)
	router.HandleFunc("/mcq-topic", s.handleQuizGenerate(videoquiz.ModeTopic)).Methods(http.MethodPost)
	router.HandleFunc("/mcq-topic/submit", s.handleQuizSubmit(videoquiz.ModeTopic)).Methods(http.MethodPost)

	router.HandleFunc("/signup", s.handleSignup).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/login", s.handleLogin).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet, http.MethodPost)
	router.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)

	return router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("Handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "home", map[string]interface{}{})
}

// render executes a page inside base.html. The logged in username is added
// to data for the navigation bar.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.log.Error("Unknown template", "name", name)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	if _, username, ok := s.currentAccount(r); ok {
		data["Username"] = username
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		s.log.Error("Template error", "name", name, "error", err)
	}
}

func loadTemplates() (map[string]*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"letter": func(i int) string {
			return string(rune('A' + i))
		},
	}

	pages := []struct {
		name string
		file string
	}{
		{"home", "templates/home.html"},
		{"quiz_form", "templates/quiz_form.html"},
		{"quiz", "templates/quiz.html"},
		{"quiz_results", "templates/quiz_results.html"},
		{"signup", "templates/signup.html"},
		{"login", "templates/login.html"},
		{"dashboard", "templates/dashboard.html"},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page.name).Funcs(funcMap).ParseFS(templateFS, "templates/base.html", page.file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page.file, err)
		}
		templates[page.name] = tmpl
	}
	return templates, nil
}
