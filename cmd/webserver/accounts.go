package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"videoquiz"

	"github.com/gorilla/sessions"
)

// bcrypt ignores everything past 72 bytes
const maxPasswordBytes = 72

func newSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// currentAccount returns the account stored in the login session
func (s *Server) currentAccount(r *http.Request) (int64, string, bool) {
	session, err := s.sessions.Get(r, sessionName)
	if err != nil {
		return 0, "", false
	}
	id, ok := session.Values["account_id"].(int64)
	if !ok {
		return 0, "", false
	}
	username, _ := session.Values["username"].(string)
	return id, username, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, http.StatusOK, "signup", map[string]interface{}{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.render(w, r, http.StatusBadRequest, "signup", map[string]interface{}{
			"Input": username,
			"Error": "Username and password are required.",
		})
		return
	}
	if len(password) > maxPasswordBytes {
		s.render(w, r, http.StatusBadRequest, "signup", map[string]interface{}{
			"Input": username,
			"Error": "Password must be at most 72 characters.",
		})
		return
	}

	if err := s.store.CreateAccount(r.Context(), username, password); err != nil {
		if !errors.Is(err, videoquiz.ErrDuplicateUsername) {
			s.log.Error("Failed to create account", "username", username, "error", err)
		}
		s.render(w, r, statusFor(err), "signup", map[string]interface{}{
			"Input": username,
			"Error": videoquiz.UserMessage(err),
		})
		return
	}

	http.Redirect(w, r, "/login?signed_up=1", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		data := map[string]interface{}{}
		if r.URL.Query().Get("signed_up") != "" {
			data["Notice"] = "Account created. Please log in."
		}
		s.render(w, r, http.StatusOK, "login", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	accountID, err := s.store.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, videoquiz.ErrInvalidCredentials) {
			s.log.Error("Failed to authenticate", "username", username, "error", err)
		}
		s.render(w, r, statusFor(err), "login", map[string]interface{}{
			"Input": username,
			"Error": videoquiz.UserMessage(err),
		})
		return
	}

	// a stale or undecodable cookie still yields a fresh session
	session, _ := s.sessions.Get(r, sessionName)
	session.Values["account_id"] = accountID
	session.Values["username"] = username
	if err := session.Save(r, w); err != nil {
		s.log.Error("Session save error", "error", err)
		s.render(w, r, http.StatusInternalServerError, "login", map[string]interface{}{
			"Input": username,
			"Error": videoquiz.UserMessage(err),
		})
		return
	}

	s.log.Info("User logged in", "account_id", accountID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Values = map[interface{}]interface{}{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		s.log.Error("Session save error", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	accountID, username, ok := s.currentAccount(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}

		var err error
		switch r.FormValue("action") {
		case "add":
			err = s.addResource(r, accountID)
		case "delete":
			err = s.deleteResource(r, accountID)
		default:
			err = formError("Unknown dashboard action.")
		}

		if err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		status := http.StatusBadRequest
		var fe formError
		if !errors.As(err, &fe) {
			status = statusFor(err)
		}
		s.renderDashboard(w, r, status, accountID, username, err)
		return
	}

	s.renderDashboard(w, r, http.StatusOK, accountID, username, nil)
}

// formError is a validation problem whose text can be shown as is
type formError string

func (e formError) Error() string { return string(e) }

func (s *Server) addResource(r *http.Request, accountID int64) error {
	name := strings.TrimSpace(r.FormValue("name"))
	link := strings.TrimSpace(r.FormValue("url"))
	if name == "" || link == "" {
		return formError("Name and URL are required.")
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return formError("Please enter a valid http or https URL.")
	}

	if err := s.store.AddResource(r.Context(), accountID, name, u.String()); err != nil {
		s.log.Error("Failed to add resource", "account_id", accountID, "error", err)
		return err
	}
	return nil
}

func (s *Server) deleteResource(r *http.Request, accountID int64) error {
	resourceID, err := strconv.ParseInt(r.FormValue("resource_id"), 10, 64)
	if err != nil {
		return formError("Invalid website id.")
	}

	if err := s.store.DeleteResource(r.Context(), accountID, resourceID); err != nil {
		s.log.Error("Failed to delete resource", "account_id", accountID, "resource_id", resourceID, "error", err)
		return err
	}
	return nil
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, accountID int64, username string, actionErr error) {
	data := map[string]interface{}{
		"Username": username,
	}
	if actionErr != nil {
		var fe formError
		if errors.As(actionErr, &fe) {
			data["Error"] = string(fe)
		} else {
			data["Error"] = videoquiz.UserMessage(actionErr)
		}
	}

	resources, err := s.store.ListResources(r.Context(), accountID)
	if err != nil {
		s.log.Error("Failed to list resources", "account_id", accountID, "error", err)
		data["Error"] = videoquiz.UserMessage(err)
		status = http.StatusInternalServerError
	}
	data["Resources"] = resources

	s.render(w, r, status, "dashboard", data)
}
