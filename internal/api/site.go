package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/mechanics-site/internal/auth"
	"github.com/ashureev/mechanics-site/internal/comments"
	"github.com/ashureev/mechanics-site/internal/domain"
	"github.com/ashureev/mechanics-site/internal/identity"
	"github.com/ashureev/mechanics-site/internal/quiz"
	"github.com/ashureev/mechanics-site/internal/search"
	"github.com/go-chi/chi/v5"
)

// LoginSuccessMessage is returned after a successful login.
const LoginSuccessMessage = "Login successful."

// SiteHandler serves search, quiz, comment and login endpoints.
type SiteHandler struct {
	index  *search.Index
	grader *quiz.Grader
	auth   *auth.Service
	board  *comments.Board
}

// NewSiteHandler creates a handler over the given components.
func NewSiteHandler(index *search.Index, grader *quiz.Grader, authSvc *auth.Service, board *comments.Board) *SiteHandler {
	return &SiteHandler{
		index:  index,
		grader: grader,
		auth:   authSvc,
		board:  board,
	}
}

// RegisterRoutes registers site API routes.
func (h *SiteHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Post("/quiz", h.GradeQuiz)
		r.Get("/comments", h.ListComments)
		r.Post("/comments", h.AddComment)
		r.Post("/login", h.Login)
		r.Get("/me", h.GetMe)
	})
}

type searchHit struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type searchResponse struct {
	Query    string      `json:"query"`
	Searched bool        `json:"searched"`
	Results  []searchHit `json:"results"`
	Notice   string      `json:"notice,omitempty"`
}

// Search runs the q query parameter against the page index.
func (h *SiteHandler) Search(w http.ResponseWriter, r *http.Request) {
	res := h.index.Search(r.URL.Query().Get("q"))

	resp := searchResponse{
		Query:    res.Query,
		Searched: res.Searched,
		Results:  make([]searchHit, 0, len(res.Pages)),
	}
	for _, p := range res.Pages {
		resp.Results = append(resp.Results, searchHit{Title: p.Title, URL: p.URL})
	}
	if res.NoResults() {
		resp.Notice = search.NoResultsNotice
	}
	JSON(w, http.StatusOK, resp)
}

type quizResponse struct {
	quiz.Result
	Class   quiz.Class `json:"class"`
	Summary string     `json:"summary"`
}

// GradeQuiz scores the submitted quiz form.
func (h *SiteHandler) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	res := h.grader.Grade(quiz.Answers(r.PostForm))
	slog.Info("Quiz graded", "device_id", identity.DeviceIDFromContext(r.Context()), "score", res.Score, "total", res.Total)
	JSON(w, http.StatusOK, quizResponse{Result: res, Class: res.Class(), Summary: res.Summary()})
}

type commentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

// ListComments returns the device's comments most recent first.
func (h *SiteHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	deviceID := identity.DeviceIDFromContext(r.Context())
	list, err := h.board.Recent(r.Context(), deviceID)
	if err != nil {
		slog.Error("Failed to list comments", "error", err, "device_id", deviceID)
		Error(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	JSON(w, http.StatusOK, commentsResponse{Comments: list})
}

// AddComment appends the submitted comment and returns the board most
// recent first.
func (h *SiteHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	ctx := r.Context()
	deviceID := identity.DeviceIDFromContext(ctx)

	if _, err := h.board.Add(ctx, deviceID, identity.TabIDFromContext(ctx), r.PostForm.Get("name"), r.PostForm.Get("message")); err != nil {
		slog.Error("Failed to add comment", "error", err, "device_id", deviceID)
		Error(w, http.StatusInternalServerError, "failed to save comment")
		return
	}

	list, err := h.board.Recent(ctx, deviceID)
	if err != nil {
		slog.Error("Failed to list comments", "error", err, "device_id", deviceID)
		Error(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	JSON(w, http.StatusCreated, commentsResponse{Comments: list})
}

// Login checks the submitted demo credentials.
func (h *SiteHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	ctx := r.Context()
	role, err := h.auth.Login(ctx, identity.DeviceIDFromContext(ctx), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		Error(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		slog.Error("Login failed", "error", err)
		Error(w, http.StatusInternalServerError, "failed to record login")
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"role":    string(role),
		"message": LoginSuccessMessage,
	})
}

// GetMe returns the current device's role.
func (h *SiteHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	JSON(w, http.StatusOK, map[string]string{
		"role": string(h.auth.CurrentRole(ctx, identity.DeviceIDFromContext(ctx))),
	})
}
