//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ashureev/mechanics-site/internal/auth"
	"github.com/ashureev/mechanics-site/internal/comments"
	"github.com/ashureev/mechanics-site/internal/content"
	"github.com/ashureev/mechanics-site/internal/identity"
	"github.com/ashureev/mechanics-site/internal/quiz"
	"github.com/ashureev/mechanics-site/internal/search"
	"github.com/ashureev/mechanics-site/internal/store"
	"github.com/go-chi/chi/v5"
)

type testSite struct {
	router http.Handler
	device string
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	c := content.Default()
	s := store.NewMemory()
	h := NewSiteHandler(
		search.NewIndex(c.Pages),
		quiz.NewGrader(c.Questions),
		auth.NewService(s, c.Credentials),
		comments.NewBoard(s),
	)
	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	h.RegisterRoutes(r)
	return &testSite{router: r, device: identity.NewDeviceID()}
}

func (ts *testSite) do(t *testing.T, method, target string, form url.Values) *http.Response {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: identity.DeviceCookieName, Value: ts.device})
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w.Result()
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

func TestSearch(t *testing.T) {
	ts := newTestSite(t)

	var got searchResponse
	decode(t, ts.do(t, http.MethodGet, "/api/search?q=NEWTON", nil), &got)
	if !got.Searched || len(got.Results) != 1 || got.Results[0].URL != "laws-of-motion.html" {
		t.Errorf("Expected Laws of Motion, got %+v", got)
	}
	if got.Notice != "" {
		t.Errorf("Unexpected notice %q", got.Notice)
	}
}

func TestSearch_EmptyAndNoResults(t *testing.T) {
	ts := newTestSite(t)

	var empty searchResponse
	decode(t, ts.do(t, http.MethodGet, "/api/search", nil), &empty)
	if empty.Searched || len(empty.Results) != 0 || empty.Notice != "" {
		t.Errorf("Empty query should not search, got %+v", empty)
	}

	var none searchResponse
	decode(t, ts.do(t, http.MethodGet, "/api/search?q=thermodynamics", nil), &none)
	if !none.Searched || len(none.Results) != 0 || none.Notice != search.NoResultsNotice {
		t.Errorf("Expected no-results notice, got %+v", none)
	}
}

func TestGradeQuiz(t *testing.T) {
	ts := newTestSite(t)
	form := url.Values{
		"q1": {"2nd"},
		"q2": {" 4.0 "},
		"q3": {"weight", "tension"},
		"q4": {"down-slope"},
		"q5": {"true"},
	}

	resp := ts.do(t, http.MethodPost, "/api/quiz", form)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Score   int    `json:"score"`
		Total   int    `json:"total"`
		Percent int    `json:"percent"`
		Class   string `json:"class"`
		Summary string `json:"summary"`
	}
	decode(t, resp, &got)
	if got.Score != 5 || got.Total != 5 || got.Percent != 100 || got.Class != "good" {
		t.Errorf("Unexpected result %+v", got)
	}
	if got.Summary != "You scored 5/5 (100%)." {
		t.Errorf("Unexpected summary %q", got.Summary)
	}
}

func TestGradeQuiz_Empty(t *testing.T) {
	ts := newTestSite(t)
	var got struct {
		Score int    `json:"score"`
		Class string `json:"class"`
	}
	decode(t, ts.do(t, http.MethodPost, "/api/quiz", url.Values{}), &got)
	if got.Score != 0 || got.Class != "bad" {
		t.Errorf("Expected 0 bad, got %+v", got)
	}
}

func TestGradeQuiz_BodyTooLarge(t *testing.T) {
	ts := newTestSite(t)
	form := url.Values{"q2": {strings.Repeat("4", maxFormBytes+1)}}
	resp := ts.do(t, http.MethodPost, "/api/quiz", form)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", resp.StatusCode)
	}
}

func TestComments_AddAndList(t *testing.T) {
	ts := newTestSite(t)

	for _, msg := range []string{"first", "second"} {
		resp := ts.do(t, http.MethodPost, "/api/comments", url.Values{"name": {"Ada"}, "message": {msg}})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
	}

	var got commentsResponse
	decode(t, ts.do(t, http.MethodGet, "/api/comments", nil), &got)
	if len(got.Comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(got.Comments))
	}
	if got.Comments[0].Message != "second" {
		t.Errorf("Most recent comment should be first, got %q", got.Comments[0].Message)
	}
}

func TestComments_EmptyListIsArray(t *testing.T) {
	ts := newTestSite(t)
	resp := ts.do(t, http.MethodGet, "/api/comments", nil)
	var raw map[string]json.RawMessage
	decode(t, resp, &raw)
	if string(raw["comments"]) != "[]" {
		t.Errorf("Expected empty array, got %s", raw["comments"])
	}
}

func TestLogin(t *testing.T) {
	ts := newTestSite(t)

	resp := ts.do(t, http.MethodPost, "/api/login", url.Values{"username": {"teacher"}, "password": {"wrong"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", resp.StatusCode)
	}
	var failed map[string]string
	decode(t, resp, &failed)
	if failed["error"] != "Invalid credentials." {
		t.Errorf("Unexpected error %q", failed["error"])
	}

	var me map[string]string
	decode(t, ts.do(t, http.MethodGet, "/api/me", nil), &me)
	if me["role"] != "guest" {
		t.Errorf("Expected guest, got %q", me["role"])
	}

	resp = ts.do(t, http.MethodPost, "/api/login", url.Values{"username": {"teacher"}, "password": {"mechanics123"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var ok map[string]string
	decode(t, resp, &ok)
	if ok["role"] != "teacher" || ok["message"] != LoginSuccessMessage {
		t.Errorf("Unexpected login response %v", ok)
	}

	decode(t, ts.do(t, http.MethodGet, "/api/me", nil), &me)
	if me["role"] != "teacher" {
		t.Errorf("Expected teacher, got %q", me["role"])
	}
}
