package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	var device, tab string
	h := Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		device = DeviceIDFromContext(r.Context())
		tab = TabIDFromContext(r.Context())
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, device, tab
}

func TestNewDeviceID(t *testing.T) {
	id := NewDeviceID()
	if !IsValidDeviceID(id) {
		t.Errorf("Generated id %q is not valid", id)
	}
	if id == NewDeviceID() {
		t.Error("Expected unique ids")
	}
}

func TestMiddleware_IssuesCookie(t *testing.T) {
	w, device, tab := serve(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if !IsValidDeviceID(device) {
		t.Fatalf("Expected valid device id, got %q", device)
	}
	if tab != DefaultTabIDValue {
		t.Errorf("Expected default tab, got %q", tab)
	}
	cookie := w.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Value != device || !cookie[0].HttpOnly {
		t.Errorf("Expected HttpOnly device cookie, got %+v", cookie)
	}
}

func TestMiddleware_ReusesValidCookie(t *testing.T) {
	existing := NewDeviceID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: existing})

	_, device, _ := serve(t, req)
	if device != existing {
		t.Errorf("Expected %q, got %q", existing, device)
	}
}

func TestMiddleware_ReplacesInvalidCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookieName, Value: "anon_../../etc"})

	_, device, _ := serve(t, req)
	if !IsValidDeviceID(device) || strings.Contains(device, "..") {
		t.Errorf("Expected fresh device id, got %q", device)
	}
}

func TestMiddleware_TabID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?tab_id=query-tab", nil)
	_, _, tab := serve(t, req)
	if tab != "query-tab" {
		t.Errorf("Expected query tab id, got %q", tab)
	}

	req = httptest.NewRequest(http.MethodGet, "/?tab_id=query-tab", nil)
	req.Header.Set(TabHeaderName, "header-tab")
	_, _, tab = serve(t, req)
	if tab != "header-tab" {
		t.Errorf("Header should win, got %q", tab)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TabHeaderName, "bad tab id!")
	_, _, tab = serve(t, req)
	if tab != DefaultTabIDValue {
		t.Errorf("Invalid tab id should fall back to default, got %q", tab)
	}
}

func TestFromContext_Empty(t *testing.T) {
	ctx := context.Background()
	if DeviceIDFromContext(ctx) != "" {
		t.Error("Expected empty device id")
	}
	if TabIDFromContext(ctx) != DefaultTabIDValue {
		t.Error("Expected default tab id")
	}
}
