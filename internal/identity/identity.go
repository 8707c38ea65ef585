// Package identity provides anonymous per-device identity primitives.
// The device id namespaces everything a browser would otherwise keep in
// its own local storage.
package identity

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DeviceCookieName   = "mechanics_device_id"
	TabHeaderName      = "X-Mechanics-Tab-ID"
	DefaultTabIDValue  = "default"
	deviceCookieMaxAge = 180 * 24 * time.Hour
	deviceIDPrefix     = "anon_"
	tabIDQueryParam    = "tab_id"
)

type contextKey int

const (
	deviceIDKey contextKey = iota
	tabIDKey
)

var (
	deviceIDPattern = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	tabIDPattern    = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// DeviceIDFromContext extracts the device ID from the request context.
func DeviceIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(deviceIDKey).(string); ok {
		return v
	}
	return ""
}

// TabIDFromContext extracts the browser tab ID from the request context.
func TabIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tabIDKey).(string); ok {
		return v
	}
	return DefaultTabIDValue
}

// WithDevice returns a context carrying the given device and tab IDs.
func WithDevice(ctx context.Context, deviceID, tabID string) context.Context {
	ctx = context.WithValue(ctx, deviceIDKey, deviceID)
	return context.WithValue(ctx, tabIDKey, sanitizeTabID(tabID))
}

// NewDeviceID generates a fresh anonymous device ID.
func NewDeviceID() string {
	return deviceIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsValidDeviceID reports whether id has the shape issued by NewDeviceID.
func IsValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

func sanitizeTabID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !tabIDPattern.MatchString(id) {
		return DefaultTabIDValue
	}
	return id
}

func setDeviceCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(deviceCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(deviceCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func getOrCreateDeviceID(w http.ResponseWriter, r *http.Request, isDev bool) string {
	id := NewDeviceID()
	if c, err := r.Cookie(DeviceCookieName); err == nil && IsValidDeviceID(c.Value) {
		id = c.Value
	}
	setDeviceCookie(w, id, isDev)
	return id
}

func tabIDFromRequest(r *http.Request) string {
	tid := r.Header.Get(TabHeaderName)
	if tid == "" {
		tid = r.URL.Query().Get(tabIDQueryParam)
	}
	return tid
}

// Middleware injects the anonymous device identity and per-request tab ID.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deviceID := getOrCreateDeviceID(w, r, isDev)
			ctx := WithDevice(r.Context(), deviceID, tabIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
