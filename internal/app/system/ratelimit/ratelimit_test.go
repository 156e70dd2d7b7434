package ratelimit_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

func TestLimiter_AllowAndReset(t *testing.T) {
	l := ratelimit.New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other keys are independent")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining = %d", got)
	}
	l.Reset("a")
	if !l.Allow("a") {
		t.Fatal("reset key should pass")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 20*time.Millisecond)
	defer l.Stop()
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("should be limited inside the window")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("should pass after the window")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4321"
	if got := ratelimit.ClientIP(r); got != "10.0.0.5" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	r.Header.Set("X-Real-IP", "198.51.100.2")
	if got := ratelimit.ClientIP(r); got != "198.51.100.2" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	if got := ratelimit.ClientIP(r); got != "203.0.113.1" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Stop()

	limited := 0
	h := ratelimit.Middleware(l, "Too many login attempts, please try again later", zap.NewNop(),
		func(r *http.Request) { limited++ })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Success || body.Message != "Too many login attempts, please try again later" {
		t.Errorf("body = %+v", body)
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times", limited)
	}
}
