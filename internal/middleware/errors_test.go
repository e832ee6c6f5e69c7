package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/quotegate/internal/domain/dto"
)

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return body.Message
}

func TestErrorHandler(t *testing.T) {
	cases := []struct {
		name     string
		handler  gin.HandlerFunc
		wantCode int
		wantMsg  string
	}{
		{
			name:     "plain error becomes 500",
			handler:  func(c *gin.Context) { _ = c.Error(assertErr{}) },
			wantCode: http.StatusInternalServerError,
			wantMsg:  "boom",
		},
		{
			name: "status kept",
			handler: func(c *gin.Context) {
				c.Status(http.StatusNotFound)
				_ = c.Error(dto.NewErrorResponse("No splits data available", nil))
			},
			wantCode: http.StatusNotFound,
			wantMsg:  "No splits data available",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(ErrorHandler)
			r.GET("/", tc.handler)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tc.wantCode {
				t.Fatalf("code=%d", w.Code)
			}
			if msg := decodeError(t, w); msg != tc.wantMsg {
				t.Fatalf("message=%q want %q", msg, tc.wantMsg)
			}
		})
	}
}

func TestErrorHandler_AlreadyWritten(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler)
	r.GET("/", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", nil)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if msg := decodeError(t, w); msg != "invalid date format, expected YYYY-MM-DD" {
		t.Fatalf("message=%q", msg)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
	if msg := decodeError(t, w); msg != "internal server error: boom" {
		t.Fatalf("message=%q", msg)
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
	if msg := decodeError(t, w); msg != "bad stuff: boom" {
		t.Fatalf("message=%q", msg)
	}
}

func TestTimeout(t *testing.T) {
	cases := []struct {
		name        string
		d           time.Duration
		hasDeadline bool
	}{
		{"bounded", time.Second, true},
		{"disabled", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(Timeout(tc.d))
			var ctx context.Context
			r.GET("/", func(c *gin.Context) {
				ctx = c.Request.Context()
				c.Status(http.StatusNoContent)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			if _, ok := ctx.Deadline(); ok != tc.hasDeadline {
				t.Fatalf("deadline set=%v, want %v", ok, tc.hasDeadline)
			}
		})
	}
}
