package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/pipeline"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSearcher records the query and request id it was called with.
type stubSearcher struct {
	env       model.Envelope
	panicWith any
	query     string
	requestID string
	calls     int
}

func (s *stubSearcher) Run(ctx context.Context, q string) model.Envelope {
	s.calls++
	s.query = q
	s.requestID = pipeline.RequestID(ctx)
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.env
}

func successEnvelope() model.Envelope {
	return model.Envelope{
		Status:      model.StatusSuccess,
		Data:        []model.Row{{"TITLE": "Data Engineer"}},
		ParsedQuery: model.ParsedQuery{Terms: map[string][]string{"role": {"data engineer"}}},
		SQL:         "SELECT * FROM JOBLISTINGS WHERE (SEARCH_QUERY ILIKE '%data engineer%')",
	}
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body %q: %v", w.Body.String(), err)
		}
	}
	return w, body
}

func TestHealth(t *testing.T) {
	r := NewRouter(&stubSearcher{}, Options{}, discardLogger())

	w, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("got %d %v", w.Code, body)
	}
}

func TestSearch_GETSuccess(t *testing.T) {
	s := &stubSearcher{env: successEnvelope()}
	r := NewRouter(s, Options{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=data+engineer+in+Austin", nil)
	w, body := serve(t, r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if s.query != "data engineer in Austin" {
		t.Errorf("query = %q", s.query)
	}
	if body["status"] != "success" || body["sql"] == nil {
		t.Errorf("body = %v", body)
	}
	if data, ok := body["data"].([]any); !ok || len(data) != 1 {
		t.Errorf("data = %v", body["data"])
	}
}

func TestSearch_POSTSuccess(t *testing.T) {
	s := &stubSearcher{env: successEnvelope()}
	r := NewRouter(s, Options{}, discardLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/jobs", strings.NewReader(`{"query": "  devops in Denver "}`))
	req.Header.Set("Content-Type", "application/json")
	w, _ := serve(t, r, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if s.query != "devops in Denver" {
		t.Errorf("query = %q, want trimmed", s.query)
	}
}

func TestSearch_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		env        model.Envelope
		wantStatus int
	}{
		{"success", successEnvelope(), http.StatusOK},
		{"extraction failure", model.Envelope{
			Status:      model.StatusError,
			Message:     pipeline.MsgExtractionFailed,
			ParsedQuery: model.ExtractionFailure("Parsing error: x"),
			Failure:     model.FailureExtraction,
		}, http.StatusBadRequest},
		{"execution failure", model.Envelope{
			Status:  model.StatusError,
			Message: pipeline.MsgExecutionFailed,
			Failure: model.FailureExecution,
		}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(&stubSearcher{env: tt.env}, Options{}, discardLogger())
			w, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=x", nil))
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.env.Status == model.StatusError && body["message"] != tt.env.Message {
				t.Errorf("message = %v, want %q", body["message"], tt.env.Message)
			}
		})
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s := &stubSearcher{}
	r := NewRouter(s, Options{}, discardLogger())

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs", nil),
		httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=%20%20", nil),
		httptest.NewRequest(http.MethodPost, "/api/v1/search/jobs", strings.NewReader(`not json`)),
	} {
		w, body := serve(t, r, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", req.Method, req.URL, w.Code)
		}
		if body["status"] != "error" {
			t.Errorf("%s %s: body = %v", req.Method, req.URL, body)
		}
	}
	if s.calls != 0 {
		t.Errorf("searcher called %d times, want 0", s.calls)
	}
}

func TestSearch_PanicIsRedacted(t *testing.T) {
	r := NewRouter(&stubSearcher{panicWith: "db password is hunter2"}, Options{}, discardLogger())

	w, body := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=x", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body["message"] != pipeline.MsgInternal {
		t.Errorf("message = %v, want %q", body["message"], pipeline.MsgInternal)
	}
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Error("panic detail leaked into response")
	}
}

func TestSearch_BearerAuth(t *testing.T) {
	r := NewRouter(&stubSearcher{env: successEnvelope()}, Options{AuthToken: "s3cret"}, discardLogger())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, _ := serve(t, r, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	w, _ := serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200 without auth", w.Code)
	}
}

func TestRequestID_PropagatedAndGenerated(t *testing.T) {
	s := &stubSearcher{env: successEnvelope()}
	r := NewRouter(s, Options{}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=x", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w, _ := serve(t, r, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("response X-Request-ID = %q, want abc-123", got)
	}
	if s.requestID != "abc-123" {
		t.Errorf("pipeline saw request id %q, want abc-123", s.requestID)
	}

	w, _ = serve(t, r, httptest.NewRequest(http.MethodGet, "/api/v1/search/jobs?query=x", nil))
	if got := w.Header().Get("X-Request-ID"); got == "" || got != s.requestID {
		t.Errorf("generated X-Request-ID = %q, pipeline saw %q", got, s.requestID)
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := NewRouter(&stubSearcher{}, Options{CORSOrigins: []string{"http://localhost:3000"}, AuthToken: "s3cret"}, discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search/jobs", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code >= 300 {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
