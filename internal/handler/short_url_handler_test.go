package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"shorturl-go/internal/dto"
	"shorturl-go/internal/middleware"
	"shorturl-go/internal/model"
	"shorturl-go/internal/service"
	"shorturl-go/internal/store"
)

func newTestRouter(urls store.URLStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	gen := service.NewGenerator(service.DefaultCodeLength)
	shortener := service.NewShortenerService(urls, gen, nil, "http://localhost:8080", 30)
	redirect := service.NewRedirectService(urls, nil, nil)
	h := NewShortURLHandler(shortener, redirect)

	r := gin.New()
	r.Use(middleware.GlobalErrorMiddleware())
	r.POST("/shorturls", h.Create)
	r.GET("/shorturls/:shortcode", h.Stats)
	r.NoRoute(h.RedirectFallback)
	return r
}

func postJSON(r *gin.Engine, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type createEnvelope struct {
	Success bool                       `json:"success"`
	Data    dto.CreateShortURLResponse `json:"data"`
}

type statsEnvelope struct {
	Success bool                      `json:"success"`
	Data    dto.ShortURLStatsResponse `json:"data"`
}

func TestCreateShortURLEndpoint(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	w := postJSON(r, "/shorturls", `{"url":"https://example.com","validity":60,"shortcode":"abc123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var env createEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
	if env.Data.ShortLink != "http://localhost:8080/abc123" {
		t.Errorf("unexpected shortLink: %s", env.Data.ShortLink)
	}
	if env.Data.Expiry == nil {
		t.Error("expected expiry in response")
	}
}

func TestCreateShortURLEndpointErrors(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"invalid url", `{"url":"not-a-url"}`, http.StatusBadRequest},
		{"missing url", `{}`, http.StatusBadRequest},
		{"negative validity", `{"url":"https://x.com","validity":-5}`, http.StatusBadRequest},
		{"non-integer validity", `{"url":"https://x.com","validity":1.5}`, http.StatusBadRequest},
		{"validity as string", `{"url":"https://x.com","validity":"30"}`, http.StatusBadRequest},
		{"bad shortcode", `{"url":"https://x.com","shortcode":"a b"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := postJSON(r, "/shorturls", tc.body)
		if w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d (%s)", tc.name, tc.want, w.Code, w.Body.String())
		}
	}
}

func TestCustomShortcodeConflictEndpoint(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	if w := postJSON(r, "/shorturls", `{"url":"https://a.com","shortcode":"abc123"}`); w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", w.Code)
	}
	if w := postJSON(r, "/shorturls", `{"url":"https://b.com","shortcode":"abc123"}`); w.Code != http.StatusConflict {
		t.Errorf("second create: expected 409, got %d", w.Code)
	}
}

func TestRedirectEndpoint(t *testing.T) {
	urls := store.NewMemoryStore()
	r := newTestRouter(urls)

	if w := postJSON(r, "/shorturls", `{"url":"https://example.com/landing","shortcode":"abc123"}`); w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.Header.Set("Referer", "https://news.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "https://example.com/landing" {
		t.Errorf("unexpected Location: %s", loc)
	}
	if cc := w.Header().Get("Cache-Control"); cc == "" {
		t.Error("expected no-cache headers on redirect")
	}

	// The click must show up in stats with the referrer as source.
	statsReq := httptest.NewRequest(http.MethodGet, "/shorturls/abc123", nil)
	statsW := httptest.NewRecorder()
	r.ServeHTTP(statsW, statsReq)
	if statsW.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", statsW.Code)
	}

	var env statsEnvelope
	if err := json.Unmarshal(statsW.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid stats body: %v", err)
	}
	if env.Data.TotalClicks != 1 || len(env.Data.Clicks) != 1 {
		t.Fatalf("expected one click, got %d", env.Data.TotalClicks)
	}
	if env.Data.Clicks[0].Source != "https://news.example" {
		t.Errorf("unexpected click source: %s", env.Data.Clicks[0].Source)
	}
}

func TestRedirectUnknownShortcode(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/zzzzzz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRedirectExpiredShortcode(t *testing.T) {
	urls := store.NewMemoryStore()
	r := newTestRouter(urls)

	past := time.Now().Add(-time.Hour)
	record := &model.ShortURL{
		Shortcode:   "gone42",
		OriginalURL: "https://example.com",
		ExpiresAt:   &past,
	}
	if err := urls.Insert(context.Background(), record); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/gone42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusGone {
		t.Errorf("expected 410, got %d", w.Code)
	}

	// Stats endpoint still serves the record.
	statsReq := httptest.NewRequest(http.MethodGet, "/shorturls/gone42", nil)
	statsW := httptest.NewRecorder()
	r.ServeHTTP(statsW, statsReq)
	if statsW.Code != http.StatusOK {
		t.Errorf("stats after expiry: expected 200, got %d", statsW.Code)
	}
}

func TestStatsUnknownShortcode(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/shorturls/zzzzzz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
