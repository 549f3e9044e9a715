package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/store"
)

func newTestShortener(s store.URLStore) *ShortenerService {
	return NewShortenerService(s, NewGenerator(DefaultCodeLength), nil, "http://localhost:8080/", 30)
}

func appErrorCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

func intPtr(v int) *int { return &v }

func TestCreateShortURLRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	svc := newTestShortener(s)

	resp, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
		URL: "https://example.com/some/long/path?q=1",
	})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}

	if !strings.HasPrefix(resp.ShortLink, "http://localhost:8080/") {
		t.Errorf("unexpected short link: %s", resp.ShortLink)
	}
	shortcode := strings.TrimPrefix(resp.ShortLink, "http://localhost:8080/")
	if len(shortcode) != DefaultCodeLength {
		t.Errorf("unexpected shortcode %q", shortcode)
	}

	redirectSvc := NewRedirectService(s, nil, nil)
	originalURL, err := redirectSvc.Resolve(context.Background(), shortcode, "", "")
	if err != nil {
		t.Fatalf("Resolve after create failed: %v", err)
	}
	if originalURL != "https://example.com/some/long/path?q=1" {
		t.Errorf("round trip mismatch: %s", originalURL)
	}
}

func TestCreateShortURLDefaultValidity(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestShortener(s).WithClock(func() time.Time { return now })

	resp, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
		URL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}

	wantExpiry := now.Add(30 * time.Minute)
	if resp.Expiry == nil || !resp.Expiry.Equal(wantExpiry) {
		t.Errorf("expected default expiry %v, got %v", wantExpiry, resp.Expiry)
	}
}

func TestCreateShortURLExplicitValidity(t *testing.T) {
	s := store.NewMemoryStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestShortener(s).WithClock(func() time.Time { return now })

	resp, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
		URL:      "https://example.com",
		Validity: intPtr(90),
	})
	if err != nil {
		t.Fatalf("CreateShortURL failed: %v", err)
	}

	wantExpiry := now.Add(90 * time.Minute)
	if resp.Expiry == nil || !resp.Expiry.Equal(wantExpiry) {
		t.Errorf("expected expiry %v, got %v", wantExpiry, resp.Expiry)
	}
}

func TestCreateShortURLInvalidURL(t *testing.T) {
	svc := newTestShortener(store.NewMemoryStore())

	cases := []string{
		"not-a-url",
		"",
		"/relative/path",
		"http://",
	}
	for _, input := range cases {
		_, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{URL: input})
		if err == nil {
			t.Errorf("expected error for %q", input)
			continue
		}
		if code := appErrorCode(t, err); code != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", input, code)
		}
	}
}

func TestCreateShortURLInvalidValidity(t *testing.T) {
	svc := newTestShortener(store.NewMemoryStore())

	for _, v := range []int{-5, 0, MaxValidityMinutes + 1} {
		_, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
			URL:      "https://x.com",
			Validity: intPtr(v),
		})
		if err == nil {
			t.Errorf("expected error for validity %d", v)
			continue
		}
		if code := appErrorCode(t, err); code != http.StatusBadRequest {
			t.Errorf("validity %d: expected 400, got %d", v, code)
		}
	}
}

func TestCreateShortURLCustomShortcode(t *testing.T) {
	s := store.NewMemoryStore()
	svc := newTestShortener(s)

	resp, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
		URL:       "https://example.com",
		Shortcode: "abc123",
	})
	if err != nil {
		t.Fatalf("CreateShortURL with custom shortcode failed: %v", err)
	}
	if resp.ShortLink != "http://localhost:8080/abc123" {
		t.Errorf("unexpected short link: %s", resp.ShortLink)
	}

	// Same custom shortcode again must be rejected with a conflict.
	_, err = svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
		URL:       "https://another.com",
		Shortcode: "abc123",
	})
	if err == nil {
		t.Fatal("expected ShortcodeTaken error")
	}
	if code := appErrorCode(t, err); code != http.StatusConflict {
		t.Errorf("expected 409, got %d", code)
	}
}

func TestCreateShortURLCustomShortcodePolicy(t *testing.T) {
	svc := newTestShortener(store.NewMemoryStore())

	cases := []string{
		"abc",            // too short
		"abcdefghijklm",  // too long
		"has space",      // whitespace
		"under_score",    // outside alphabet
		"dash-ed",        // outside alphabet
	}
	for _, code := range cases {
		_, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
			URL:       "https://example.com",
			Shortcode: code,
		})
		if err == nil {
			t.Errorf("expected policy rejection for %q", code)
			continue
		}
		if got := appErrorCode(t, err); got != http.StatusBadRequest {
			t.Errorf("%q: expected 400, got %d", code, got)
		}
	}
}

func TestCreateShortURLUniqueCodes(t *testing.T) {
	s := store.NewMemoryStore()
	svc := newTestShortener(s)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		resp, err := svc.CreateShortURL(context.Background(), dto.CreateShortURLRequest{
			URL: "https://example.com",
		})
		if err != nil {
			t.Fatalf("CreateShortURL %d failed: %v", i, err)
		}
		code := strings.TrimPrefix(resp.ShortLink, "http://localhost:8080/")
		if seen[code] {
			t.Fatalf("duplicate shortcode generated: %s", code)
		}
		seen[code] = true
	}
}
