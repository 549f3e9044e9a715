package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/cache"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/model"
	"shorturl-go/internal/remotelog"
	"shorturl-go/internal/store"
	"shorturl-go/pkg/utils"
)

const unknownValue = "Unknown"

// RedirectService resolves shortcodes for redirects, enforces expiry and
// records click analytics. The redis cache and remote logger are optional
// (nil disables them).
type RedirectService struct {
	urls  store.URLStore
	cache *cache.Cache
	rlog  *remotelog.Client
	now   func() time.Time
}

func NewRedirectService(urls store.URLStore, c *cache.Cache, rlog *remotelog.Client) *RedirectService {
	return &RedirectService{
		urls:  urls,
		cache: c,
		rlog:  rlog,
		now:   time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *RedirectService) WithClock(now func() time.Time) *RedirectService {
	s.now = now
	return s
}

// Resolve maps a shortcode to its original URL and appends one click event.
// Expired links fail with a distinct error so the boundary can answer 410.
// Click recording is non-fatal: a failed append is logged and the redirect
// still succeeds.
func (s *RedirectService) Resolve(ctx context.Context, shortcode, source, ip string) (string, error) {
	if err := utils.ValidateLookupShortcode(shortcode); err != nil {
		return "", apperrors.NotFoundError()
	}

	record, hit := s.cache.GetRecord(shortcode)
	if hit && record == nil {
		return "", apperrors.NotFoundError()
	}
	if !hit {
		found, err := s.urls.FindByShortcode(ctx, shortcode)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.cache.SetMissing(shortcode)
				return "", apperrors.NotFoundError()
			}
			zap.L().Error("Short URL lookup failed",
				zap.String("shortcode", shortcode),
				zap.Error(err))
			return "", apperrors.StoreUnavailableError(err)
		}
		record = found
		s.cache.SetRecord(shortcode, record)
	}

	now := s.now()
	if record.Expired(now) {
		return "", apperrors.ExpiredError()
	}

	event := model.ClickEvent{
		Timestamp: now,
		Source:    orUnknown(source),
		Location:  locationFromIP(ip),
	}
	if err := s.urls.AppendClick(ctx, shortcode, event); err != nil {
		zap.L().Warn("Click append failed",
			zap.String("shortcode", shortcode),
			zap.Error(err))
		s.rlog.Log("backend", "warn", "service",
			fmt.Sprintf("click append failed for %s: %v", shortcode, err))
	}
	s.cache.RecordClick(shortcode, ip)

	return record.OriginalURL, nil
}

// GetStats returns the full record with its ordered click log. No expiry
// check: statistics stay readable after the link stops redirecting. Always
// reads the store so the click list is fresh.
func (s *RedirectService) GetStats(ctx context.Context, shortcode string) (*dto.ShortURLStatsResponse, error) {
	if err := utils.ValidateLookupShortcode(shortcode); err != nil {
		return nil, apperrors.NotFoundError()
	}

	record, err := s.urls.FindByShortcode(ctx, shortcode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFoundError()
		}
		zap.L().Error("Short URL stats lookup failed",
			zap.String("shortcode", shortcode),
			zap.Error(err))
		return nil, apperrors.StoreUnavailableError(err)
	}

	return dto.StatsFromRecord(record), nil
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

// locationFromIP derives a best-effort location label from the client IP.
func locationFromIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return unknownValue
	}
	if parsed.IsLoopback() {
		return "Localhost"
	}
	if parsed.IsPrivate() {
		return "Private network"
	}
	return ip
}
