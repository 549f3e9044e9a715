package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/apperrors"
	"shorturl-go/internal/dto"
	"shorturl-go/internal/model"
	"shorturl-go/internal/remotelog"
	"shorturl-go/internal/store"
	"shorturl-go/pkg/utils"
)

// MaxValidityMinutes caps requested validity at one year.
const MaxValidityMinutes = 525600

// ShortenerService validates creation requests, reserves a unique shortcode
// and persists the record. All validation happens before any store mutation.
type ShortenerService struct {
	urls            store.URLStore
	gen             *Generator
	rlog            *remotelog.Client
	baseURL         string
	defaultValidity time.Duration
	now             func() time.Time
}

func NewShortenerService(urls store.URLStore, gen *Generator, rlog *remotelog.Client, baseURL string, defaultValidityMinutes int) *ShortenerService {
	if defaultValidityMinutes <= 0 {
		defaultValidityMinutes = 30
	}
	return &ShortenerService{
		urls:            urls,
		gen:             gen,
		rlog:            rlog,
		baseURL:         strings.TrimRight(baseURL, "/"),
		defaultValidity: time.Duration(defaultValidityMinutes) * time.Minute,
		now:             time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ShortenerService) WithClock(now func() time.Time) *ShortenerService {
	s.now = now
	return s
}

// CreateShortURL reserves a shortcode for the original URL and returns the
// public redirect link together with the expiry timestamp.
func (s *ShortenerService) CreateShortURL(ctx context.Context, req dto.CreateShortURLRequest) (*dto.CreateShortURLResponse, error) {
	if err := utils.ValidateOriginalURL(req.URL); err != nil {
		return nil, apperrors.InvalidURLError()
	}

	validity := s.defaultValidity
	if req.Validity != nil {
		v := *req.Validity
		if v <= 0 || v > MaxValidityMinutes {
			return nil, apperrors.InvalidValidityError()
		}
		validity = time.Duration(v) * time.Minute
	}

	shortcode := req.Shortcode
	if shortcode != "" {
		if err := utils.ValidateCustomShortcode(shortcode); err != nil {
			return nil, apperrors.InvalidShortcodeError()
		}
	} else {
		code, err := s.gen.Unique(ctx, s.urls)
		if err != nil {
			zap.L().Error("Shortcode generation failed", zap.Error(err))
			return nil, apperrors.StoreUnavailableError(err)
		}
		shortcode = code
	}

	now := s.now()
	expiresAt := now.Add(validity)
	record := &model.ShortURL{
		Shortcode:   shortcode,
		OriginalURL: req.URL,
		ExpiresAt:   &expiresAt,
	}
	record.CreatedAt = now

	if err := s.urls.Insert(ctx, record); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			// Custom codes are checked only here, at insert time, so a race
			// between two creations of the same code loses cleanly.
			return nil, apperrors.ShortcodeTakenError()
		}
		zap.L().Error("Short URL insert failed",
			zap.String("shortcode", shortcode),
			zap.Error(err))
		return nil, apperrors.StoreUnavailableError(err)
	}

	s.rlog.Log("backend", "info", "service",
		fmt.Sprintf("short url created: %s -> %s", shortcode, req.URL))

	return &dto.CreateShortURLResponse{
		ShortLink: s.baseURL + "/" + shortcode,
		Expiry:    &expiresAt,
	}, nil
}
