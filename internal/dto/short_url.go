package dto

import (
	"time"

	"shorturl-go/internal/model"
)

// CreateShortURLRequest is the typed body of POST /shorturls. Validity is a
// pointer so "omitted" (apply the configured default) is distinguishable from
// zero (rejected). URL and shortcode get their field-level validation in the
// shortening service so each failure maps to its own error kind.
type CreateShortURLRequest struct {
	URL       string `json:"url" binding:"required" msg:"url must be a valid absolute URL"`
	Validity  *int   `json:"validity" binding:"omitempty" msg:"validity must be a positive number of minutes"`
	Shortcode string `json:"shortcode" binding:"omitempty,max=32" msg:"shortcode must be 4-12 alphanumeric characters"`
}

// CreateShortURLResponse carries the public redirect link and its expiry.
type CreateShortURLResponse struct {
	ShortLink string     `json:"shortLink"`
	Expiry    *time.Time `json:"expiry"`
}

type ClickResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
}

// ShortURLStatsResponse is the body of GET /shorturls/:shortcode.
type ShortURLStatsResponse struct {
	OriginalURL string          `json:"originalUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
	TotalClicks int             `json:"totalClicks"`
	Clicks      []ClickResponse `json:"clicks"`
}

// StatsFromRecord maps a store record onto the stats response, preserving
// click order.
func StatsFromRecord(record *model.ShortURL) *ShortURLStatsResponse {
	clicks := make([]ClickResponse, 0, len(record.Clicks))
	for _, c := range record.Clicks {
		clicks = append(clicks, ClickResponse{
			Timestamp: c.Timestamp,
			Source:    c.Source,
			Location:  c.Location,
		})
	}
	return &ShortURLStatsResponse{
		OriginalURL: record.OriginalURL,
		CreatedAt:   record.CreatedAt,
		ExpiresAt:   record.ExpiresAt,
		TotalClicks: len(clicks),
		Clicks:      clicks,
	}
}
