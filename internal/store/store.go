package store

import (
	"context"
	"errors"

	"shorturl-go/internal/model"
)

var (
	// ErrNotFound: no record exists for the shortcode.
	ErrNotFound = errors.New("shorturl not found")
	// ErrDuplicateKey: a record with the same shortcode already exists.
	ErrDuplicateKey = errors.New("shortcode already exists")
)

// URLStore is the persistence contract for short URL records. Implementations
// must keep Insert and AppendClick atomic under concurrent callers: two
// inserts with the same shortcode never both succeed, and concurrent click
// appends on one record never lose an event. The store does not interpret
// expiry; timestamps are opaque to it.
type URLStore interface {
	// FindByShortcode returns the record with its click events in append
	// order, or ErrNotFound.
	FindByShortcode(ctx context.Context, shortcode string) (*model.ShortURL, error)

	// Insert persists a new record, or returns ErrDuplicateKey.
	Insert(ctx context.Context, record *model.ShortURL) error

	// AppendClick appends one click event to the record's log, or returns
	// ErrNotFound. Events are kept in arrival order as observed by the store.
	AppendClick(ctx context.Context, shortcode string, event model.ClickEvent) error
}
