package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"shorturl-go/internal/store"
)

// Alphabet is the shortcode symbol set: 62 characters, ~5.7e10 combinations
// at the default length.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	DefaultCodeLength = 6

	// Collisions are close to impossible at sane record counts, so a handful
	// of attempts per length is plenty. The escalation to a longer code gives
	// a hard failure mode instead of spinning when the store misbehaves.
	attemptsPerLength = 5
	lengthRounds      = 2
	escalationStep    = 2
)

// ErrCodeSpaceExhausted is returned when no free shortcode was found even
// after escalating the code length.
var ErrCodeSpaceExhausted = errors.New("shortcode space exhausted")

// Generator produces random fixed-length shortcodes. It holds no mutable
// state; uniqueness checks go through the store.
type Generator struct {
	length int
}

func NewGenerator(length int) *Generator {
	if length < 1 {
		length = DefaultCodeLength
	}
	return &Generator{length: length}
}

// Generate returns one random code of the configured length.
func (g *Generator) Generate() (string, error) {
	return randomCode(g.length)
}

// Unique returns a code that does not exist in the store yet. Retries are
// bounded: attemptsPerLength tries at the configured length, then again at
// an escalated length, then ErrCodeSpaceExhausted.
func (g *Generator) Unique(ctx context.Context, urls store.URLStore) (string, error) {
	length := g.length
	for round := 0; round < lengthRounds; round++ {
		for attempt := 0; attempt < attemptsPerLength; attempt++ {
			code, err := randomCode(length)
			if err != nil {
				return "", err
			}

			_, err = urls.FindByShortcode(ctx, code)
			if errors.Is(err, store.ErrNotFound) {
				return code, nil
			}
			if err != nil {
				return "", fmt.Errorf("shortcode existence check: %w", err)
			}
			// Taken, try again.
		}
		length += escalationStep
	}
	return "", ErrCodeSpaceExhausted
}

func randomCode(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = Alphabet[n.Int64()]
	}
	return string(out), nil
}
