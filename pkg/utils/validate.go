package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode"
)

var (
	customShortcodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{4,12}$`)
	lookupShortcodePattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,32}$`)
)

// ValidateCustomShortcode checks a caller-supplied shortcode against the
// alphanumeric 4-12 character policy. Generated codes (6 chars, base62)
// always satisfy it.
func ValidateCustomShortcode(shortcode string) error {
	if shortcode == "" {
		return fmt.Errorf("error.shortcode_required")
	}

	if ContainsWhitespace(shortcode) {
		return fmt.Errorf("error.shortcode_cannot_contain_spaces")
	}

	if !customShortcodePattern.MatchString(shortcode) {
		return fmt.Errorf("error.shortcode_invalid")
	}

	return nil
}

// ValidateLookupShortcode checks a shortcode taken from a request path before
// it is used for a store lookup. Looser than the creation policy so records
// created under older policies still resolve.
func ValidateLookupShortcode(shortcode string) error {
	if !lookupShortcodePattern.MatchString(shortcode) {
		return fmt.Errorf("error.shortcode_invalid")
	}
	return nil
}

// ValidateOriginalURL checks that the target is a syntactically valid
// absolute URL with a host.
func ValidateOriginalURL(originalURL string) error {
	if originalURL == "" {
		return fmt.Errorf("error.original_url_required")
	}

	if len(originalURL) > 2048 {
		return fmt.Errorf("error.original_url_max_length")
	}

	u, err := url.ParseRequestURI(originalURL)
	if err != nil {
		return fmt.Errorf("error.original_url_invalid")
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("error.original_url_invalid")
	}
	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
