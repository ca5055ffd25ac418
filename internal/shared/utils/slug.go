package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugMultiHyphen  = regexp.MustCompile(`-+`)

	// suffix space: 36^6 random values, rendered base36
	slugSuffixSpace = new(big.Int).Exp(big.NewInt(36), big.NewInt(6), nil)
)

// GenerateSlug converts a title into a URL-safe lowercase slug.
// "Desk Lamp (LED)" -> "desk-lamp-led"
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)

	hyphenated := strings.ReplaceAll(lower, " ", "-")

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	normalized := slugMultiHyphen.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// GenerateUniqueSlug appends a random base36 suffix so that items with the
// same title get distinct slugs. Uniqueness is still enforced by the
// database; callers retry with a fresh suffix on conflict.
func GenerateUniqueSlug(title string) string {
	base := GenerateSlug(title)
	if base == "" {
		base = "item"
	}
	return base + "-" + randomSuffix()
}

func randomSuffix() string {
	n, err := rand.Int(rand.Reader, slugSuffixSpace)
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return strconv.FormatInt(slugSuffixSpace.Int64()-1, 36)
	}

	suffix := n.Text(36)
	if len(suffix) < 6 {
		suffix = strings.Repeat("0", 6-len(suffix)) + suffix
	}
	return suffix
}
