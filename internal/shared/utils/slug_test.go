package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Desk Lamp", "desk-lamp"},
		{"mixed case", "VINTAGE Typewriter", "vintage-typewriter"},
		{"punctuation stripped", "Desk Lamp (LED)", "desk-lamp-led"},
		{"multiple spaces collapse", "old   wooden  chair", "old-wooden-chair"},
		{"leading and trailing junk", "  !!Lamp!!  ", "lamp"},
		{"digits survive", "iPhone 12 Pro", "iphone-12-pro"},
		{"only symbols", "!!!", ""},
		{"unicode dropped", "café au lait", "caf-au-lait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}

func TestGenerateUniqueSlug(t *testing.T) {
	pattern := regexp.MustCompile(`^lamp-[a-z0-9]{6,}$`)

	slug := GenerateUniqueSlug("Lamp")
	assert.Regexp(t, pattern, slug)
}

func TestGenerateUniqueSlugEmptyTitle(t *testing.T) {
	slug := GenerateUniqueSlug("!!!")
	assert.True(t, strings.HasPrefix(slug, "item-"), "slug %q should fall back to the item prefix", slug)
}

func TestGenerateUniqueSlugDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		slug := GenerateUniqueSlug("Same Title")
		require.False(t, seen[slug], "duplicate slug %q", slug)
		seen[slug] = true
	}
}
