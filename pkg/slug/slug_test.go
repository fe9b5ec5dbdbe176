// Copyright (c) 2026 Bookly. All rights reserved.
// Author: hai.dangngoc.vn@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danghai/bookly/pkg/slug"
)

/*
TestFrom verifies the transformation pipeline: accent removal, lowercasing,
hyphenation, and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "Deep Work", "deep-work"},
		{"already_slug", "deep-work", "deep-work"},
		{"accents_stripped", "Café Métro", "cafe-metro"},
		{"punctuation_hyphenated", "C# in Depth!", "c-in-depth"},
		{"multiple_spaces_collapsed", "Deep    Work", "deep-work"},
		{"leading_trailing_trimmed", "  Deep Work  ", "deep-work"},
		{"digits_kept", "Catch 22", "catch-22"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
