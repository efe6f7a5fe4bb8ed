// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

// Package alias normalizes operator-supplied alias parts into the local part
// of a routing address.
//
// # Usage
//
// The alias part is what appears left of the @ in a forwarding address
// (e.g., "sales" in "sales@example.com"). This package handles Unicode
// normalization, accent removal, and character sanitization so that the
// address sent to Cloudflare is always RFC-safe ASCII.
package alias

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// disallowed matches any character outside the safe local-part alphabet.
	disallowed = regexp.MustCompile(`[^a-z0-9._-]+`)
	// multiDot collapses consecutive dots, which are invalid in a local part.
	multiDot = regexp.MustCompile(`\.{2,}`)
)

// Normalize converts an arbitrary Unicode string into a safe address local part.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Strips everything outside [a-z0-9._-].
// 5. Collapses consecutive dots and trims leading/trailing separators.
//
// The result may be empty; callers must reject empty aliases.
func Normalize(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	// 2. Lowercase and drop unsafe characters
	result = strings.ToLower(strings.TrimSpace(result))
	result = disallowed.ReplaceAllString(result, "")

	// 3. Clean up separators
	result = multiDot.ReplaceAllString(result, ".")
	result = strings.Trim(result, "._-")

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
