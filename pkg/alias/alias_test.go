// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package alias_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emailkuy/emailkuy/pkg/alias"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "sales", "sales"},
		{"uppercase", "Sales", "sales"},
		{"accents", "café", "cafe"},
		{"spaces_stripped", "  my alias  ", "myalias"},
		{"dots_kept", "first.last", "first.last"},
		{"double_dots_collapsed", "first..last", "first.last"},
		{"leading_separators_trimmed", ".-_sales_-.", "sales"},
		{"symbols_dropped", "sa!le@s#", "sales"},
		{"everything_invalid", "@#$%", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, alias.Normalize(tc.input))
		})
	}
}
