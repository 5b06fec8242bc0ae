package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOriginHost(t *testing.T) {
	assert.Equal(t, "thedevincicode.com", extractOriginHost("https://thedevincicode.com"))
	assert.Equal(t, "localhost:5173", extractOriginHost("http://localhost:5173"))
	assert.Equal(t, "thedevincicode.com", extractOriginHost("thedevincicode.com"))
}

func TestMatchOriginPattern(t *testing.T) {
	cases := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"thedevincicode.com", "thedevincicode.com", true},
		{"thedevincicode.com", "evil.com", false},
		{"*.thedevincicode.com", "www.thedevincicode.com", true},
		{"*.thedevincicode.com", "thedevincicode.com.evil.com", false},
		{"localhost:*", "localhost:5173", true},
		{"localhost:*", "localhost:3000", true},
		{"localhost:*", "evilhost:5173", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchOriginPattern(tc.pattern, tc.host),
			"pattern %q host %q", tc.pattern, tc.host)
	}
}
