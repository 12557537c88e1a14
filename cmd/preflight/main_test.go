package main

import "testing"

func TestIsHTTPURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"http://a.test/path?q=1", true},
		{"example.com", false},
		{"ftp://x", false},
		{"https://", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isHTTPURL(c.in); got != c.want {
			t.Fatalf("isHTTPURL(%q)=%v want %v", c.in, got, c.want)
		}
	}
}
