package whttp

import (
	"net/url"
	"testing"
)

func TestFailureReason(t *testing.T) {
	cases := []struct {
		name string
		res  WHTTPRes
		want string
	}{
		{"usable json", WHTTPRes{StatusCode: 200, ValidJSON: true}, ""},
		{"http error", WHTTPRes{StatusCode: 404}, "HTTP 404"},
		{"http error with title", WHTTPRes{StatusCode: 503, HTTPTitle: "Maintenance"}, "HTTP 503 (Maintenance)"},
		{"redirect class", WHTTPRes{StatusCode: 301, ValidJSON: true}, "HTTP 301"},
		{"ok but html", WHTTPRes{StatusCode: 200, HTTPTitle: "Sign in"}, `response is not JSON (HTML page "Sign in")`},
		{"ok but not json", WHTTPRes{StatusCode: 200}, "response is not valid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.res.FailureReason(); got != tc.want {
				t.Fatalf("FailureReason() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCacheBustedURL(t *testing.T) {
	busted := cacheBustedURL("https://example.com/content.json?v=2")
	u, err := url.Parse(busted)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "example.com" || u.Path != "/content.json" {
		t.Fatalf("URL mangled: %q", busted)
	}
	q := u.Query()
	if q.Get("_") == "" {
		t.Fatalf("nonce parameter missing: %q", busted)
	}
	if q.Get("v") != "2" {
		t.Fatalf("existing query dropped: %q", busted)
	}
}

func TestCacheBustedURLUnparsable(t *testing.T) {
	raw := "http://%zz"
	if got := cacheBustedURL(raw); got != raw {
		t.Fatalf("unparsable URL not passed through: %q", got)
	}
}

func TestGetHTMLTitle(t *testing.T) {
	title, ok := getHTMLTitle(`<html><head><title>Service Down</title></head><body></body></html>`)
	if !ok || title != "Service Down" {
		t.Fatalf("getHTMLTitle = %q, %v", title, ok)
	}
	if title, ok := getHTMLTitle(`<html><head></head><body>no title here</body></html>`); ok {
		t.Fatalf("expected no title, got %q", title)
	}
}
