// Package whttp wraps HTTP retrieval for the tiered loaders: GET with
// cache-busting and a freshness directive, retries via retryablehttp, and
// enough diagnostics to explain a failed tier (including the <title> of an
// HTML error page that arrived where JSON was expected).
package whttp

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode int
	Body       []byte
	ValidJSON  bool
	HTTPTitle  string // set when the body is an HTML document
}

// NewClient builds the retrying client the loaders hand to FetchJSON.
// Retry noise is discarded; tier failures are reported by the loader.
func NewClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = nil
	c.RetryMax = 2
	c.HTTPClient.Timeout = 15 * time.Second
	return c
}

// FetchJSON performs a cache-busted GET and reports what came back. A
// non-nil error means the request never produced a response; HTTP-level
// failures come back in the response for the caller to judge.
func FetchJSON(wReq *WHTTPReq, client *retryablehttp.Client) (*WHTTPRes, error) {
	if client == nil {
		client = NewClient()
	}

	req, err := retryablehttp.NewRequest("GET", cacheBustedURL(wReq.URL), nil)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes := &WHTTPRes{
		StatusCode: resp.StatusCode,
		Body:       bodyBytes,
		ValidJSON:  gjson.ValidBytes(bodyBytes),
	}

	if !wRes.ValidJSON {
		if title, ok := getHTMLTitle(string(bodyBytes)); ok {
			wRes.HTTPTitle = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", ""))
		}
	}
	return wRes, nil
}

// FailureReason renders a human-readable reason for a response that cannot
// be used by a loader tier, or "" when the response looks usable.
func (r *WHTTPRes) FailureReason() string {
	if r.StatusCode < 200 || r.StatusCode > 299 {
		if r.HTTPTitle != "" {
			return fmt.Sprintf("HTTP %d (%s)", r.StatusCode, r.HTTPTitle)
		}
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	}
	if !r.ValidJSON {
		if r.HTTPTitle != "" {
			return fmt.Sprintf("response is not JSON (HTML page %q)", r.HTTPTitle)
		}
		return "response is not valid JSON"
	}
	return ""
}

// cacheBustedURL appends a nonce query parameter so intermediaries cannot
// serve a stale payload.
func cacheBustedURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("_", strconv.FormatInt(time.Now().UnixNano(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(requestBody string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(requestBody))
	if err != nil {
		return "", false
	}

	return traverse(doc)
}
