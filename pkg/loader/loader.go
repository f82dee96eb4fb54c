// Package loader resolves the content and events payloads from an ordered
// list of unreliable sources: remote URL, last-known-good cache, bundled
// local copy, payload embedded in the hosting document, empty default.
// Tiers are attempted strictly in order and the first success wins; every
// failure is captured as a reason string, never thrown across a tier.
package loader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ArtByLance/kiosk-tv/pkg/content"
	"github.com/ArtByLance/kiosk-tv/pkg/storage"
	"github.com/ArtByLance/kiosk-tv/pkg/whttp"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// tierResult is the outcome of one source attempt. Exactly one of body or
// reason is meaningful: an empty reason means the tier produced usable raw
// bytes.
type tierResult struct {
	body   []byte
	reason string
}

func (r tierResult) ok() bool { return r.reason == "" }

func tierOK(body []byte) tierResult     { return tierResult{body: body} }
func tierFail(reason string) tierResult { return tierResult{reason: reason} }
func tierFailf(f string, a ...interface{}) tierResult {
	return tierResult{reason: fmt.Sprintf(f, a...)}
}

// validator checks raw candidate bytes for one payload kind; a non-empty
// slice fails the tier with the accumulated reasons.
type validator func(raw []byte) []string

// fetchValidated runs the fetch-and-validate procedure shared by the
// remote and local tiers.
func fetchValidated(url string, client *retryablehttp.Client, validate validator) tierResult {
	res, err := whttp.FetchJSON(&whttp.WHTTPReq{URL: url}, client)
	if err != nil {
		return tierFail(err.Error())
	}
	if reason := res.FailureReason(); reason != "" {
		return tierFail(reason)
	}
	if errs := validate(res.Body); len(errs) > 0 {
		return tierFail("validation failed: " + strings.Join(errs, " | "))
	}
	return tierOK(res.Body)
}

// readValidatedFile is the local-tier analogue of fetchValidated.
func readValidatedFile(path string, validate validator) tierResult {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tierFail(err.Error())
	}
	if errs := validate(raw); len(errs) > 0 {
		return tierFail("validation failed: " + strings.Join(errs, " | "))
	}
	return tierOK(raw)
}

// readCache pulls the last-known-good slot. Cached payloads were validated
// when written, so this tier skips validation.
func readCache(ctx context.Context, cache *storage.DB, key string) tierResult {
	if cache == nil || key == "" {
		return tierFail("no cache configured")
	}
	body, err := cache.Get(ctx, key)
	if err != nil {
		return tierFailf("cache read failed: %v", err)
	}
	if body == nil {
		return tierFail("cache is empty")
	}
	return tierOK(body)
}

// writeCache persists a freshly validated remote payload. Write failures
// are logged and swallowed, leaving the previous entry intact.
func writeCache(ctx context.Context, cache *storage.DB, key string, body []byte, log Logger) {
	if cache == nil || key == "" {
		return
	}
	if err := cache.Put(ctx, key, body); err != nil {
		log.Warnf("cache write for %q failed: %v", key, err)
	}
}

func contentValidator(raw []byte) []string {
	return content.Validate(raw).Errors
}
