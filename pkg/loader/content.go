package loader

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ArtByLance/kiosk-tv/pkg/content"
	"github.com/ArtByLance/kiosk-tv/pkg/storage"
)

// ContentConfig is the explicit configuration threaded into a content
// loader; there is no ambient settings lookup inside the package.
type ContentConfig struct {
	RemoteURL        string // optional remote source
	LocalPath        string // bundled fallback copy
	EmbeddedPath     string // hosting HTML document carrying the embedded payload
	EmbeddedScriptID string // defaults to "embedded-content"
	CacheKey         string // last-known-good slot name
}

// ContentLoader resolves the content payload. Unlike the events loader it
// cannot fall back to an empty default: a kiosk with no content cannot
// render anything, so total exhaustion surfaces as an error.
type ContentLoader struct {
	cfg    ContentConfig
	cache  *storage.DB
	client *retryablehttp.Client
	log    Logger

	source     string
	lastErrors []string
}

// NewContentLoader builds a content loader. cache, client and log may be
// nil; missing pieces simply disable their tier or default.
func NewContentLoader(cfg ContentConfig, cache *storage.DB, client *retryablehttp.Client, log Logger) *ContentLoader {
	if cfg.EmbeddedScriptID == "" {
		cfg.EmbeddedScriptID = "embedded-content"
	}
	if log == nil {
		log = nopLogger{}
	}
	return &ContentLoader{cfg: cfg, cache: cache, client: client, log: log}
}

// Source reports the winning tier of the last Load: "remote:URL",
// "cache:lastKnownGood", "local:PATH", "embedded", or "unknown".
func (l *ContentLoader) Source() string {
	if l.source == "" {
		return "unknown"
	}
	return l.source
}

// LastErrors returns the per-tier failure reasons recorded by the last
// Load, in tier order.
func (l *ContentLoader) LastErrors() []string { return l.lastErrors }

// Load walks the tiers in order and activates the first usable payload.
// A remote payload is written through to the cache only once it has
// activated, so a payload the decoder rejects can never displace the
// last known good entry.
func (l *ContentLoader) Load(ctx context.Context) (*content.Payload, error) {
	l.source = ""
	l.lastErrors = nil

	// 1) Remote
	if l.cfg.RemoteURL != "" {
		res := fetchValidated(l.cfg.RemoteURL, l.client, contentValidator)
		if res.ok() {
			if p := l.activate(res.body, "remote:"+l.cfg.RemoteURL); p != nil {
				writeCache(ctx, l.cache, l.cfg.CacheKey, res.body, l.log)
				return p, nil
			}
		} else {
			l.fail("remote", res.reason)
		}
	}

	// 2) Last-known-good cache (validated when written)
	if res := readCache(ctx, l.cache, l.cfg.CacheKey); res.ok() {
		if p := l.activate(res.body, "cache:lastKnownGood"); p != nil {
			return p, nil
		}
	} else {
		l.fail("cache", res.reason)
	}

	// 3) Bundled local copy
	if l.cfg.LocalPath != "" {
		res := readValidatedFile(l.cfg.LocalPath, contentValidator)
		if res.ok() {
			if p := l.activate(res.body, "local:"+l.cfg.LocalPath); p != nil {
				return p, nil
			}
		} else {
			l.fail("local", res.reason)
		}
	}

	// 4) Payload embedded in the hosting document (works with no network
	// stack at all)
	if l.cfg.EmbeddedPath != "" {
		res := readEmbedded(l.cfg.EmbeddedPath, l.cfg.EmbeddedScriptID, contentValidator)
		if res.ok() {
			if p := l.activate(res.body, "embedded"); p != nil {
				return p, nil
			}
		} else {
			l.fail("embedded", res.reason)
		}
	}

	return nil, fmt.Errorf("unable to load content: %s", joinReasons(l.lastErrors))
}

// activate decodes the raw payload, prunes _disabled pages and records the
// winning tier. A decode failure fails the tier like any other reason and
// returns nil so the caller moves on.
func (l *ContentLoader) activate(raw []byte, source string) *content.Payload {
	p, err := content.Decode(raw)
	if err != nil {
		l.fail(source, "decode failed: "+err.Error())
		return nil
	}
	p.PruneDisabled()
	l.source = source
	l.log.Debugf("content active, source=%s pages=%d", source, len(p.Pages))
	return p
}

func (l *ContentLoader) fail(tier, reason string) {
	l.lastErrors = append(l.lastErrors, tier+": "+reason)
	l.log.Warnf("content %s tier failed: %s", tier, reason)
}

func joinReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "no sources configured"
	}
	out := reasons[0]
	for _, r := range reasons[1:] {
		out += "; " + r
	}
	return out
}
