package loader

import (
	"context"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ArtByLance/kiosk-tv/pkg/events"
	"github.com/ArtByLance/kiosk-tv/pkg/storage"
)

// EventsConfig is the explicit configuration threaded into an events
// loader.
type EventsConfig struct {
	RemoteURL string
	LocalPath string
	CacheKey  string
}

// EventsLoader resolves the events payload. Events are strictly
// supplementary, so Load never fails: total exhaustion resolves to the
// empty-but-valid payload.
type EventsLoader struct {
	cfg    EventsConfig
	cache  *storage.DB
	client *retryablehttp.Client
	log    Logger

	source     string
	lastErrors []string
}

// NewEventsLoader builds an events loader; cache, client and log may be
// nil.
func NewEventsLoader(cfg EventsConfig, cache *storage.DB, client *retryablehttp.Client, log Logger) *EventsLoader {
	if log == nil {
		log = nopLogger{}
	}
	return &EventsLoader{cfg: cfg, cache: cache, client: client, log: log}
}

// Source reports the winning tier of the last Load: "remote:URL",
// "cache:lastKnownGood", "local:PATH", "empty", or "unknown".
func (l *EventsLoader) Source() string {
	if l.source == "" {
		return "unknown"
	}
	return l.source
}

// LastErrors returns the per-tier failure reasons recorded by the last
// Load, in tier order.
func (l *EventsLoader) LastErrors() []string { return l.lastErrors }

// Load walks the tiers in order. The returned payload is always usable.
// As with content, the cache is written only after a remote payload
// activates.
func (l *EventsLoader) Load(ctx context.Context) *events.Payload {
	l.source = ""
	l.lastErrors = nil

	// 1) Remote
	if l.cfg.RemoteURL != "" {
		res := fetchValidated(l.cfg.RemoteURL, l.client, events.Validate)
		if res.ok() {
			if p := l.activate(res.body, "remote:"+l.cfg.RemoteURL); p != nil {
				writeCache(ctx, l.cache, l.cfg.CacheKey, res.body, l.log)
				return p
			}
		} else {
			l.fail("remote", res.reason)
		}
	}

	// 2) Last-known-good cache
	if res := readCache(ctx, l.cache, l.cfg.CacheKey); res.ok() {
		if p := l.activate(res.body, "cache:lastKnownGood"); p != nil {
			return p
		}
	} else {
		l.fail("cache", res.reason)
	}

	// 3) Bundled local copy
	if l.cfg.LocalPath != "" {
		res := readValidatedFile(l.cfg.LocalPath, events.Validate)
		if res.ok() {
			if p := l.activate(res.body, "local:"+l.cfg.LocalPath); p != nil {
				return p
			}
		} else {
			l.fail("local", res.reason)
		}
	}

	// 4) Fail-soft: the app still works without events
	l.source = "empty"
	return events.Empty()
}

func (l *EventsLoader) activate(raw []byte, source string) *events.Payload {
	p, err := events.Decode(raw)
	if err != nil {
		l.fail(source, "decode failed: "+err.Error())
		return nil
	}
	l.source = source
	l.log.Debugf("events active, source=%s rules=%d events=%d", source, len(p.Rules), len(p.Events))
	return p
}

func (l *EventsLoader) fail(tier, reason string) {
	l.lastErrors = append(l.lastErrors, tier+": "+reason)
	l.log.Warnf("events %s tier failed: %s", tier, reason)
}
