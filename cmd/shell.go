package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ArtByLance/kiosk-tv/internal/utils"
	"github.com/ArtByLance/kiosk-tv/pkg/clock"
	"github.com/ArtByLance/kiosk-tv/pkg/loader"
	"github.com/ArtByLance/kiosk-tv/pkg/storage"
	"github.com/ArtByLance/kiosk-tv/pkg/whttp"
)

// buildLoaders assembles both loaders from viper config. The library never
// reads config ambiently; everything is threaded in here, explicitly.
func buildLoaders() (*loader.ContentLoader, *loader.EventsLoader, *storage.DB) {
	var cache *storage.DB
	if dbPath := viper.GetString("cache.db_path"); dbPath != "" {
		var err error
		cache, err = storage.Open(dbPath)
		if err != nil {
			utils.Log.Warnf("Cache unavailable (%v); continuing without it.", err)
			cache = nil
		}
	}

	client := whttp.NewClient()

	contentLoader := loader.NewContentLoader(loader.ContentConfig{
		RemoteURL:        viper.GetString("content.remote_url"),
		LocalPath:        viper.GetString("content.local_path"),
		EmbeddedPath:     viper.GetString("content.embedded_path"),
		EmbeddedScriptID: viper.GetString("content.embedded_script_id"),
		CacheKey:         viper.GetString("content.cache_key"),
	}, cache, client, utils.Log)

	eventsLoader := loader.NewEventsLoader(loader.EventsConfig{
		RemoteURL: viper.GetString("events.remote_url"),
		LocalPath: viper.GetString("events.local_path"),
		CacheKey:  viper.GetString("events.cache_key"),
	}, cache, client, utils.Log)

	return contentLoader, eventsLoader, cache
}

// buildClock returns the configured-zone clock.
func buildClock() (*clock.Clock, error) {
	return clock.New(viper.GetString("timezone"))
}

// nowParts samples the clock, honoring the global --at override.
func nowParts(cmd *cobra.Command) (clock.NowParts, error) {
	c, err := buildClock()
	if err != nil {
		return clock.NowParts{}, err
	}
	at, _ := cmd.Flags().GetString("at")
	if at == "" {
		return c.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return clock.NowParts{}, fmt.Errorf("invalid --at instant: %w", err)
	}
	return c.Parts(t), nil
}
