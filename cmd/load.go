package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ArtByLance/kiosk-tv/internal/utils"
)

// loadCmd runs both loaders once and reports which tier won, which makes
// it the quickest way to diagnose a kiosk that came up on stale data.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load content and events, reporting the winning source tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		contentLoader, eventsLoader, cache := buildLoaders()
		defer cache.Close()

		ctx := cmd.Context()

		contentPayload, err := contentLoader.Load(ctx)
		if err != nil {
			for _, reason := range contentLoader.LastErrors() {
				utils.Log.Errorf("content: %s", reason)
			}
			return err
		}
		fmt.Printf("content: source=%s pages=%d home=%s\n",
			contentLoader.Source(), len(contentPayload.Pages), contentPayload.HomePageID)
		for _, reason := range contentLoader.LastErrors() {
			utils.Log.Warnf("content: %s", reason)
		}

		eventsPayload := eventsLoader.Load(ctx)
		fmt.Printf("events:  source=%s rules=%d events=%d\n",
			eventsLoader.Source(), len(eventsPayload.Rules), len(eventsPayload.Events))
		for _, reason := range eventsLoader.LastErrors() {
			utils.Log.Warnf("events: %s", reason)
		}

		if cache != nil {
			for _, key := range []string{viper.GetString("content.cache_key"), viper.GetString("events.cache_key")} {
				if stamp, ok, err := cache.UpdatedAt(ctx, key); err == nil && ok {
					fmt.Printf("cache:   %s last written %s\n", key, stamp.Format(time.RFC3339))
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
