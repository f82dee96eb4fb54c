package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ArtByLance/kiosk-tv/pkg/engine"
	"github.com/ArtByLance/kiosk-tv/pkg/template"
)

// homeCmd resolves what the home screen would announce right now.
var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Print the resolved home message and today's/active events",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, eventsLoader, cache := buildLoaders()
		defer cache.Close()

		eventsPayload := eventsLoader.Load(cmd.Context())

		np, err := nowParts(cmd)
		if err != nil {
			return err
		}

		msg := engine.ResolveHomeMessage(eventsPayload, np)
		msg = template.Render(msg, map[string]string{
			"dow":      np.DowLong,
			"dateLong": np.DateLong,
		})

		fmt.Printf("now: %s %s %02d:%02d (%s)\n",
			np.Dow3, np.DateLocal, np.Minutes/60, np.Minutes%60, np.Timezone)
		if msg == "" {
			fmt.Println("home message: (none)")
		} else {
			fmt.Printf("home message: %s\n", msg)
		}

		if e := engine.TodayEvent(eventsPayload, np); e != nil {
			fmt.Printf("today:  %s (priority %.0f)\n", describe(e.Title, e.Message, e.ID), e.PriorityValue())
		} else {
			fmt.Println("today:  (none)")
		}
		if e := engine.ActiveEvent(eventsPayload, np); e != nil {
			fmt.Printf("active: %s (priority %.0f)\n", describe(e.Title, e.Message, e.ID), e.PriorityValue())
		} else {
			fmt.Println("active: (none)")
		}
		return nil
	},
}

func describe(title, message, id string) string {
	if title != "" {
		return title
	}
	if message != "" {
		return message
	}
	return id
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
