package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ArtByLance/kiosk-tv/pkg/schedule"
)

// todayCmd resolves a schedule page the way the Today screen does:
// conditional rules applied, today's events injected into their buckets.
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print the fully resolved schedule for today",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageID, _ := cmd.Flags().GetString("page")

		contentLoader, eventsLoader, cache := buildLoaders()
		defer cache.Close()

		ctx := cmd.Context()
		contentPayload, err := contentLoader.Load(ctx)
		if err != nil {
			return err
		}
		eventsPayload := eventsLoader.Load(ctx)

		np, err := nowParts(cmd)
		if err != nil {
			return err
		}

		page := contentPayload.GetPage(pageID)
		if page == nil {
			return fmt.Errorf("page %q not found in content", pageID)
		}

		sections := schedule.ResolveToday(page.ScheduleDoc(), eventsPayload, np)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, sec := range sections {
			fmt.Fprintf(w, "%s\n", sec.Heading)
			if len(sec.Lines) == 0 {
				fmt.Fprintf(w, "\t—\n")
			}
			for _, ln := range sec.Lines {
				marker := " "
				if ln.Kind == "event" {
					marker = "*"
				}
				fmt.Fprintf(w, "\t%s %s\t%s\t%s\n", marker, ln.Label, ln.Time, ln.Note)
			}
		}
		return w.Flush()
	},
}

func init() {
	todayCmd.Flags().StringP("page", "p", "schedule_today", "Schedule page id to resolve")
	rootCmd.AddCommand(todayCmd)
}
