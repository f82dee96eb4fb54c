package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArtByLance/kiosk-tv/pkg/content"
)

// validateCmd checks a content payload file and prints every accumulated
// violation, so authors can fix a payload in one pass.
var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a content payload file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		res := content.Validate(raw)
		if res.OK {
			fmt.Println("OK")
			return nil
		}
		for _, e := range res.Errors {
			fmt.Println(e)
		}
		return fmt.Errorf("%d validation error(s)", len(res.Errors))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
