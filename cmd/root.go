package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ArtByLance/kiosk-tv/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kiosk-tv",
	Short: "Application shell for the kiosk content core.",
	Long: `kiosk-tv loads the kiosk's content and events payloads through the
tiered fallback chain (remote, last-known-good cache, local copy, embedded)
and resolves the time-based schedule and home message for the current moment.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kiosk-tv.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().StringP("at", "", "", "Evaluate at this RFC3339 instant instead of now")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".kiosk-tv")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.kiosk-tv.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("timezone", "America/New_York")
	viper.SetDefault("cache.db_path", "kiosk-tv.sqlite")
	viper.SetDefault("content.remote_url", "")
	viper.SetDefault("content.local_path", "content.local.json")
	viper.SetDefault("content.embedded_path", "")
	viper.SetDefault("content.embedded_script_id", "embedded-content")
	viper.SetDefault("content.cache_key", "kiosk.content.lastKnownGood")
	viper.SetDefault("events.remote_url", "")
	viper.SetDefault("events.local_path", "data/events.json")
	viper.SetDefault("events.cache_key", "kiosk.events.lastKnownGood")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
