// internal/cli/root.go
// Package cli wires the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

const version = "0.3.0"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "communityscraper",
	Short: "Scrape community websites into the content platform",
	Long: `communityscraper collects business listings, news articles and event
calendars from configured municipal and community websites, normalizes
them into platform records and reconciles them with the content store.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("communityscraper v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./communityscraper.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}

// initConfig locates the config file and reads matching environment
// variables (COMMUNITYSCRAPER_*).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.communityscraper")
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("communityscraper")
	}

	viper.SetEnvPrefix("COMMUNITYSCRAPER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}

	if verbose {
		utils.SetDefaultLevel(utils.DebugLevel)
	}
}

// loadConfig parses the located config file and applies env overrides for
// the settings that commonly differ between environments.
func loadConfig() (*config.Config, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return nil, fmt.Errorf("no config file found (use --config or place communityscraper.yaml in the working directory)")
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	if uri := viper.GetString("storage_uri"); uri != "" {
		cfg.Storage.URI = uri
	}
	if db := viper.GetString("storage_database"); db != "" {
		cfg.Storage.Database = db
	}
	return cfg, nil
}
