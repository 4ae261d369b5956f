package cli

import (
	"fmt"
	"os"

	"github.com/medichain/triage/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage - symbolic diagnostic inference over a medical knowledge base",
	Long: `Triage is a symbolic diagnostic inference pipeline: it extracts
structured symptoms from free-text descriptions, matches them against a
fact-based medical knowledge store, scores candidate conditions, assesses
urgency, produces a ranked differential diagnosis and resolves treatments
together with contraindication, drug-interaction and safety checks.

It is a preliminary assessment aid, not a diagnosis. Always consult a
licensed healthcare professional.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("triage v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.triage/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig overlays config-file and environment values onto the built-in
// defaults. Flags are applied on top by the individual commands.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("kb.backend"); v != "" {
		cfg.KB.Backend = v
	}
	if v := viper.GetString("kb.path"); v != "" {
		cfg.KB.Path = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if viper.IsSet("cache.ttl") {
		cfg.Cache.TTL = viper.GetDuration("cache.ttl")
	}
	if v := viper.GetInt("concurrency.workers"); v > 0 {
		cfg.Concurrency.Workers = v
	}
	if viper.IsSet("output.pretty") {
		cfg.Output.Pretty = viper.GetBool("output.pretty")
	}
	cfg.Output.Verbose = verbose

	return cfg
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.triage")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TRIAGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
