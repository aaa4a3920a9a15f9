package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/advait-mulye/medner/internal/logger"
)

// Version is overridden at build time with -ldflags
var Version = "v0.3.0"

var (
	cfgFile   string
	verbose   bool
	strict    bool
	configErr error
)

var log = logger.Get()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "medner",
	Short: "medner - medical named entity recognition client",
	Long: `medner sends clinical text to a medical NER service and presents what
it finds: a per-type summary, the list of detected entities with their
positions, and the text with every entity highlighted.

Recognition itself happens in the service. medner collects the text,
validates it, calls POST {base_url}/analyze and renders the response
on the command line, in a browser (medner serve) or in a terminal UI
(medner tui).`,
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
		fmt.Fprintf(cmd.OutOrStdout(), "medner %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.medner/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "require 10 to 10000 characters of input")
	rootCmd.PersistentFlags().String("base-url", "", "analysis service base URL")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")

	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and MEDNER_* variables
func initConfig() {
	loadDotEnv()
	registerDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warnf("cannot find home directory: %v", err)
		} else {
			viper.AddConfigPath(filepath.Join(home, ".medner"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("MEDNER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	case errors.As(err, &notFound) && cfgFile == "":
		// no config file is fine, defaults and env apply
	default:
		configErr = fmt.Errorf("read config: %w", err)
	}
}

// loadDotEnv loads environment variables from .env when present
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("unable to load .env: %v", err)
	}
}
