package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"srcpack/pkg/logging"
	"srcpack/pkg/version"
)

const appName = "srcpack"

var (
	logger  *zap.Logger
	cfgFile string
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "srcpack",
	Short: "Srcpack packs source trees into a single text document",
	Long: `Srcpack walks selected files and directories, filters out binary,
oversized and ignored entries, and serializes what remains into one
plain-text, markdown or XML document for pasting into an LLM prompt or a
code review.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// the base logger is built before flags are parsed, so the debug
		// logger has to be swapped in here
		if viper.GetBool("debug") {
			if debugLogger, err := logging.Setup(true, appName, version.Version); err == nil {
				logger = debugLogger
			}
		}
	},
}

// Execute wires the logger into the command tree and runs it.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/srcpack/config.toml)")
	RootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads the config file and SRCPACK_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "srcpack"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("SRCPACK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warn("Failed to read config file", zap.Error(err))
		}
	}
}
