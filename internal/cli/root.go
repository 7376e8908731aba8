package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sahte/internal/artifact"
	"github.com/ppiankov/sahte/internal/model"
	"github.com/ppiankov/sahte/internal/pipeline"
)

const version = "sahte v0.1.0"

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sahte",
	Short: "Sahte - Turkish fake-news classifier",
	Long: `Sahte classifies Turkish news texts as likely fake or likely real.

Each text is scored twice: a fuzzy rule base turns sensationalism, lack of
evidence, hedging and noise into a fake-likelihood, and a Tsetlin machine
trained on lexical and stylistic features votes on the label.

The confidence it reports is a squashed vote margin, not a probability.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Sahte.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sahte/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("store", "", "artifact backend (file, sqlite)")
	rootCmd.PersistentFlags().String("model-dir", "", "artifact directory")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("artifacts.backend", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("artifacts.dir", rootCmd.PersistentFlags().Lookup("model-dir"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	registerDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".sahte"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SAHTE_* (SAHTE_TSETLIN_EPOCHS)
	viper.SetEnvPrefix("SAHTE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults makes every config key known to viper, so environment
// variables apply to keys that no file or flag mentions
func registerDefaults() {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaults("", tree)
}

func setDefaults(prefix string, tree map[string]any) {
	for key, val := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, val)
	}
}

// loadConfig merges defaults, config file, environment and flags, then
// validates the result
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openPipeline opens the configured artifact store and builds a pipeline.
// The caller closes the returned store.
func openPipeline(cfg *model.Config) (*pipeline.Pipeline, artifact.Store, error) {
	store, err := artifact.Open(cfg.Artifacts.Backend, cfg.Artifacts.Dir, cfg.Artifacts.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact store: %w", err)
	}
	return pipeline.New(cfg, store, logger), store, nil
}
