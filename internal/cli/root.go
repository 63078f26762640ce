package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/newscred/internal/history"
	"github.com/ppiankov/newscred/internal/logging"
	"github.com/ppiankov/newscred/internal/model"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "newscred",
	Short: "NewsCred - news credibility scoring (heuristic, non-authoritative)",
	Long: `NewsCred scores the credibility of a news article from whatever you
have: a URL, a headline, the article text, or any combination.

It combines source reputation, content quality, bias language,
cross-source consensus, sentiment objectivity and an optional AI
judgment into one transparent score with warnings and recommendations.

A score is an indicator, not a verdict on truth.`,
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
		fmt.Printf("newscred v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.newscred/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// envAliases are the conventional variable names accepted next to NEWSCRED_*
var envAliases = map[string][]string{
	"apis.news_api_key":     {"NEWS_API_KEY"},
	"apis.google_api_key":   {"GOOGLE_API_KEY"},
	"apis.custom_search_id": {"GOOGLE_CSE_ID"},
	"llm.base_url":          {"OLLAMA_BASE_URL"},
	"llm.api_key":           nil,
}

// llmKeyEnv maps providers to their API key variable
var llmKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"google":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"claude":    "ANTHROPIC_API_KEY",
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
		viper.AddConfigPath(filepath.Join(home, ".newscred"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// NEWSCRED_HTTP_TIMEOUT overrides http.timeout, and so on
	viper.SetEnvPrefix("NEWSCRED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := registerDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}
	for key, aliases := range envAliases {
		names := append([]string{"NEWSCRED_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		_ = viper.BindEnv(append([]string{key}, names...)...)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults makes every config key known to viper so that
// AutomaticEnv can override it
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaults("", tree)
	return nil
}

func setDefaults(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			setDefaults(key, nested)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig resolves the effective configuration: flags, env, file, defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		if env, ok := llmKeyEnv[strings.ToLower(cfg.LLM.Provider)]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}
	if viper.GetBool("verbose") {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the stderr logger for the selected verbosity
func newLogger() *log.Logger {
	level := logLevel
	if verbose {
		level = "debug"
	}
	return logging.New(os.Stderr, level)
}

// applyLLMFlags overrides the LLM provider from command flags and checks the key
func applyLLMFlags(cfg *model.Config, provider, modelName string) error {
	if provider == "" {
		return nil
	}
	cfg.LLM.Provider = provider
	if modelName != "" {
		cfg.LLM.Model = modelName
	}

	env, needsKey := llmKeyEnv[strings.ToLower(provider)]
	if !needsKey {
		return nil
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(env)
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("%s environment variable not set", env)
	}
	return nil
}

// openRecorder opens the history database when enabled. The returned
// close function is always safe to call.
func openRecorder(cfg *model.Config, logger *log.Logger) (*history.Recorder, func(), error) {
	if !cfg.History.Enabled {
		return history.NewRecorder(nil, nil, logger), func() {}, nil
	}

	if dir := filepath.Dir(cfg.History.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	logger.Debug("history database opened", "path", cfg.History.DBPath)

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history database", "err", err)
		}
	}
	return history.NewRecorder(nil, store, logger), closeFn, nil
}
