package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/audit"
	"github.com/promptforge/promptforge/internal/catalog"
	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/history"
	"github.com/promptforge/promptforge/internal/logger"
	"github.com/promptforge/promptforge/internal/prompt"
)

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "promptforge",
	Short: "promptforge prompt assembly service",
	Long: `promptforge assembles prompts from templates, variables, and
conversation history, behind a token budget gate.

Modes:
  promptforge            Run the HTTP API (default)
  promptforge assemble   Assemble one request from the command line
  promptforge mcp        Serve assembly tools and prompts over MCP stdio
  promptforge complete   Assemble and send through a model backend`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Parse and set log level
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file path (default: .promptforge.yaml next to the binary)")
}

// loadConfig reads and validates the config file. The --config flag
// overrides the default location next to the binary.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyLogConfig layers the logging section of the config file on top of
// the --log flag. The flag wins when it was set explicitly.
func applyLogConfig(cmd *cobra.Command, cfg *config.Config) {
	levelName := ""
	if !cmd.Flags().Changed("log") && cfg.Logging.Level != "" {
		levelName = cfg.Logging.Level
	}
	if err := logger.Init(levelName, cfg.Logging.File); err != nil {
		logger.Warn("[CLI] logging config not applied: %v", err)
	}
}

// newEngine builds the template catalog and the assembler from config.
func newEngine(cfg *config.Config) (*prompt.Assembler, *catalog.Catalog, error) {
	cat, err := catalog.New(cfg.Assembly)
	if err != nil {
		return nil, nil, fmt.Errorf("load templates: %w", err)
	}

	defaults := make(map[string]prompt.Value, len(cfg.Assembly.DefaultVariables))
	for k, v := range cfg.Assembly.DefaultVariables {
		defaults[k] = prompt.FromAny(v)
	}

	assembler, err := prompt.New(prompt.Config{
		Templates:        cat.Templates(),
		DefaultVariables: defaults,
		Context: prompt.ContextSettings{
			MaxTokens:      cfg.Assembly.MaxTokens,
			IncludeHistory: cfg.Assembly.IncludeHistory,
			HistoryLength:  cfg.Assembly.HistoryLength,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return assembler, cat, nil
}

// openHistory opens the conversation store, or returns nil when no path
// is configured.
func openHistory(cfg *config.Config) (*history.Store, error) {
	if cfg.History.Path == "" {
		return nil, nil
	}
	return history.NewStore(cfg.History.Path)
}

func newTrail(cfg *config.Config) *audit.Trail {
	return audit.New(cfg.Audit)
}

// pullContext loads the recent turns of a conversation as context items.
func pullContext(store *history.Store, assembler *prompt.Assembler, key string) ([]prompt.Value, error) {
	if store == nil || key == "" {
		return nil, nil
	}
	turns, err := store.Recent(key, assembler.Settings().HistoryLength)
	if err != nil {
		return nil, err
	}
	items := make([]prompt.Value, 0, len(turns))
	for _, line := range history.ContextStrings(turns) {
		items = append(items, prompt.String(line))
	}
	return items, nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
