package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/apex/log"
	clihandler "github.com/apex/log/handlers/cli"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/studiowebux/symanto/internal/cli"
	"github.com/studiowebux/symanto/internal/config"
	"github.com/studiowebux/symanto/internal/history"
	"github.com/studiowebux/symanto/internal/settings"
	"github.com/studiowebux/symanto/internal/symanto"
)

var (
	version = "1.0.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError prints request failures in the failed-spinner form and
// everything else as a plain error line
func printError(err error) {
	style := lipgloss.NewRenderer(os.Stderr).NewStyle().Foreground(lipgloss.Color("1"))
	if flagNoColor {
		style = lipgloss.NewStyle()
	}
	if symanto.IsRequestError(err) {
		fmt.Fprintln(os.Stderr, style.Render("✖ "+err.Error()))
		return
	}
	fmt.Fprintln(os.Stderr, style.Render("Error: "+err.Error()))
}

var rootCmd = &cobra.Command{
	Use:   "symanto",
	Short: "Symanto Psycholinguistic Text Analytics CLI",
	Long: `Symanto Psycholinguistic Text Analytics CLI.

Analyze sentiment, emotions, personality traits, communication style and more
using the Symanto API.

Examples:
  symanto config set --api-key YOUR_KEY       # Save your API key
  symanto sentiment "I love this product"     # Sentiment with verdict
  symanto emotion "What a day" --lang en      # Emotions sorted by probability
  symanto analyze "Some text" --json          # Combined raw JSON
  symanto history list --search love          # Fuzzy search past analyses`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetHandler(clihandler.New(os.Stderr))
		log.SetLevel(log.WarnLevel)
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}

		if os.Getenv("NO_COLOR") != "" {
			flagNoColor = true
		}

		if flagEnvFile != "" {
			if err := config.LoadEnvFile(flagEnvFile); err != nil {
				return err
			}
		}

		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
}

// Global flags
var (
	flagVerbose bool
	flagNoColor bool
	flagEnvFile string
)

// Flags shared by the analysis commands
var (
	flagLang  string
	flagJSON  bool
	flagYAML  bool
	flagQuery string
	flagCopy  bool
)

// Flags for config set
var (
	flagAPIKey      string
	flagDefaultLang string
	flagHistory     string
)

// Flags for history
var (
	flagHistoryLimit  int
	flagHistorySearch string
	flagHistoryJSON   bool
	flagHistoryYAML   bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage API configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newEnv(false)
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.ConfigSet(env, cli.ConfigSetOptions{
			APIKey:  flagAPIKey,
			Lang:    flagDefaultLang,
			History: flagHistory,
		})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newEnv(false)
		if err != nil {
			return err
		}
		defer cleanup()
		return cli.ConfigShow(env)
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newEnv(false)
		if err != nil {
			return err
		}
		defer cleanup()
		return cli.ConfigClear(env)
	},
}

// analysisCommands maps each subcommand to its endpoint
var analysisCommands = []struct {
	use   string
	short string
	kind  symanto.Kind
}{
	{"sentiment <text>", "Analyze sentiment (positive/negative)", symanto.KindSentiment},
	{"emotion <text>", "Analyze emotions in text", symanto.KindEmotion},
	{"ekman <text>", "Ekman emotion analysis (anger, disgust, fear, joy, sadness, surprise)", symanto.KindEkmanEmotion},
	{"personality <text>", "Analyze personality traits (MBTI-like)", symanto.KindPersonality},
	{"communication <text>", "Analyze communication style and tonality", symanto.KindCommunication},
	{"language <text>", "Detect the language of text", symanto.KindLanguageDetection},
	{"topic-sentiment <text>", "Analyze topics and their associated sentiments", symanto.KindTopicSentiment},
}

func newAnalysisCmd(use, short string, kind symanto.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, kind, args[0])
		},
	}
	addOutputFlags(cmd)
	if kind.UsesLanguage() {
		cmd.Flags().StringVar(&flagLang, "lang", config.DefaultLanguage, "Language code (defaults to the configured lang)")
	}
	return cmd
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text>",
	Short: "Run sentiment, emotion, and personality analysis all at once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd, "", args[0])
	},
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Output raw JSON")
	cmd.Flags().BoolVar(&flagYAML, "yaml", false, "Output raw response as YAML")
	cmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath query or $(command) applied to the raw JSON")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "Copy the raw JSON response to the clipboard")
}

// outputOptions collects the output flags, failing fast on a bad --query
func outputOptions() (cli.OutputOptions, error) {
	opts := cli.OutputOptions{
		JSON:  flagJSON,
		YAML:  flagYAML,
		Query: flagQuery,
		Copy:  flagCopy,
	}
	if err := opts.Validate(); err != nil {
		return cli.OutputOptions{}, err
	}
	return opts, nil
}

// runAnalysis executes one analysis command. An empty kind runs analyze.
func runAnalysis(cmd *cobra.Command, kind symanto.Kind, text string) error {
	output, err := outputOptions()
	if err != nil {
		return err
	}

	env, cleanup, err := newEnv(true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := cli.WithInterrupt(context.Background())
	defer cancel()

	opts := cli.AnalysisOptions{Kind: kind, Text: text, Output: output}
	// Only an explicit --lang overrides the configured default
	if cmd.Flags().Changed("lang") {
		opts.Language = flagLang
	}

	if kind == "" {
		return cli.RunAnalyzeAll(ctx, env, opts)
	}
	return cli.RunAnalysis(ctx, env, opts)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newHistoryEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.HistoryList(env, cli.HistoryListOptions{
			Limit:  flagHistoryLimit,
			Search: flagHistorySearch,
			JSON:   flagHistoryJSON,
			YAML:   flagHistoryYAML,
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a past analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid history id %q", args[0])
		}

		output, err := outputOptions()
		if err != nil {
			return err
		}

		env, cleanup, err := newHistoryEnv()
		if err != nil {
			return err
		}
		defer cleanup()

		return cli.HistoryShow(cmd.Context(), env, id, output)
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage per analysis kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newHistoryEnv()
		if err != nil {
			return err
		}
		defer cleanup()
		return cli.HistoryStats(env)
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all past analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, cleanup, err := newHistoryEnv()
		if err != nil {
			return err
		}
		defer cleanup()
		return cli.HistoryClear(env)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment variables from file")

	// config set flags
	configSetCmd.Flags().StringVar(&flagAPIKey, "api-key", "", "Symanto API key")
	configSetCmd.Flags().StringVar(&flagDefaultLang, "lang", "", "Default language code for analyses")
	configSetCmd.Flags().StringVar(&flagHistory, "history", "", "Record analyses in history (on/off)")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)

	for _, c := range analysisCommands {
		rootCmd.AddCommand(newAnalysisCmd(c.use, c.short, c.kind))
	}

	addOutputFlags(analyzeCmd)
	analyzeCmd.Flags().StringVar(&flagLang, "lang", config.DefaultLanguage, "Language code (defaults to the configured lang)")
	rootCmd.AddCommand(analyzeCmd)

	// history flags
	historyListCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	historyListCmd.Flags().StringVarP(&flagHistorySearch, "search", "s", "", "Fuzzy search on analyzed text")
	historyListCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "Output as JSON")
	historyListCmd.Flags().BoolVar(&flagHistoryYAML, "yaml", false, "Output as YAML")
	addOutputFlags(historyShowCmd)

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

// newEnv loads the settings store. With record set, the history database
// is opened when history is enabled; failing to open it only warns.
func newEnv(record bool) (*cli.Env, func(), error) {
	store := settings.NewStore(config.SettingsFile)
	if err := store.Load(); err != nil {
		return nil, nil, err
	}

	env := &cli.Env{
		Store:   store,
		BaseURL: config.BaseURL,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NoColor: flagNoColor,
	}
	cleanup := func() {}

	if record && store.IsHistoryEnabled() {
		manager, err := history.NewManager(config.DatabasePath)
		if err != nil {
			log.WithError(err).Warn("history disabled")
		} else {
			env.History = manager
			cleanup = func() { manager.Close() }
		}
	}

	return env, cleanup, nil
}

// newHistoryEnv opens the history database regardless of the history setting
func newHistoryEnv() (*cli.Env, func(), error) {
	env, _, err := newEnv(false)
	if err != nil {
		return nil, nil, err
	}

	manager, err := history.NewManager(config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	env.History = manager
	return env, func() { manager.Close() }, nil
}
