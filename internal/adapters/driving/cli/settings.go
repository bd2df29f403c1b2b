package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the embedding provider, the index backend and the corpus.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key.

Available keys:
  embedding.provider             cohere, openai, ollama or gemini
  embedding.model                model name
  embedding.base_url             provider endpoint override
  embedding.api_key              provider API key
  embedding.dimensions           vector size
  embedding.batch_size           texts per embedding request
  embedding.requests_per_minute  provider throttle (0 = unlimited)
  index.backend                  qdrant or bleve
  index.host                     index server URL
  index.api_key                  index server API key
  index.collection               collection name
  index.timeout_seconds          timeout of every index call
  corpus.data_dir                corpus database directory`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Interactively configure the embedding provider used to vectorise pages and queries.`,
	RunE:  runSettingsEmbedding,
}

var settingsIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Configure index backend",
	Long:  `Interactively configure the vector and text index backend.`,
	RunE:  runSettingsIndex,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and provider connectivity",
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsIndexCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	if settings.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	// Index settings
	cmd.Println("[Index]")
	cmd.Printf("  Backend: %s\n", settings.Index.Backend.Description())
	if settings.Index.Backend.IsRemote() {
		cmd.Printf("  Host: %s\n", settings.Index.Host)
		cmd.Printf("  API Key: %s\n", displayKey(settings.Index.APIKey))
	}
	cmd.Printf("  Collection: %s\n", settings.Index.Collection)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Index.IsConfigured()))
	cmd.Println()

	// Corpus settings
	cmd.Println("[Corpus]")
	dir := settings.Corpus.DataDir
	if dir == "" {
		dir = "(default)"
	}
	cmd.Printf("  Data Dir: %s\n", dir)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'wikisearch settings set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "api_key") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsIndex(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureIndexBackend(cmd, reader)
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cmd.Println("Settings: OK")

	cmd.Print("Checking embedding provider... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaults := domain.DefaultEmbeddingModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	cmd.Println("Run 'wikisearch rebuild' to re-embed all pages.")
	return nil
}

func configureIndexBackend(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Index Backend")
	backends := domain.AllIndexBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(backends), 1)
	selected := backends[idx-1]

	var host, apiKey string
	if selected.IsRemote() {
		defaultHost := domain.DefaultAppSettings().Index.Host
		cmd.Printf("Enter host [%s]: ", defaultHost)
		host = readLine(reader)
		if host == "" {
			host = defaultHost
		}
		cmd.Print("Enter API key (empty for none): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetIndexBackend(selected, host, apiKey); err != nil {
		return fmt.Errorf("failed to configure index backend: %w", err)
	}

	cmd.Printf("Index backend configured: %s\n", selected.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal, from reader otherwise.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
