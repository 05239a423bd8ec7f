// Package config manages application configuration from various sources.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/spf13/viper"
)

// Provider defines configuration for an LLM provider.
type Provider struct {
	APIKey   string `json:"apiKey"`
	BaseURL  string `json:"baseURL,omitempty"`
	Disabled bool   `json:"disabled"`
}

// Data defines storage configuration.
type Data struct {
	Directory string `json:"directory"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// RateLimit bounds how often chat turns may be sent.
type RateLimit struct {
	PerSecond float64 `json:"perSecond"`
	Burst     int     `json:"burst"`
}

type TitleConfig struct {
	Placeholder string `json:"placeholder"`
}

// Config is the main configuration structure for the application.
type Config struct {
	Data         Data                              `json:"data"`
	WorkingDir   string                            `json:"wd,omitempty"`
	Providers    map[models.ModelProvider]Provider `json:"providers,omitempty"`
	Agents       []models.ModelID                  `json:"agents"`
	MaxTokens    int64                             `json:"maxTokens"`
	SystemPrompt string                            `json:"systemPrompt"`
	RateLimit    RateLimit                         `json:"rateLimit"`
	Title        TitleConfig                       `json:"title"`
	Log          LogConfig                         `json:"log"`
	Debug        bool                              `json:"debug,omitempty"`
}

// Application constants
const (
	defaultDataDirectory = ".agentchat"
	defaultLogLevel      = "info"
	defaultMaxTokens     = int64(4096)
	defaultPlaceholder   = "Agent Chat"
	defaultSystemPrompt  = "You are a helpful assistant. Answer concisely and use markdown when it helps."
	appName              = "agentchat"
)

// Global configuration instance
var (
	cfg *Config
	mu  sync.RWMutex
)

// Load initializes the configuration from environment variables and config files.
// If debug is true, debug mode is enabled and log level is set to debug.
// It returns an error if configuration loading fails.
func Load(workingDir string, debug bool) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if cfg != nil {
		return cfg, nil
	}

	c := &Config{
		WorkingDir: workingDir,
		Providers:  make(map[models.ModelProvider]Provider),
	}

	configureViper()
	setDefaults(debug)
	setProviderDefaults()

	// Read global config
	if err := readConfig(viper.ReadInConfig()); err != nil {
		return nil, err
	}

	// Load and merge local config
	if err := mergeLocalConfig(workingDir); err != nil {
		return nil, err
	}

	// Apply configuration to the struct
	if err := viper.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if c.Providers == nil {
		c.Providers = make(map[models.ModelProvider]Provider)
	}

	applyDefaultValues(c)
	c.Agents = validAgents(c)
	cfg = c
	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper() {
	viper.SetConfigName(fmt.Sprintf(".%s", appName))
	viper.SetConfigType("json")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	viper.SetEnvPrefix(strings.ToUpper(appName))
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(debug bool) {
	viper.SetDefault("data.directory", defaultDataDirectory)
	viper.SetDefault("maxTokens", defaultMaxTokens)
	viper.SetDefault("systemPrompt", defaultSystemPrompt)
	viper.SetDefault("rateLimit.perSecond", 1.0)
	viper.SetDefault("rateLimit.burst", 3)
	viper.SetDefault("title.placeholder", defaultPlaceholder)

	if debug {
		viper.SetDefault("debug", true)
		viper.Set("log.level", "debug")
	} else {
		viper.SetDefault("debug", false)
		viper.SetDefault("log.level", defaultLogLevel)
	}
}

// setProviderDefaults configures provider keys from the environment and
// derives the default model list from the providers that are available.
// Ordering puts Anthropic first, then Bedrock, OpenAI and Gemini; the local
// echo model is always offered last.
func setProviderDefaults() {
	var agents []models.ModelID

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		viper.SetDefault("providers.anthropic.apiKey", apiKey)
		agents = append(agents, models.Claude37Sonnet, models.Claude35Haiku)
	}

	if hasAWSCredentials() {
		agents = append(agents, models.BedrockClaude37Sonnet, models.BedrockClaude35Haiku)
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		viper.SetDefault("providers.openai.apiKey", apiKey)
		agents = append(agents, models.GPT41, models.GPT4oMini)
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		viper.SetDefault("providers.gemini.apiKey", apiKey)
		agents = append(agents, models.Gemini20Flash, models.Gemini25)
	}

	agents = append(agents, models.LocalEcho)
	viper.SetDefault("agents", agents)
}

// hasAWSCredentials checks if AWS credentials are available in the environment.
func hasAWSCredentials() bool {
	// Check for explicit AWS credentials
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" && os.Getenv("AWS_SECRET_ACCESS_KEY") != "" {
		return true
	}

	// Check for AWS profile
	if os.Getenv("AWS_PROFILE") != "" || os.Getenv("AWS_DEFAULT_PROFILE") != "" {
		return true
	}

	// Check if running with a container credentials provider
	if os.Getenv("AWS_CONTAINER_CREDENTIALS_RELATIVE_URI") != "" ||
		os.Getenv("AWS_CONTAINER_CREDENTIALS_FULL_URI") != "" {
		return true
	}

	return false
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges configuration from the local directory.
func mergeLocalConfig(workingDir string) error {
	if workingDir == "" {
		return nil
	}
	local := viper.New()
	local.SetConfigName(fmt.Sprintf(".%s", appName))
	local.SetConfigType("json")
	local.AddConfigPath(workingDir)

	if err := readConfig(local.ReadInConfig()); err != nil {
		return err
	}
	return viper.MergeConfigMap(local.AllSettings())
}

// applyDefaultValues fills fields whose zero value is not usable.
func applyDefaultValues(c *Config) {
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Title.Placeholder == "" {
		c.Title.Placeholder = defaultPlaceholder
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 1
	}
	if c.Data.Directory != "" && !filepath.IsAbs(c.Data.Directory) && c.WorkingDir != "" {
		c.Data.Directory = filepath.Join(c.WorkingDir, c.Data.Directory)
	}
}

// validAgents drops unknown models and models whose provider is disabled or
// has no credentials. The echo model is used when nothing else survives.
func validAgents(c *Config) []models.ModelID {
	var out []models.ModelID
	for _, id := range c.Agents {
		model, ok := models.SupportedModels[id]
		if !ok || slices.Contains(out, id) {
			continue
		}
		if !providerAvailable(c, model.Provider) {
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		out = []models.ModelID{models.LocalEcho}
	}
	return out
}

func providerAvailable(c *Config, p models.ModelProvider) bool {
	provider, configured := c.Providers[p]
	if configured && provider.Disabled {
		return false
	}
	switch p {
	case models.ProviderEcho, models.ProviderMock:
		return true
	case models.ProviderBedrock:
		return hasAWSCredentials()
	default:
		return configured && provider.APIKey != ""
	}
}

// Get returns the current configuration.
// It's safe to call this function multiple times.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Registry returns the model registry derived from the configured agents.
func Registry() models.Registry {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		return models.NewRegistry(models.LocalEcho)
	}
	return models.NewRegistry(cfg.Agents...)
}

// WorkingDirectory returns the current working directory from the configuration.
func WorkingDirectory() string {
	c := Get()
	if c == nil {
		panic("config not loaded")
	}
	return c.WorkingDir
}

// Reset drops the loaded configuration. Used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cfg = nil
	viper.Reset()
}
