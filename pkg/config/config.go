package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig                   `mapstructure:"server"`
	Firewall   FirewallConfig                 `mapstructure:"firewall"`
	Policy     map[string]checker.LevelPolicy `mapstructure:"policy"`
	Classifier ClassifierConfig               `mapstructure:"classifier"`
	Responder  ResponderConfig                `mapstructure:"responder"`
	Redis      RedisConfig                    `mapstructure:"redis"`
	Metrics    MetricsConfig                  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type FirewallConfig struct {
	MaxInputLength         int      `mapstructure:"max_input_length"`
	ClassifierTimeoutSecs  int      `mapstructure:"classifier_timeout_seconds"`
	ResponderTimeoutSecs   int      `mapstructure:"responder_timeout_seconds"`
	Blocklist              []string `mapstructure:"blocklist"`
	DisableBlocklist       bool     `mapstructure:"disable_blocklist"`
	DisableInjectionChecks bool     `mapstructure:"disable_injection_checks"`
}

type ClassifierConfig struct {
	Provider string       `mapstructure:"provider"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ResponderConfig struct {
	Provider  string          `mapstructure:"provider"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}


type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Comma-separated env values decode into slice fields, so the
	// blocklist can be set without a config file.
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// env-only configuration is valid
			return viper.Unmarshal(out, decodeHook)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out, decodeHook); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8000
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Firewall.MaxInputLength == 0 {
		globalConfig.Firewall.MaxInputLength = 10000
	}
	if globalConfig.Firewall.ClassifierTimeoutSecs == 0 {
		globalConfig.Firewall.ClassifierTimeoutSecs = 30
	}
	if globalConfig.Firewall.ResponderTimeoutSecs == 0 {
		globalConfig.Firewall.ResponderTimeoutSecs = 60
	}
	if globalConfig.Classifier.Provider == "" {
		globalConfig.Classifier.Provider = "ollama"
	}
	if globalConfig.Classifier.Ollama.BaseURL == "" {
		globalConfig.Classifier.Ollama.BaseURL = "http://localhost:11434"
	}
	if globalConfig.Classifier.Ollama.Model == "" {
		globalConfig.Classifier.Ollama.Model = "llama2"
	}
	if globalConfig.Responder.Provider == "" {
		globalConfig.Responder.Provider = "ollama"
	}
	if globalConfig.Responder.Ollama.BaseURL == "" {
		globalConfig.Responder.Ollama.BaseURL = globalConfig.Classifier.Ollama.BaseURL
	}
	if globalConfig.Responder.Ollama.Model == "" {
		globalConfig.Responder.Ollama.Model = globalConfig.Classifier.Ollama.Model
	}
	if globalConfig.Redis.Port == 0 {
		globalConfig.Redis.Port = 6379
	}
	if globalConfig.Redis.TTLSeconds == 0 {
		globalConfig.Redis.TTLSeconds = 300
	}
}

// PolicyTable merges configured level overrides over the built-in table.
// Unknown level names are rejected so typos fail at startup instead of
// silently loosening the policy.
func (c *Config) PolicyTable() (map[checker.SecurityLevel]checker.LevelPolicy, error) {
	table := checker.DefaultPolicyTable()
	for name, policy := range c.Policy {
		level := checker.SecurityLevel(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := table[level]; !ok {
			return nil, fmt.Errorf("unknown security level %q in policy table", name)
		}
		table[level] = policy
	}
	return table, nil
}

func GetConfig() *Config {
	return &globalConfig
}
