package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Subscription    string         `yaml:"subscription"`
	Schedule        string         `yaml:"schedule"`
	RunOnStart      bool           `yaml:"run_on_start"`
	TimeWindowHours int            `yaml:"time_window_hours"`
	Workers         int            `yaml:"workers"`
	LLM             LLMConfig      `yaml:"llm"`
	Reader          ReaderConfig   `yaml:"reader"`
	Extract         ExtractConfig  `yaml:"extract"`
	Report          ReportConfig   `yaml:"report"`
	Categories      CategoryConfig `yaml:"categories"`
	LogLevel        string         `yaml:"log_level"`
}

type LLMConfig struct {
	Provider         string  `yaml:"provider"`
	APIKey           string  `yaml:"api_key"`
	Model            string  `yaml:"model"`
	MaxContentLength int     `yaml:"max_content_length"`
	RequestInterval  float64 `yaml:"request_interval_seconds"`
	TimeoutSeconds   int     `yaml:"timeout_seconds"`
}

type ReaderConfig struct {
	Type            string  `yaml:"type"`
	Endpoint        string  `yaml:"endpoint"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	RequestInterval float64 `yaml:"request_interval_seconds"`
}

type ExtractConfig struct {
	Tiers            []string `yaml:"tiers"`
	MinContentLength int      `yaml:"min_content_length"`
}

type ReportConfig struct {
	ArchivesDir string `yaml:"archives_dir"`
	ReadmePath  string `yaml:"readme_path"`
	Timezone    string `yaml:"timezone"`
	FoldFailed  bool   `yaml:"fold_failed"`
}

type CategoryConfig struct {
	Priority []string `yaml:"priority"`
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.Subscription == "" {
		cfg.Subscription = "feeds.opml"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 7 * * *"
	}
	if cfg.TimeWindowHours == 0 {
		cfg.TimeWindowHours = 24
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Model == "" {
		switch cfg.LLM.Provider {
		case "deepseek":
			cfg.LLM.Model = "deepseek-chat"
		default:
			cfg.LLM.Model = "gemini-2.0-flash"
		}
	}
	if cfg.LLM.MaxContentLength == 0 {
		cfg.LLM.MaxContentLength = 15000
	}
	if cfg.LLM.RequestInterval == 0 {
		cfg.LLM.RequestInterval = 2.0
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 120
	}
	if cfg.Reader.Type == "" {
		cfg.Reader.Type = "jina"
	}
	if cfg.Reader.Endpoint == "" {
		cfg.Reader.Endpoint = "https://r.jina.ai"
	}
	if cfg.Reader.TimeoutSeconds == 0 {
		cfg.Reader.TimeoutSeconds = 30
	}
	if len(cfg.Extract.Tiers) == 0 {
		cfg.Extract.Tiers = []string{"llm_direct", "reader", "rss"}
	}
	if cfg.Extract.MinContentLength == 0 {
		cfg.Extract.MinContentLength = 200
	}
	if cfg.Report.ArchivesDir == "" {
		cfg.Report.ArchivesDir = "archives"
	}
	if cfg.Report.ReadmePath == "" {
		cfg.Report.ReadmePath = "README.md"
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "Asia/Singapore"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func validate(cfg *Config) error {
	switch cfg.LLM.Provider {
	case "gemini", "deepseek":
	default:
		return fmt.Errorf("config: unsupported llm provider %q (supported: gemini, deepseek)", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("config: llm.api_key is required (set GEMINI_API_KEY or DEEPSEEK_API_KEY env var)")
	}
	switch cfg.Reader.Type {
	case "jina", "readability":
	default:
		return fmt.Errorf("config: unsupported reader type %q (supported: jina, readability)", cfg.Reader.Type)
	}
	for _, tier := range cfg.Extract.Tiers {
		switch tier {
		case "llm_direct", "reader", "rss":
		default:
			return fmt.Errorf("config: unknown extraction tier %q (supported: llm_direct, reader, rss)", tier)
		}
	}
	if cfg.TimeWindowHours < 1 {
		return fmt.Errorf("config: time_window_hours must be at least 1")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	return nil
}

// Load reads the config file, expands environment variables, applies defaults,
// and validates the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
