package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration lets durations be written as "5m" in the config file.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

type OllamaConfig struct {
	Host           string   `toml:"host"`
	Model          string   `toml:"model"`
	NumPredict     int      `toml:"num_predict"`
	RequestTimeout Duration `toml:"request_timeout"`
}

type ChatConfig struct {
	SystemPrompt       string `toml:"system_prompt"`
	SendSystemPrompt   bool   `toml:"send_system_prompt"`
	MaxContextMessages int    `toml:"max_context_messages"`
	MaxContextTokens   int    `toml:"max_context_tokens"`
	RenderMarkdown     bool   `toml:"render_markdown"`
}

type Config struct {
	DataDirectory string       `toml:"data_directory"`
	Debug         bool         `toml:"debug"`
	Ollama        OllamaConfig `toml:"ollama"`
	Chat          ChatConfig   `toml:"chat"`
}

const (
	envHost         = "OCHAT_OLLAMA_HOST"
	envModel        = "OCHAT_OLLAMA_MODEL"
	envSystemPrompt = "OCHAT_SYSTEM_PROMPT"
	envDataDir      = "OCHAT_DATA_DIR"
	envDebug        = "OCHAT_DEBUG"
)

// DotEnvFile is read, if present, before environment overrides are applied.
var DotEnvFile = ".env"

func (c *Config) OllamaURL() string {
	return c.Ollama.Host
}

func (c *Config) Model() string {
	return c.Ollama.Model
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if host := os.Getenv(envHost); host != "" {
		c.Ollama.Host = host
	}
	if model := os.Getenv(envModel); model != "" {
		c.Ollama.Model = model
	}
	if prompt := os.Getenv(envSystemPrompt); prompt != "" {
		c.Chat.SystemPrompt = prompt
	}
	if dataDir := os.Getenv(envDataDir); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if CheckDebug() {
		c.Debug = true
	}
}

func CheckDebug() bool {
	debug := os.Getenv(envDebug)
	return debug == "true" || debug == "1"
}

// Load builds the effective configuration: defaults, then the TOML file at
// path (or the default location when path is empty), then .env, then the
// environment. A missing file is only an error when path was given
// explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = GetConfigFilePath()
	}

	if FileExists(path) {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the chat loop cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Ollama.Host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid ollama host %q: expected a URL like %s", c.Ollama.Host, DefaultHost)
	}
	if strings.TrimSpace(c.Ollama.Model) == "" {
		return errors.New("ollama model must not be empty")
	}
	if c.Ollama.NumPredict <= 0 {
		return fmt.Errorf("num_predict must be positive, got %d", c.Ollama.NumPredict)
	}
	if c.Ollama.RequestTimeout.Duration < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.Ollama.RequestTimeout)
	}
	if c.Chat.MaxContextMessages < 0 {
		return fmt.Errorf("max_context_messages must not be negative, got %d", c.Chat.MaxContextMessages)
	}
	if c.Chat.MaxContextTokens < 0 {
		return fmt.Errorf("max_context_tokens must not be negative, got %d", c.Chat.MaxContextTokens)
	}
	return nil
}
