package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultHost           = "http://localhost:11434"
	DefaultModel          = "llama3.2"
	DefaultNumPredict     = 80000
	DefaultRequestTimeout = 5 * time.Minute
	DefaultSystemPrompt   = "You are my personal assistant."
)

func Default() *Config {
	return &Config{
		DataDirectory: GetDefaultDataDir(),
		Ollama: OllamaConfig{
			Host:           DefaultHost,
			Model:          DefaultModel,
			NumPredict:     DefaultNumPredict,
			RequestTimeout: Duration{DefaultRequestTimeout},
		},
		Chat: ChatConfig{
			SystemPrompt: DefaultSystemPrompt,
		},
	}
}

func GenerateConfigTemplate() string {
	return `# ochat configuration
# Location: ~/.config/ochat/config.toml
# This file uses TOML format: https://toml.io

# Where debug.log is written when debug logging is on
data_directory = "~/.local/share/ochat"

# Same as OCHAT_DEBUG=1 or --debug
debug = false

[ollama]
# Ollama server URL
host = "http://localhost:11434"

# Model sent with every request
model = "llama3.2"

# Maximum number of tokens the model may generate per reply
num_predict = 80000

# Give up on a reply after this long ("0s" waits forever)
request_timeout = "5m"

[chat]
system_prompt = "You are my personal assistant."

# Send system_prompt as the first message of every request
send_system_prompt = false

# Limit the history resent with each request (0 = everything)
max_context_messages = 0
max_context_tokens = 0

# Render replies as terminal markdown
render_markdown = false
`
}

// WriteConfigTemplate writes the commented template to path. It never
// overwrites an existing file.
func WriteConfigTemplate(path string) error {
	if FileExists(path) {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
