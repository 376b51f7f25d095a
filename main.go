package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ochat/config"
	"ochat/model"
	"ochat/ollama"
	"ochat/session"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

type rootFlags struct {
	configPath       string
	host             string
	model            string
	systemPrompt     string
	sendSystemPrompt bool
	numPredict       int
	timeout          time.Duration
	maxMessages      int
	maxTokens        int
	markdown         bool
	debug            bool
	skipCheck        bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "ochat",
		Short:         "Chat with a local Ollama model from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.config/ochat/config.toml)")
	pf.StringVar(&flags.host, "host", "", "Ollama server URL")
	pf.StringVar(&flags.model, "model", "", "model name")
	pf.BoolVar(&flags.debug, "debug", false, "write a debug log to the data directory")

	// Settings flags are persistent so "config show" reports their effect.
	pf.StringVar(&flags.systemPrompt, "system-prompt", "", "system prompt text")
	pf.BoolVar(&flags.sendSystemPrompt, "send-system-prompt", false, "send the system prompt with every request")
	pf.IntVar(&flags.numPredict, "num-predict", 0, "maximum tokens generated per reply")
	pf.DurationVar(&flags.timeout, "timeout", 0, "request timeout (0s waits forever)")
	pf.IntVar(&flags.maxMessages, "max-context-messages", 0, "resend at most this many messages (0 = all)")
	pf.IntVar(&flags.maxTokens, "max-context-tokens", 0, "resend at most this many estimated tokens (0 = all)")
	pf.BoolVar(&flags.markdown, "markdown", false, "render replies as terminal markdown")

	cmd.Flags().BoolVar(&flags.skipCheck, "skip-check", false, "skip the startup server and model check")

	cmd.AddCommand(newModelsCmd(flags), newConfigCmd(flags))

	return cmd
}

// loadConfig layers changed command-line flags over config.Load.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("host") {
		cfg.Ollama.Host = flags.host
	}
	if changed("model") {
		cfg.Ollama.Model = flags.model
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	if changed("system-prompt") {
		cfg.Chat.SystemPrompt = flags.systemPrompt
	}
	if changed("send-system-prompt") {
		cfg.Chat.SendSystemPrompt = flags.sendSystemPrompt
	}
	if changed("num-predict") {
		cfg.Ollama.NumPredict = flags.numPredict
	}
	if changed("timeout") {
		cfg.Ollama.RequestTimeout = config.Duration{Duration: flags.timeout}
	}
	if changed("max-context-messages") {
		cfg.Chat.MaxContextMessages = flags.maxMessages
	}
	if changed("max-context-tokens") {
		cfg.Chat.MaxContextTokens = flags.maxTokens
	}
	if changed("markdown") {
		cfg.Chat.RenderMarkdown = flags.markdown
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Debug {
		config.InitDebugLog(cfg.DataDir())
	}

	return cfg, nil
}

func newClient(cfg *config.Config) (*ollama.Client, error) {
	client, err := ollama.NewClient(ollama.Options{
		BaseURL:    cfg.OllamaURL(),
		Model:      cfg.Model(),
		NumPredict: cfg.Ollama.NumPredict,
		Timeout:    cfg.Ollama.RequestTimeout.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}
	return client, nil
}

func runChat(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer config.SyncDebugLog()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	if config.Debug {
		config.DebugLog.Debug("starting chat",
			zap.String("version", Version),
			zap.String("host", client.BaseURL()),
			zap.String("model", client.GetModel()),
			zap.Duration("timeout", cfg.Ollama.RequestTimeout.Duration),
		)
	}

	if !flags.skipCheck {
		checkServer(cmd.Context(), client, cmd.ErrOrStderr())
	}

	s := session.New(client, cmd.InOrStdin(), cmd.OutOrStdout(), session.Options{
		SystemPrompt:     cfg.Chat.SystemPrompt,
		SendSystemPrompt: cfg.Chat.SendSystemPrompt,
		Window: model.ContextWindow{
			MaxMessages: cfg.Chat.MaxContextMessages,
			MaxTokens:   cfg.Chat.MaxContextTokens,
		},
		RenderMarkdown: cfg.Chat.RenderMarkdown,
	})

	return s.Run(cmd.Context())
}

// checkServer warns about an unreachable server or a model that is not
// installed. It never stops the chat from starting.
func checkServer(ctx context.Context, client *ollama.Client, w io.Writer) {
	if err := client.Ping(ctx); err != nil {
		fmt.Fprintf(w, "Warning: Ollama server at %s is not reachable: %v\n", client.BaseURL(), err)
		return
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(w, "Warning: could not list models: %v\n", err)
		return
	}

	if ollama.HasModel(models, client.GetModel()) {
		return
	}

	fmt.Fprintf(w, "Warning: model %q is not installed on %s\n", client.GetModel(), client.BaseURL())
	if suggestions := ollama.SuggestModels(client.GetModel(), models); len(suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(suggestions, ", "))
	}
}
