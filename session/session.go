// Package session runs the interactive chat loop: read a prompt, extend the
// transcript, send it, print and record the reply.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ochat/config"
	"ochat/model"
	"ochat/ollama"
)

const (
	exitKeyword  = "exit"
	welcomeText  = "Welcome to the Ollama chat session. Type 'exit' to quit."
	promptText   = "Enter your prompt: "
	goodbyeText  = "Exiting the session. Goodbye!"
	assistantTag = "Assistant:"
)

type State int

const (
	AwaitingInput State = iota
	AwaitingResponse
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting-input"
	case AwaitingResponse:
		return "awaiting-response"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	SystemPrompt     string
	SendSystemPrompt bool
	Window           model.ContextWindow
	RenderMarkdown   bool
	MarkdownWidth    int
}

// Session owns one in-memory transcript for the life of the process.
type Session struct {
	ID string

	provider   model.Provider
	transcript *model.Transcript
	opts       Options
	in         *bufio.Reader
	out        io.Writer
	styles     styles
	state      State
	log        *zap.Logger
}

func New(provider model.Provider, in io.Reader, out io.Writer, opts Options) *Session {
	if opts.MarkdownWidth <= 0 {
		opts.MarkdownWidth = defaultMarkdownWidth
	}

	id := uuid.New().String()
	return &Session{
		ID:         id,
		provider:   provider,
		transcript: model.NewTranscript(),
		opts:       opts,
		in:         bufio.NewReader(in),
		out:        out,
		styles:     newStyles(out),
		state:      AwaitingInput,
		log:        config.DebugLog.With(zap.String("session_id", id)),
	}
}

func (s *Session) State() State {
	return s.state
}

// Transcript returns a copy of the conversation so far.
func (s *Session) Transcript() []model.Message {
	return s.transcript.Messages()
}

// Run prompts until the exit keyword or end of input. Per-turn failures are
// reported and never end the loop.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, welcomeText)
	fmt.Fprintln(s.out, s.styles.dim.Render("Model: "+s.provider.GetModel()))

	for s.state != Done {
		fmt.Fprint(s.out, promptText)

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read prompt: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		if eof && line == "" {
			fmt.Fprintln(s.out)
			s.exit()
			break
		}

		s.Turn(ctx, strings.TrimRight(line, "\r\n"))

		if eof && s.state != Done {
			s.exit()
		}
	}

	s.log.Debug("session ended", zap.Int("messages", s.transcript.Len()))
	return nil
}

// Turn handles one line of input and reports whether the session is over.
func (s *Session) Turn(ctx context.Context, input string) bool {
	if s.state == Done {
		return true
	}

	if strings.EqualFold(input, exitKeyword) {
		s.exit()
		return true
	}

	s.state = AwaitingResponse
	defer func() { s.state = AwaitingInput }()

	s.transcript.AppendUser(input)
	messages := s.requestMessages()

	s.log.Debug("sending turn",
		zap.Int("transcript", s.transcript.Len()),
		zap.Int("sent", len(messages)),
	)

	reply, err := s.provider.Chat(ctx, messages)
	if err != nil {
		s.log.Debug("turn failed", zap.Error(err))
		s.reportError(err)
		return false
	}

	if err := s.transcript.Append(reply); err != nil {
		s.log.Error("reply rejected by transcript", zap.Error(err))
		s.printError(fmt.Sprintf("Could not record reply: %v", err))
		return false
	}

	s.printReply(reply)
	return false
}

func (s *Session) exit() {
	s.state = Done
	fmt.Fprintln(s.out, goodbyeText)
}

// requestMessages is what gets sent this turn: the optional system prompt
// followed by the windowed transcript.
func (s *Session) requestMessages() []model.Message {
	window := s.transcript.Window(s.opts.Window)
	if !s.opts.SendSystemPrompt || s.opts.SystemPrompt == "" {
		return window
	}

	messages := make([]model.Message, 0, len(window)+1)
	messages = append(messages, model.NewSystemMessage(s.opts.SystemPrompt))
	return append(messages, window...)
}

func (s *Session) reportError(err error) {
	var (
		decodeErr    *ollama.DecodeError
		timeoutErr   *ollama.TimeoutError
		statusErr    *ollama.StatusError
		transportErr *ollama.TransportError
	)

	switch {
	case errors.As(err, &decodeErr):
		s.printError(fmt.Sprintf("Error parsing JSON response: %v", decodeErr.Err))
		fmt.Fprintf(s.out, "Raw response text: %s\n", decodeErr.Body)
	case errors.As(err, &timeoutErr):
		s.printError(fmt.Sprintf("Request timed out after %s: %v", timeoutErr.Timeout, timeoutErr.Err))
	case errors.As(err, &statusErr):
		s.printError(fmt.Sprintf("Server returned an error (%d): %s", statusErr.StatusCode, statusErr.Message))
		if statusErr.Body != "" {
			fmt.Fprintf(s.out, "Raw response text: %s\n", statusErr.Body)
		}
	case errors.As(err, &transportErr):
		s.printError(fmt.Sprintf("An error occurred during the request: %v", transportErr.Err))
	default:
		s.printError(fmt.Sprintf("An error occurred during the request: %v", err))
	}
}
