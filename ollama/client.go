package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"ochat/config"
	"ochat/model"
)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "llama3.2"
	DefaultNumPredict = 80000

	chatURI      = "/api/chat"
	pingTimeout  = 5 * time.Second
	logBodyWidth = 512
)

// HTTPClient is the part of *http.Client the chat call needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client. Zero values fall back to the defaults above,
// except Timeout where zero means no deadline.
type Options struct {
	BaseURL    string
	Model      string
	NumPredict int
	Timeout    time.Duration
	HTTPClient HTTPClient
}

type Client struct {
	api        *api.Client
	http       HTTPClient
	baseURL    *url.URL
	model      string
	numPredict int
	timeout    time.Duration
}

var (
	errNotObject   = errors.New("response is not a JSON object")
	errNullMessage = errors.New("response message is null")
)

// chatMessage is the "message" object of an /api/chat reply. Pointers
// distinguish absent fields from empty ones.
type chatMessage struct {
	Role    *string `json:"role"`
	Content *string `json:"content"`
}

func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.NumPredict == 0 {
		opts.NumPredict = DefaultNumPredict
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("invalid timeout: %s", opts.Timeout)
	}

	parsedURL, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// The API client only backs Ping and ListModels, both bounded by their
	// own context deadlines.
	apiHTTP, ok := httpClient.(*http.Client)
	if !ok {
		apiHTTP = http.DefaultClient
	}

	return &Client{
		api:        api.NewClient(parsedURL, apiHTTP),
		http:       httpClient,
		baseURL:    parsedURL,
		model:      opts.Model,
		numPredict: opts.NumPredict,
		timeout:    opts.Timeout,
	}, nil
}

// Chat sends the conversation to /api/chat as a single non-streaming request
// and returns the normalized assistant reply.
//
// Errors are one of *TransportError, *TimeoutError, *StatusError or
// *DecodeError so callers can report each kind differently.
func (c *Client) Chat(ctx context.Context, messages []model.Message) (model.Message, error) {
	stream := false
	req := api.ChatRequest{
		Model:    c.model,
		Messages: ConvertToOllamaMessages(messages),
		Stream:   &stream,
		Options: map[string]any{
			"num_predict": c.numPredict,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return model.Message{}, fmt.Errorf("encode request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL.JoinPath(chatURI).String()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Message{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if config.Debug {
		config.DebugLog.Debug("[Ollama] chat request",
			zap.String("endpoint", endpoint),
			zap.String("model", c.model),
			zap.Int("messages", len(messages)),
			zap.String("body", truncateForLog(string(body))),
		)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return model.Message{}, c.classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Message{}, c.classifyTransport(ctx, err)
	}

	if config.Debug {
		config.DebugLog.Debug("[Ollama] chat response",
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("body", truncateForLog(string(raw))),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Message{}, newStatusError(resp.StatusCode, raw)
	}

	content, err := decodeReply(raw)
	if err != nil {
		return model.Message{}, &DecodeError{Err: err, Body: string(raw)}
	}
	return model.NormalizeReply(content), nil
}

// decodeReply pulls message.content out of a chat reply. A missing message
// or content yields nil; a body that is not an object, or an explicit
// "message": null, is an error.
func decodeReply(raw []byte) (*string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}

	msgRaw, ok := fields["message"]
	if !ok {
		return nil, nil
	}
	if bytes.Equal(bytes.TrimSpace(msgRaw), []byte("null")) {
		return nil, errNullMessage
	}

	var msg chatMessage
	if err := json.Unmarshal(msgRaw, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return msg.Content, nil
}

// newStatusError prefers the server's "error" field. When the body carries
// none, Body keeps the raw text for display.
func newStatusError(code int, raw []byte) *StatusError {
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error != "" {
		return &StatusError{StatusCode: code, Message: decoded.Error}
	}
	return &StatusError{
		StatusCode: code,
		Message:    http.StatusText(code),
		Body:       strings.TrimSpace(string(raw)),
	}
}

func (c *Client) classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Timeout: c.timeout, Err: err}
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Timeout: c.timeout, Err: err}
	}
	return &TransportError{Err: err}
}

func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]ModelInfo, len(resp.Models))
	for i, m := range resp.Models {
		models[i] = ModelInfo{
			Name:       m.Name,
			Size:       m.Size,
			ModifiedAt: m.ModifiedAt,
		}
	}

	return models, nil
}

func (c *Client) GetModel() string {
	return c.model
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := c.api.List(ctx)
	return err
}

func truncateForLog(s string) string {
	return runewidth.Truncate(s, logBodyWidth, "...")
}
