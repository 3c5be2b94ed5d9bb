// Package explain asks a remote chat-completions model to explain a circuit
// in plain language.
package explain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Gudvin82/quantum-simulator/internal/circuit"
)

var (
	ErrNoAPIKey      = errors.New("explain: API key is required")
	ErrEmptyCircuit  = errors.New("explain: circuit has no steps")
	ErrNoExplanation = errors.New("explain: response contained no explanation")
)

// Config configures the explanation endpoint. Any OpenAI-compatible
// chat-completions API works; the defaults point at OpenRouter.
type Config struct {
	APIKey     string        `env:"OPENROUTER_API_KEY"`
	BaseURL    string        `env:"QSIM_EXPLAIN_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model      string        `env:"QSIM_EXPLAIN_MODEL" envDefault:"deepseek/deepseek-r1-0528:free"`
	Referer    string        `env:"QSIM_EXPLAIN_REFERER" envDefault:"https://github.com/Gudvin82/quantum-simulator"`
	Title      string        `env:"QSIM_EXPLAIN_TITLE" envDefault:"Quantum Simulator"`
	Timeout    time.Duration `env:"QSIM_EXPLAIN_TIMEOUT" envDefault:"90s"`
	MaxRetries int           `env:"QSIM_EXPLAIN_RETRIES" envDefault:"2"`
}

// Client sends circuits to the explanation endpoint.
type Client struct {
	cfg    Config
	client openai.Client
	logger *log.Logger
}

// NewClient builds a client. It fails with ErrNoAPIKey when cfg.APIKey is blank.
func NewClient(cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Referer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.Referer))
	}
	if cfg.Title != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.Title))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}, nil
}

// Explain returns the model's explanation of c.
func (c *Client) Explain(ctx context.Context, circ *circuit.Circuit) (string, error) {
	if len(circ.Steps) == 0 {
		return "", ErrEmptyCircuit
	}

	requestID := uuid.NewString()
	start := time.Now()
	c.logger.Info("requesting explanation", "request_id", requestID, "model", c.cfg.Model, "steps", len(circ.Steps))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(circ)),
		},
	}, option.WithHeader("X-Request-ID", requestID))
	if err != nil {
		c.logger.Error("explanation failed", "request_id", requestID, "err", err)
		return "", fmt.Errorf("explain: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrNoExplanation
	}

	c.logger.Info("explanation received", "request_id", requestID, "elapsed", time.Since(start))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Prompt builds the tutor prompt for c.
func Prompt(c *circuit.Circuit) string {
	var sb strings.Builder
	sb.WriteString("You are a quantum physics teacher. Explain in simple words what this quantum circuit does.\n\n")
	fmt.Fprintf(&sb, "Number of qubits: %d\n\n", c.NumQubits)
	sb.WriteString("Circuit:\n")
	sb.WriteString(circuit.Describe(c))
	sb.WriteString("\n\nExplain:\n")
	sb.WriteString("1. What happens at each step\n")
	sb.WriteString("2. What the final state is\n")
	sb.WriteString("3. Whether there is superposition or entanglement\n\n")
	sb.WriteString("The answer should be understandable to a student without deep knowledge of quantum physics.")
	return sb.String()
}
