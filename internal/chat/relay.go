package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
)

var (
	// ErrAPIKeyMissing is returned when the relay has no provider credential.
	ErrAPIKeyMissing = errors.New("AI API key is not configured")
	// ErrNoMessages is returned for an empty transcript.
	ErrNoMessages = errors.New("at least one message is required")
	// ErrInvalidRole is returned for roles other than user and assistant.
	ErrInvalidRole = errors.New("message role must be user or assistant")
	// ErrEmptyContent is returned for a message without content.
	ErrEmptyContent = errors.New("message content must not be empty")
	// ErrNoChoices is returned when the provider answers without a completion.
	ErrNoChoices = errors.New("AI gateway returned no choices")
)

// Completer produces an assistant reply for a transcript.
type Completer interface {
	Complete(ctx context.Context, messages []safety.Message) (string, error)
}

// Relay forwards transcripts to the completion provider.
type Relay struct {
	client openai.Client
	model  string
	hasKey bool
}

// NewRelay creates a relay for cfg. Extra options are appended to the
// provider client options.
func NewRelay(cfg config.AIConfig, opts ...option.RequestOption) *Relay {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultAIBaseURL
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultAIModel
	}

	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}, opts...)

	return &Relay{
		client: openai.NewClient(clientOpts...),
		model:  model,
		hasKey: cfg.APIKey != "",
	}
}

// Validate checks a transcript before it is sent.
func Validate(messages []safety.Message) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}

	for i, m := range messages {
		if m.Role != safety.RoleUser && m.Role != safety.RoleAssistant {
			return fmt.Errorf("message %d: %w", i, ErrInvalidRole)
		}

		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("message %d: %w", i, ErrEmptyContent)
		}
	}

	return nil
}

// Complete sends the system prompt followed by messages and returns the reply.
func (r *Relay) Complete(ctx context.Context, messages []safety.Message) (string, error) {
	if !r.hasKey {
		return "", ErrAPIKeyMissing
	}

	if err := Validate(messages); err != nil {
		return "", err
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	params = append(params, openai.SystemMessage(SystemPrompt))

	for _, m := range messages {
		switch m.Role {
		case safety.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	completion, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.model),
		Messages: params,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			logger.ErrorKV(ctx, "AI gateway error", "status", apiErr.StatusCode, "error", err)
			return "", fmt.Errorf("AI gateway error: %d", apiErr.StatusCode)
		}

		return "", fmt.Errorf("AI gateway request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrNoChoices
	}

	logger.DebugKV(ctx, "Chat completion relayed", "model", r.model, "messages", len(messages))

	return completion.Choices[0].Message.Content, nil
}
