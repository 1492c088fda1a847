package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/sos-button/internal/domain/safety"
)

// Path is where the relay is served.
const Path = "/functions/v1/chat-ai"

// Request is the relay request body.
type Request struct {
	Messages []safety.Message `json:"messages"`
}

// Response is the relay response body; exactly one field is set.
type Response struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// errEmptyReply is returned when the relay answers without a message or error.
var errEmptyReply = errors.New("relay returned an empty reply")

// Client calls a remote relay over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the relay served at baseURL (scheme and host).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(baseURL, "/") + Path,
		http:     &http.Client{Timeout: timeout},
	}
}

// Complete posts messages to the relay and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, messages []safety.Message) (string, error) {
	body, err := json.Marshal(Request{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	var reply Response
	if err = json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}

	switch {
	case reply.Error != "":
		//nolint:err113 // The message comes from the relay.
		return "", errors.New(reply.Error)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("chat relay returned status %d", resp.StatusCode)
	case reply.Message == "":
		return "", errEmptyReply
	}

	return reply.Message, nil
}

// Conversation keeps a transcript that starts with the assistant greeting.
type Conversation struct {
	completer Completer

	mu       sync.Mutex
	messages []safety.Message
}

// NewConversation starts a transcript completed by completer.
func NewConversation(completer Completer) *Conversation {
	return &Conversation{
		completer: completer,
		messages:  []safety.Message{{Role: safety.RoleAssistant, Content: Greeting}},
	}
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []safety.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]safety.Message(nil), c.messages...)
}

// Send appends input as a user message and the reply as an assistant message.
// Blank input returns ErrEmptyContent without calling the completer. On failure
// the user message stays in the transcript and no reply is added.
func (c *Conversation) Send(ctx context.Context, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmptyContent
	}

	c.mu.Lock()
	c.messages = append(c.messages, safety.Message{Role: safety.RoleUser, Content: input})
	transcript := append([]safety.Message(nil), c.messages...)
	c.mu.Unlock()

	reply, err := c.completer.Complete(ctx, transcript)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.messages = append(c.messages, safety.Message{Role: safety.RoleAssistant, Content: reply})
	c.mu.Unlock()

	return reply, nil
}
