package concierge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"elysoir/storefront/internal/config"
	"elysoir/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

const (
	MissingKeyReply = "Configuration Error: Please provide an API Key in the environment variables."
	FailureReply    = "I apologize, but I am having a moment of technical difficulty. Please browse our collection in the meantime."
	EmptyReply      = "I apologize, I am unable to formulate a response at this moment."
)

const (
	temperature = 0.7
	maxTokens   = 500
)

// Concierge answers shopper questions about the current collection.
// It never returns an error: every failure becomes a fixed reply.
type Concierge interface {
	Reply(ctx context.Context, history []domain.ChatMessage, message string, products []domain.Product) string
}

type chatClient struct {
	config     config.ConciergeConfig
	httpClient *resty.Client
}

func NewConcierge(cfg config.ConciergeConfig) Concierge {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")

	if cfg.Timeout > 0 {
		client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	} else {
		log.Warn("⚠️ Concierge API key is not set, chat replies will ask for configuration")
	}

	return &chatClient{config: cfg, httpClient: client}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *chatClient) Reply(ctx context.Context, history []domain.ChatMessage, message string, products []domain.Product) string {
	if c.config.APIKey == "" {
		log.Error("❌ Concierge request without API key")
		return MissingKeyReply
	}

	reply, err := c.complete(ctx, buildMessages(history, message, products))
	if err != nil {
		log.Errorf("❌ Concierge request failed: %v", err)
		return FailureReply
	}
	if reply == "" {
		return EmptyReply
	}
	return reply
}

func (c *chatClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       c.config.Model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		}).
		Post(c.config.Endpoint)
	if err != nil {
		return "", fmt.Errorf("failed to call chat endpoint: %w", err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error: %d %s: %s", resp.StatusCode(), strings.TrimSpace(resp.Status()), resp.String())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Bytes(), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func buildMessages(history []domain.ChatMessage, message string, products []domain.Product) []chatMessage {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: SystemInstruction(products)})
	for _, h := range history {
		role := "user"
		if h.Role == domain.ChatRoleModel {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: h.Text})
	}
	return append(messages, chatMessage{Role: "user", Content: message})
}

// SystemInstruction describes the concierge persona and lists the collection.
func SystemInstruction(products []domain.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("- %s ($%s): %s. Specs: %s",
			p.Name, p.Price.String(), p.Description, strings.Join(p.Features, ", ")))
	}

	var b strings.Builder
	b.WriteString(`You are the Private Concierge for "Elysoir", an ultra-exclusive boutique for fine jewelry, designer toys, and luxury women's watches.

Your personality:
- Sophisticated, knowledgeable, and slightly artistic.
- You speak like a personal shopper at a high-end luxury house.
- Use words like "bespoke", "timeless", "curated", "masterpiece", and "exquisite".

Your expertise:
- Jewelry: 18K gold, gemstone cuts, and pairing necklaces with necklines.
- Watches: movements, sapphire glass, and leather patinas.
- Art Toys: rarity, editions, and modern art movements.

Current Elysoir Collection:
`)
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString(`

Keep responses under 3 concise, elegant sentences. Always aim to help the customer find the piece that matches their personal style.`)
	return b.String()
}
