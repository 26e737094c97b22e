// internal/coach/client.go
package coach

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"grasfrei/internal/format"
	"grasfrei/internal/savings"
)

// Client generates short encouragement messages from a savings snapshot.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  "gpt-4",
	}
}

func (c *Client) WithModel(model string) *Client {
	c.model = model
	return c
}

// Encourage turns the current summary into a short German motivational
// message for the user.
func (c *Client) Encourage(ctx context.Context, sum savings.Summary, locale string) (string, error) {
	prompt := fmt.Sprintf(
		"Ein Nutzer reduziert seinen Cannabiskonsum. Bisherige Bilanz:\n"+
			"- Vermiedene Menge: %s g\n"+
			"- Vermiedene Joints: %s\n"+
			"- Gespartes Geld: %s\n"+
			"- Zurueckgewonnene Zeit: %s (HH:MM)\n\n"+
			"Schreibe eine kurze, warme Ermutigung (maximal drei Saetze). "+
			"Keine medizinischen Ratschlaege, keine Vorwuerfe.",
		format.Grams(sum.Saved.Grams, locale),
		format.Joints(sum.Saved.Joints, locale),
		format.Currency(sum.Saved.Money, locale),
		format.Minutes(sum.Saved.Minutes),
	)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Du bist ein einfuehlsamer Coach, der Menschen beim Reduzieren ihres Cannabiskonsums begleitet.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from coach API")
	}
	return resp.Choices[0].Message.Content, nil
}
