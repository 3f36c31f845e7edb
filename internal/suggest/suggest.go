// Package suggest asks a chat-completion model for next-task ideas based on
// what a workspace already contains. Suggestions are best effort: any
// failure, from transport to an unparseable reply, yields an empty list and a
// log line, never an error the caller has to handle.
package suggest

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"listily/internal/model"
)

const (
	defaultModel   = openai.GPT4oMini
	maxSuggestions = 5
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	m := cfg.Model
	if m == "" {
		m = defaultModel
	}
	return &Client{api: openai.NewClientWithConfig(c), model: m, log: log}
}

// Tasks returns up to five suggested follow-up tasks for the workspace.
func (c *Client) Tasks(ctx context.Context, workspaceName string, tasks []model.Task) []string {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(workspaceName, tasks)},
		},
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("suggestion request failed")
		return nil
	}
	if len(resp.Choices) == 0 {
		c.log.Warn().Msg("suggestion response had no choices")
		return nil
	}
	return parseSuggestions(resp.Choices[0].Message.Content)
}

const systemPrompt = "You suggest short, concrete to-do items. " +
	"Reply with one suggestion per line and nothing else. " +
	"Suggestions must not repeat tasks the user already has."

func buildPrompt(workspaceName string, tasks []model.Task) string {
	var b strings.Builder
	b.WriteString("My list is called ")
	b.WriteString(strings.TrimSpace(workspaceName))
	b.WriteString(".\n")
	if len(tasks) == 0 {
		b.WriteString("It is empty so far.\n")
	} else {
		b.WriteString("Current tasks:\n")
		for _, t := range tasks {
			b.WriteString("- ")
			b.WriteString(t.Text)
			if t.Completed {
				b.WriteString(" (done)")
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("Suggest up to 5 tasks I could add next.")
	return b.String()
}

// parseSuggestions splits the model's reply into clean lines, tolerating
// bullets and numbering the model adds despite instructions.
func parseSuggestions(reply string) []string {
	var out []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. )")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
