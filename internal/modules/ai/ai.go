package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var ErrEmptyCompletion = errors.New("model returned an empty completion")

type PromptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type Prompts struct {
	Rewrite PromptPair `yaml:"rewrite"`
	Story   PromptPair `yaml:"story"`
}

// LoadPrompts reads the prompt templates from a YAML file. Templates
// use {title} and {content} placeholders.
func LoadPrompts(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prompts: %w", err)
	}

	var prompts Prompts
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if prompts.Rewrite.System == "" || prompts.Story.System == "" {
		return nil, errors.New("prompts file is missing rewrite or story sections")
	}
	return &prompts, nil
}

func (p PromptPair) Fill(title, content string) string {
	filled := strings.ReplaceAll(p.User, "{title}", title)
	return strings.ReplaceAll(filled, "{content}", content)
}

type Client struct {
	api     openai.Client
	model   string
	prompts *Prompts
}

func New(apiKey, baseURL, model string, prompts *Prompts) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:     openai.NewClient(opts...),
		model:   model,
		prompts: prompts,
	}
}

type RewriteResult struct {
	NewTitle   string `json:"new_title"`
	NewContent string `json:"new_content"`
}

func (c *Client) Rewrite(ctx context.Context, title, content string) (*RewriteResult, error) {
	completion, err := c.complete(ctx, c.prompts.Rewrite, title, content)
	if err != nil {
		return nil, err
	}
	return parseRewrite(completion, title), nil
}

type StoryCard struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (c *Client) VisualStory(ctx context.Context, title, content string) ([]StoryCard, error) {
	completion, err := c.complete(ctx, c.prompts.Story, title, content)
	if err != nil {
		return nil, err
	}

	cards, err := parseStory(completion)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) complete(ctx context.Context, prompt PromptPair, title, content string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.Fill(title, content)),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// parseRewrite tolerates models that wrap their JSON in markdown
// fences or prose. When no JSON object can be recovered the whole
// completion becomes the new content and the title stays.
func parseRewrite(completion, originalTitle string) *RewriteResult {
	var result RewriteResult
	if err := json.Unmarshal([]byte(extractJSON(completion, '{', '}')), &result); err == nil {
		if result.NewContent != "" {
			if result.NewTitle == "" {
				result.NewTitle = originalTitle
			}
			return &result
		}
	}
	return &RewriteResult{NewTitle: originalTitle, NewContent: strings.TrimSpace(completion)}
}

func parseStory(completion string) ([]StoryCard, error) {
	var cards []StoryCard
	if err := json.Unmarshal([]byte(extractJSON(completion, '[', ']')), &cards); err != nil {
		return nil, fmt.Errorf("story output is not a card array: %w", err)
	}

	filtered := make([]StoryCard, 0, len(cards))
	for _, card := range cards {
		if card.Title != "" || card.Text != "" {
			filtered = append(filtered, card)
		}
	}
	if len(filtered) == 0 {
		return nil, errors.New("story output contained no cards")
	}
	return filtered, nil
}

// extractJSON cuts the outermost open..close span out of a
// completion, dropping markdown fences and surrounding prose.
func extractJSON(completion string, open, closing byte) string {
	start := strings.IndexByte(completion, open)
	end := strings.LastIndexByte(completion, closing)
	if start == -1 || end <= start {
		return completion
	}
	return completion[start : end+1]
}
