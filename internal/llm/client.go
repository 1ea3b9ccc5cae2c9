// Package llm wraps the OpenAI chat and vision endpoints behind two thin
// request/response adapters. No retries, no streaming; callers decide what
// to show the user when a call fails.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hychen-tw/mombot/pkg/logging"
)

const (
	defaultChatModel   = "gpt-4o-mini"
	defaultVisionModel = "gpt-4o-mini"
	defaultMaxTokens   = 300
)

// completer is the subset of the OpenAI client the adapters use.
type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config controls model selection and the output-length bound shared by both
// adapters.
type Config struct {
	ChatModel   string
	VisionModel string
	MaxTokens   int
	Logger      *logging.Logger
}

// Client produces conversational replies and image descriptions via OpenAI.
type Client struct {
	api         completer
	chatModel   string
	visionModel string
	maxTokens   int
	logger      *logging.Logger
}

// New returns an OpenAI-backed Client.
func New(api completer, cfg Config) *Client {
	if api == nil {
		panic("llm: completion client cannot be nil")
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = defaultVisionModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		api:         api,
		chatModel:   chatModel,
		visionModel: visionModel,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Chat requests one completion for a persona instruction plus user utterance.
func (c *Client) Chat(ctx context.Context, persona, userText string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.chatModel,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: persona},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	return firstChoice(resp)
}

// DescribeImage requests a textual description of raw image bytes. The image
// travels inline as a base64 data URI.
func (c *Client) DescribeImage(ctx context.Context, instruction string, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("llm: empty image payload")
	}
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.visionModel,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI}},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: vision completion: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
