// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/meshintel/blogsmith/pkg/types"
)

// OpenAIClient implements Client using the official openai-go SDK
// (chat completions).
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

// NewOpenAIClient builds a client from the generation config. The API key
// and model are required; BaseURL overrides the endpoint for tests and
// compatible providers.
func NewOpenAIClient(cfg types.GenerationConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide .secrets/openai-api-key or generation.api_key")
	}
	if cfg.Model == "" {
		return nil, errors.New("generation model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIClient{model: cfg.Model, opts: opts}, nil
}

// Complete sends the prompt and returns the model's free-text response.
func (c *OpenAIClient) Complete(ctx context.Context, p Prompt) (string, error) {
	return c.complete(ctx, p, false)
}

// CompleteJSON sends the prompt with the json_object response format so
// the model returns a single JSON object.
func (c *OpenAIClient) CompleteJSON(ctx context.Context, p Prompt) (string, error) {
	return c.complete(ctx, p, true)
}

func (c *OpenAIClient) complete(ctx context.Context, p Prompt, jsonMode bool) (string, error) {
	client := openai.NewClient(c.opts...)

	var msgs []openai.ChatCompletionMessageParamUnion
	if p.System != "" {
		msgs = append(msgs, openai.SystemMessage(p.System))
	}
	msgs = append(msgs, openai.UserMessage(p.User))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: msgs,
	}
	if jsonMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty choices in model response")
	}
	return resp.Choices[0].Message.Content, nil
}
