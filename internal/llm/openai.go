package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the OpenAI Chat Completions API. Alternate provider for
// deployments without Google credentials.
type OpenAIClient struct {
	apiKey string
	model  openai.ChatModel
}

// NewOpenAIClient builds a client with defaults against api.openai.com.
// The key may be empty; a caller-supplied key on the request can still
// satisfy a call.
func NewOpenAIClient(apiKey string, model openai.ChatModel) *OpenAIClient {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIClient{apiKey: apiKey, model: model}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	key := req.APIKey
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return "", ErrNotConfigured
	}
	model := openai.ChatModel(req.Model)
	if model == "" {
		model = c.model
	}
	cli := openai.NewClient(option.WithAPIKey(key))
	resp, err := cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(req.Prompt),
					},
				},
			},
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from LLM")
	}
	return resp.Choices[0].Message.Content, nil
}
