package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// Completer sends a single-turn prompt to a chat model.
type Completer interface {
	GetChatCompletion(ctx context.Context, prompt string) (string, error)
}

// ErrNoCompletion is returned when the service answers without a choice.
var ErrNoCompletion = errors.New("no completion received from model")

// TokenUsage accumulates token counts across calls.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AzOpenAIClient is a Completer backed by an Azure OpenAI deployment.
type AzOpenAIClient struct {
	client       *azopenai.Client
	deploymentID string
	temperature  float32

	mu    sync.Mutex
	usage TokenUsage
}

// NewAzOpenAIClient creates a client for the given endpoint and deployment.
// Every request is sent with the given sampling temperature.
func NewAzOpenAIClient(endpoint, apiKey, deploymentID string, temperature float32) (*AzOpenAIClient, error) {
	if endpoint == "" || apiKey == "" || deploymentID == "" {
		return nil, errors.New("azure openai: endpoint, api key and deployment are required")
	}
	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure openai client: %w", err)
	}
	return &AzOpenAIClient{
		client:       client,
		deploymentID: deploymentID,
		temperature:  temperature,
	}, nil
}

// GetChatCompletion sends prompt as a user message and returns the first
// choice's text.
func (c *AzOpenAIClient) GetChatCompletion(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(c.deploymentID),
			Temperature:    to.Ptr(c.temperature),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(prompt),
				},
			},
		},
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	c.addUsage(resp.Usage)

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}
	return "", ErrNoCompletion
}

func (c *AzOpenAIClient) addUsage(u *azopenai.CompletionsUsage) {
	if u == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if u.PromptTokens != nil {
		c.usage.PromptTokens += int(*u.PromptTokens)
	}
	if u.CompletionTokens != nil {
		c.usage.CompletionTokens += int(*u.CompletionTokens)
	}
	if u.TotalTokens != nil {
		c.usage.TotalTokens += int(*u.TotalTokens)
	}
}

// Usage returns the token counts accumulated so far.
func (c *AzOpenAIClient) Usage() TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}
