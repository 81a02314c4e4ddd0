package llm

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

type chatCompleter interface {
	GetChatCompletions(ctx context.Context, body azopenai.ChatCompletionsOptions, options *azopenai.GetChatCompletionsOptions) (azopenai.GetChatCompletionsResponse, error)
}

// AzureClient implements Client for an Azure OpenAI deployment.
type AzureClient struct {
	chat   chatCompleter
	config *Config
}

// NewAzureClient creates a client authenticated with an API key.
func NewAzureClient(config *Config, apiKey string) (*AzureClient, error) {
	if config.Endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("azure endpoint and API key are required")
	}

	client, err := azopenai.NewClientWithKeyCredential(config.Endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &AzureClient{chat: client, config: config}, nil
}

// Generate implements Client. The system instruction is sent ahead of the
// question in a single user message.
func (c *AzureClient) Generate(ctx context.Context, system, prompt string, tier ModelTier) (string, error) {
	deployment := c.config.GetModel(tier)
	if deployment == "" {
		return "", fmt.Errorf("no deployment configured for tier %s", tier)
	}

	resp, err := c.chat.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(deployment),
		Temperature:    to.Ptr(c.config.Temperature),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(JoinPrompt(system, prompt)),
			},
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("no completion received from LLM")
	}
	return CleanReply(*resp.Choices[0].Message.Content), nil
}

// Name implements Client.
func (c *AzureClient) Name() string {
	return "azure/" + c.config.GetModel(TierStandard)
}

// Close implements Client.
func (c *AzureClient) Close() error {
	return nil
}
