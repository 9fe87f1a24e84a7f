// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockAPI abstracts the Bedrock Converse call for testing.
type BedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockConfig configures the AWS Bedrock client.
type BedrockConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional, uses default chain if empty)
	Timeout   time.Duration // Request timeout (default 300s)
	MaxTokens int           // Max tokens for the response (default 4096)
}

// BedrockClient wraps the AWS Bedrock runtime client.
type BedrockClient struct {
	api        BedrockAPI
	modelID    string
	timeout    time.Duration
	maxTokens  int
	retryDelay time.Duration
	usage      Usage
}

// NewBedrockClient creates a Bedrock client from the given configuration.
// It initializes the AWS SDK client using the standard credential chain.
func NewBedrockClient(ctx context.Context, cfg BedrockConfig) (*BedrockClient, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrLLMFailure)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrLLMFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrLLMFailure, err)
	}

	return NewBedrockClientWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewBedrockClientWithAPI creates a client with a pre-configured API
// implementation. Used for testing with mock clients.
func NewBedrockClientWithAPI(api BedrockAPI, cfg BedrockConfig) *BedrockClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return &BedrockClient{
		api:        api,
		modelID:    cfg.ModelID,
		timeout:    timeout,
		maxTokens:  maxTokens,
		retryDelay: baseRetryDelay,
	}
}

// Complete sends the prompt as a single user message via Converse and
// returns the trimmed response text. Throttling is retried with
// backoff. Converse has no JSON-object switch, so Request.JSONObject is
// carried by the prompt alone.
func (c *BedrockClient) Complete(ctx context.Context, req Request) (string, error) {
	return withRetry(ctx, c.retryDelay, func() (string, error) {
		return c.converse(ctx, req)
	})
}

// CumulativeUsage returns the total token usage across all calls.
func (c *BedrockClient) CumulativeUsage() Usage {
	return c.usage
}

func (c *BedrockClient) converse(ctx context.Context, req Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []brtypes.Message{{
			Role: brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: req.Prompt},
			},
		}},
		InferenceConfig: &brtypes.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(c.maxTokens)),
			Temperature: aws.Float32(req.Temperature),
		},
	}

	output, err := c.api.Converse(callCtx, input)
	if err != nil {
		var throttle *brtypes.ThrottlingException
		if errors.As(err, &throttle) {
			return "", fmt.Errorf("%w: %v", ErrThrottled, err)
		}
		return "", c.classifyError(err)
	}

	msg, ok := output.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("%w: unexpected output type %T", ErrLLMFailure, output.Output)
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", ErrEmptyResponse
	}

	if output.Usage != nil {
		c.usage.InputTokens += int(aws.ToInt32(output.Usage.InputTokens))
		c.usage.OutputTokens += int(aws.ToInt32(output.Usage.OutputTokens))
	}
	return content, nil
}

// classifyError wraps Bedrock errors into ErrLLMFailure with descriptive
// messages.
func (c *BedrockClient) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrLLMFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrLLMFailure, c.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out after %s", ErrLLMFailure, c.timeout)
	}

	return fmt.Errorf("%w: %v", ErrLLMFailure, err)
}
