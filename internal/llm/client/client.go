// Package client wraps the eino chat-model providers behind a minimal
// text-generation interface. Each provider constructor returns an LLMClient
// configured with the shared sampling parameters.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// LLMClient adapts one eino chat model to the TextGenerator interface,
// applying the configured timeout and draining streamed responses into a
// single string.
type LLMClient struct {
	provider  string
	chatModel model.BaseChatModel
	sampling  SamplingConfig
}

func newLLMClient(provider string, chatModel model.BaseChatModel, sampling SamplingConfig) *LLMClient {
	return &LLMClient{provider: provider, chatModel: chatModel, sampling: sampling}
}

// Provider reports which backend this client talks to: "gemini", "openai"
// or "claude".
func (c *LLMClient) Provider() string { return c.provider }

// GenerateText sends the rendered prompt messages and returns the model's
// text. Whitespace-only output counts as a failure so callers never parse
// an empty response.
func (c *LLMClient) GenerateText(ctx context.Context, messages []*schema.Message) (string, error) {
	if len(messages) == 0 {
		return "", &GenerationError{Provider: c.provider, Err: errors.New("no messages to send")}
	}
	if c.sampling.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.sampling.Timeout)
		defer cancel()
	}

	var (
		content string
		err     error
	)
	if c.sampling.Streaming {
		content, err = c.generateStreamed(ctx, messages)
	} else {
		content, err = c.generate(ctx, messages)
	}
	if err != nil {
		return "", &GenerationError{Provider: c.provider, Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return "", &GenerationError{Provider: c.provider, Err: errors.New("model returned no usable text")}
	}
	return content, nil
}

func (c *LLMClient) generate(ctx context.Context, messages []*schema.Message) (string, error) {
	msg, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", fmt.Errorf("model returned nil message")
	}
	return msg.Content, nil
}

func (c *LLMClient) generateStreamed(ctx context.Context, messages []*schema.Message) (string, error) {
	reader, err := c.chatModel.Stream(ctx, messages)
	if err != nil {
		return "", err
	}
	if reader == nil {
		return "", fmt.Errorf("model returned nil stream reader")
	}
	defer reader.Close()

	var sb strings.Builder
	for {
		chunk, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			return "", recvErr
		}
		sb.WriteString(chunk.Content)
	}
	return sb.String(), nil
}
