// internal/adapters/llm/openai.go
package llm

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"revenue_optimizer/internal/engine"
)

// OpenAI turns the chat-completion API into a Completer. The system prompt
// pins the response format the narrative parser expects.
type OpenAI struct {
	cl    *openai.Client
	model string
	rl    *rate.Limiter
}

func NewOpenAI(key, model string) (*OpenAI, error) {
	if key == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		cl:    openai.NewClient(key),
		model: model,
		rl:    rate.NewLimiter(rate.Limit(2), 2),
	}, nil
}

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if err := o.rl.Wait(ctx); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.3,
		MaxTokens:   900,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: engine.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var lastErr error
	for i := 0; i < 3; i++ {
		resp, err := o.cl.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", fmt.Errorf("openai: empty choice list")
			}
			out := strings.TrimSpace(resp.Choices[0].Message.Content)
			if out == "" {
				return "", fmt.Errorf("openai: empty completion")
			}
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if i < 2 {
			sleep(ctx, backoff(i))
		}
	}
	return "", fmt.Errorf("openai: %w", lastErr)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// backoff doubles per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 500 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	return base + time.Duration(0.5*float64(b[0])/255.0*float64(base))
}
