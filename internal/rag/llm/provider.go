package llm

import "context"

// Token is one fragment of a streamed answer. Err is set on the terminating token
// when the provider fails mid-stream.
type Token struct {
	Text string
	Err  error
}

// Provider turns a prompt into a live stream of answer fragments. The returned
// channel is closed exactly once, on completion, error or context cancellation.
type Provider interface {
	GenerateStream(ctx context.Context, prompt string) <-chan Token
}
