package gemini

import (
	"context"
	"sync"

	"github.com/ndadi/PersonaRAG/internal/rag/llm"
	"github.com/ndadi/PersonaRAG/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, apikey string, modelName string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}
}

// GenerateStream relays generation deltas as they arrive. One producer goroutine
// iterates the provider stream; the consumer drains the channel and forwards each
// fragment downstream. The channel closes exactly once.
func (c *llmClient) GenerateStream(ctx context.Context, prompt string) <-chan llm.Token {
	out := make(chan llm.Token)

	go func() {
		defer close(out)
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.modelName, genai.Text(prompt), nil) {
			if err != nil {
				logger.Error("Gemini stream failed", "error", err)
				select {
				case out <- llm.Token{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case out <- llm.Token{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func closeClient(ctx context.Context, llmc *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llmc.client = nil
	llmc.modelName = ""
}
