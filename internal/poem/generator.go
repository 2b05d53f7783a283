package poem

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// promptPrefix frames every completion request. The weather summary is
// appended verbatim.
const promptPrefix = "Write a paragraph describing the following weather in the style of a Viking skald: "

// ErrCompletion marks failures reported by the language model service,
// including responses that carry no usable text.
var ErrCompletion = errors.New("poem completion failed")

// Generator turns weather summaries into skaldic verse through a chat
// completion model.
type Generator struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

// NewGenerator builds a Generator. model names the chat completion model,
// for example gpt-4.
func NewGenerator(client *openai.Client, model string, log zerolog.Logger) *Generator {
	return &Generator{client: client, model: model, log: log}
}

// Generate asks the model for a skaldic paragraph describing the summary.
// The model's text is returned verbatim, without post-processing.
func (g *Generator) Generate(ctx context.Context, summary string) (string, error) {
	g.log.Debug().
		Str("model", g.model).
		Int("summary_chars", len(summary)).
		Msg("Requesting poem")

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptPrefix + summary},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response carried no choices", ErrCompletion)
	}

	text := resp.Choices[0].Message.Content
	g.log.Info().Int("poem_chars", len(text)).Msg("Poem composed")
	return text, nil
}
