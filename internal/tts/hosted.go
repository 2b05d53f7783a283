package tts

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Hosted renders speech through the hosted text-to-speech API and streams
// the returned MP3 to disk.
type Hosted struct {
	client     *openai.Client
	model      string
	voice      string
	outputBase string
	log        zerolog.Logger
}

// NewHosted builds a hosted backend. outputBase is the destination path
// without extension; Synthesize appends ".mp3".
func NewHosted(client *openai.Client, model, voice, outputBase string, log zerolog.Logger) *Hosted {
	return &Hosted{
		client:     client,
		model:      model,
		voice:      voice,
		outputBase: outputBase,
		log:        log,
	}
}

// Synthesize requests speech for text and writes the audio stream to
// <outputBase>.mp3. A partial file left by a failed write is removed.
func (h *Hosted) Synthesize(ctx context.Context, text string) (string, error) {
	h.log.Debug().
		Str("model", h.model).
		Str("voice", h.voice).
		Int("text_chars", len(text)).
		Msg("Requesting speech")

	resp, err := h.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(h.model),
		Input: text,
		Voice: openai.SpeechVoice(h.voice),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Close()

	path := h.outputBase + ".mp3"
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	written, err := io.Copy(out, resp)
	if err != nil {
		out.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	h.log.Info().Str("path", path).Int64("bytes", written).Msg("Speech saved")
	return path, nil
}
