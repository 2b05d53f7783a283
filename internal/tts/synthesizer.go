// Package tts renders poem text to audio. Two backends implement the
// same contract: a hosted speech API and a local voice-cloning model
// driven through its command line.
package tts

import (
	"context"
	"errors"
)

// Sentinel errors shared by the synthesis backends.
var (
	// ErrService marks failures reported by the hosted speech service.
	ErrService = errors.New("speech service error")

	// ErrModelUnavailable marks a local model that cannot be loaded,
	// typically because the synthesis binary is not installed.
	ErrModelUnavailable = errors.New("speech model unavailable")

	// ErrSynthesis marks a synthesis run that started but did not
	// produce usable audio.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// Synthesizer renders text to an audio file on disk and returns its path.
// Each backend appends its own container extension to the configured
// output base.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Checker is implemented by backends that can verify their prerequisites
// without synthesizing anything.
type Checker interface {
	Check() error
}
