package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LocalConfig carries the knobs for the local voice-cloning backend.
type LocalConfig struct {
	// Bin is the synthesis command, resolved through PATH unless absolute.
	Bin string
	// Model names the voice-cloning model the command should load.
	Model string
	// SpeakerWAV is the sample the cloned voice is conditioned on.
	SpeakerWAV string
	// Language is the language id passed to the model.
	Language string
	// Device selects "cuda" or "cpu"; empty means autodetect.
	Device string
	// OutputBase is the destination path without extension.
	OutputBase string
	// Timeout bounds a single synthesis run. Zero means no bound beyond
	// the caller's context.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Local renders speech by driving a voice-cloning model through its
// command line, conditioning the voice on a local speaker sample.
type Local struct {
	cfg LocalConfig
	log zerolog.Logger
}

// NewLocal builds a local backend. Synthesize appends ".wav" to the
// configured output base.
func NewLocal(cfg LocalConfig) *Local {
	return &Local{cfg: cfg, log: cfg.Logger}
}

// Check verifies the backend's prerequisites: the speaker sample is
// readable and the synthesis command resolves. No model is loaded.
func (l *Local) Check() error {
	if err := l.checkSpeakerSample(); err != nil {
		return err
	}
	if _, err := exec.LookPath(l.cfg.Bin); err != nil {
		return fmt.Errorf("%w: %s not found in PATH", ErrModelUnavailable, l.cfg.Bin)
	}
	return nil
}

// Synthesize runs the model and returns the path of the written WAV file.
// The speaker sample is checked before any model work starts, so a missing
// sample fails fast without producing output.
func (l *Local) Synthesize(ctx context.Context, text string) (string, error) {
	if err := l.checkSpeakerSample(); err != nil {
		return "", err
	}

	binPath, err := exec.LookPath(l.cfg.Bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH", ErrModelUnavailable, l.cfg.Bin)
	}

	device := l.cfg.Device
	if device == "" {
		device = detectDevice()
	}

	path := l.cfg.OutputBase + ".wav"
	args := []string{
		"--model_name", l.cfg.Model,
		"--text", text,
		"--speaker_wav", l.cfg.SpeakerWAV,
		"--language_idx", l.cfg.Language,
		"--out_path", path,
	}
	if device == "cuda" {
		args = append(args, "--use_cuda", "true")
	}

	runCtx := ctx
	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()
	}

	l.log.Info().
		Str("model", l.cfg.Model).
		Str("device", device).
		Msg("Synthesizing locally")
	start := time.Now()

	cmd := exec.CommandContext(runCtx, binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrSynthesis, err, strings.TrimSpace(string(output)))
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: no output at %s", ErrSynthesis, path)
	}

	l.log.Info().
		Str("path", path).
		Dur("elapsed", time.Since(start)).
		Msg("Speech saved")
	return path, nil
}

// checkSpeakerSample opens the conditioning sample so a missing or
// unreadable file surfaces as a plain filesystem error.
func (l *Local) checkSpeakerSample() error {
	f, err := os.Open(l.cfg.SpeakerWAV)
	if err != nil {
		return fmt.Errorf("speaker sample: %w", err)
	}
	return f.Close()
}

// detectDevice probes for an NVIDIA GPU through nvidia-smi.
func detectDevice() string {
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		return "cuda"
	}
	return "cpu"
}
