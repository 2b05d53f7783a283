// Package narrator runs the forecast-to-audio pipeline: fetch a station
// forecast, render it as skaldic verse, then hand the verse to a
// synthesis backend.
package narrator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skaldlabs/weatherskald/internal/tts"
	"github.com/skaldlabs/weatherskald/internal/weather"
)

// ForecastFetcher yields a station weather report.
type ForecastFetcher interface {
	Fetch(ctx context.Context) (weather.Report, error)
}

// PoemGenerator renders a weather summary as verse.
type PoemGenerator interface {
	Generate(ctx context.Context, summary string) (string, error)
}

// Narrator chains the pipeline stages. Stages run strictly in sequence
// and the first failure aborts the run; nothing is cached between runs.
type Narrator struct {
	fetcher   ForecastFetcher
	generator PoemGenerator
	log       zerolog.Logger
}

// New builds a Narrator over the given collaborators.
func New(fetcher ForecastFetcher, generator PoemGenerator, log zerolog.Logger) *Narrator {
	return &Narrator{fetcher: fetcher, generator: generator, log: log}
}

// Forecast fetches the station's current report and renders it as the
// summary string fed to the poem prompt.
func (n *Narrator) Forecast(ctx context.Context) (string, error) {
	report, err := n.fetcher.Fetch(ctx)
	if err != nil {
		return "", err
	}

	summary := report.Summary()
	n.log.Debug().Int("summary_chars", len(summary)).Msg("Forecast summarized")
	return summary, nil
}

// Poem fetches a fresh forecast and renders it as verse.
func (n *Narrator) Poem(ctx context.Context) (string, error) {
	summary, err := n.Forecast(ctx)
	if err != nil {
		return "", err
	}
	return n.generator.Generate(ctx, summary)
}

// Narrate runs the full pipeline and returns the path of the audio file
// the backend wrote.
func (n *Narrator) Narrate(ctx context.Context, backend tts.Synthesizer) (string, error) {
	poem, err := n.Poem(ctx)
	if err != nil {
		return "", err
	}

	path, err := backend.Synthesize(ctx, poem)
	if err != nil {
		return "", err
	}

	n.log.Info().Str("path", path).Msg("Narration complete")
	return path, nil
}
