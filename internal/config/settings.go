package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Keys the settings file must provide.
const (
	KeyWeatherflowToken     = "weatherflow_token"
	KeyWeatherflowStationID = "weatherflow_station_id"
	KeyOpenAIKey            = "openai_key"
)

var (
	// ErrMalformedLine indicates a settings line with no whitespace separator
	// between key and value.
	ErrMalformedLine = errors.New("settings line has no key/value separator")

	// ErrMissingKey indicates a required setting is absent from the file.
	ErrMissingKey = errors.New("required setting missing")
)

// Settings is the key/value mapping loaded from the skald settings file.
// It holds the credentials for the external collaborators and is immutable
// after load.
type Settings map[string]string

// LoadSettings reads a settings file with one setting per line. Each line is
// split on the first run of whitespace into a key and a value; the value is
// everything after that run with the trailing newline stripped. There is no
// quoting, escaping, or comment syntax. The file must provide
// weatherflow_token, weatherflow_station_id, and openai_key.
func LoadSettings(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open settings file: %w", err)
	}
	defer f.Close()

	settings, err := parseSettings(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

func parseSettings(r io.Reader) (Settings, error) {
	settings := Settings{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		sep := strings.IndexFunc(text, unicode.IsSpace)
		if sep < 0 {
			return nil, fmt.Errorf("%w: line %d", ErrMalformedLine, line)
		}

		key := text[:sep]
		value := strings.TrimLeftFunc(text[sep:], unicode.IsSpace)
		settings[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	for _, key := range []string{KeyWeatherflowToken, KeyWeatherflowStationID, KeyOpenAIKey} {
		if _, ok := settings[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
	}

	return settings, nil
}

// WeatherflowToken returns the WeatherFlow API token.
func (s Settings) WeatherflowToken() string {
	return s[KeyWeatherflowToken]
}

// WeatherflowStationID returns the WeatherFlow station identifier.
func (s Settings) WeatherflowStationID() string {
	return s[KeyWeatherflowStationID]
}

// OpenAIKey returns the OpenAI API key.
func (s Settings) OpenAIKey() string {
	return s[KeyOpenAIKey]
}

// Map returns a copy of all loaded settings; mutating the copy does not
// affect the Settings.
func (s Settings) Map() map[string]string {
	m := make(map[string]string, len(s))
	for k, v := range s {
		m[k] = v
	}
	return m
}
