package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "weatherskald.cfg")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write settings file: %v", err)
	}
	return path
}

func TestLoadSettings(t *testing.T) {
	path := writeSettingsFile(t, "weatherflow_token T\nweatherflow_station_id 123\nopenai_key K\n")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}

	if settings.WeatherflowToken() != "T" {
		t.Errorf("Expected WeatherflowToken 'T', got '%s'", settings.WeatherflowToken())
	}
	if settings.WeatherflowStationID() != "123" {
		t.Errorf("Expected WeatherflowStationID '123', got '%s'", settings.WeatherflowStationID())
	}
	if settings.OpenAIKey() != "K" {
		t.Errorf("Expected OpenAIKey 'K', got '%s'", settings.OpenAIKey())
	}
}

func TestLoadSettings_ExactMapping(t *testing.T) {
	path := writeSettingsFile(t, "weatherflow_token tok-1\nweatherflow_station_id 67295\nopenai_key sk-abc\nextra_setting some value with spaces\n")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}

	want := map[string]string{
		"weatherflow_token":      "tok-1",
		"weatherflow_station_id": "67295",
		"openai_key":             "sk-abc",
		"extra_setting":          "some value with spaces",
	}

	got := settings.Map()
	if len(got) != len(want) {
		t.Errorf("Expected %d settings, got %d", len(want), len(got))
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("Expected settings[%q] = %q, got %q", key, value, got[key])
		}
	}

	// Map returns a copy
	got["openai_key"] = "mutated"
	if settings.OpenAIKey() != "sk-abc" {
		t.Errorf("Expected settings to be unaffected by copy mutation, got %q", settings.OpenAIKey())
	}
}

func TestLoadSettings_SplitsOnFirstWhitespaceRun(t *testing.T) {
	// Tabs and runs of spaces both separate key from value; the value keeps
	// any whitespace beyond the first run.
	path := writeSettingsFile(t, "weatherflow_token\tT\nweatherflow_station_id   123\nopenai_key K  trailing\n")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}

	if settings["weatherflow_token"] != "T" {
		t.Errorf("Expected tab-separated value 'T', got '%s'", settings["weatherflow_token"])
	}
	if settings["weatherflow_station_id"] != "123" {
		t.Errorf("Expected run-separated value '123', got '%s'", settings["weatherflow_station_id"])
	}
	if settings["openai_key"] != "K  trailing" {
		t.Errorf("Expected value 'K  trailing', got '%s'", settings["openai_key"])
	}
}

func TestLoadSettings_MalformedLine(t *testing.T) {
	path := writeSettingsFile(t, "weatherflow_token T\njustakey\nopenai_key K\n")

	_, err := LoadSettings(path)
	if err == nil {
		t.Fatal("Expected error for line without separator")
	}
	if !errors.Is(err, ErrMalformedLine) {
		t.Errorf("Expected ErrMalformedLine, got %v", err)
	}
}

func TestLoadSettings_MissingRequiredKey(t *testing.T) {
	path := writeSettingsFile(t, "weatherflow_token T\nweatherflow_station_id 123\n")

	_, err := LoadSettings(path)
	if err == nil {
		t.Fatal("Expected error for missing openai_key")
	}
	if !errors.Is(err, ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "does-not-exist.cfg"))
	if err == nil {
		t.Fatal("Expected error for missing settings file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}
