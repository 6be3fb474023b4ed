package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultClassifierConfig())
	require.NoError(t, err)
	return c
}

func TestIsWeatherQuery(t *testing.T) {
	c := newTestClassifier(t)

	weatherMessages := []string{
		"What's the weather in Paris?",
		"Is it going to RAIN today?",
		"how many degrees is it outside",
		"forecast for Rome next week",
		"London weather",
		"is it sunny",
		"what's the humidity like",
	}
	for _, msg := range weatherMessages {
		assert.True(t, c.IsWeatherQuery(msg), "expected weather query: %q", msg)
	}

	otherMessages := []string{
		"Tell me a joke",
		"What is the capital of France?",
		"How do I cook pasta?",
	}
	for _, msg := range otherMessages {
		assert.False(t, c.IsWeatherQuery(msg), "expected non-weather message: %q", msg)
	}
}

func TestExtractLocation(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		message string
		want    string
	}{
		{"What's the weather in Paris?", "Paris"},
		{"Weather in New York", "New York"},
		{"forecast for Rome next week", "Rome Next Week"},
		{"temperature in san francisco", "San Francisco"},
		{"how's the weather in tokyo", "Tokyo"},
	}
	for _, tc := range cases {
		got, ok := c.ExtractLocation(tc.message)
		require.True(t, ok, "expected a location in %q", tc.message)
		assert.Equal(t, tc.want, got, "message %q", tc.message)
	}

	_, ok := c.ExtractLocation("weather")
	assert.False(t, ok, "bare keyword has no location")
}

func TestExtractCountryCode(t *testing.T) {
	c := newTestClassifier(t)

	code, ok := c.ExtractCountryCode("weather in Paris FR")
	require.True(t, ok)
	assert.Equal(t, "FR", code)

	code, ok = c.ExtractCountryCode("weather in Berlin, DE?")
	require.True(t, ok)
	assert.Equal(t, "DE", code)

	// Lower-case words never count as codes; otherwise the word "in" would
	// resolve to India on every "weather in ..." message.
	_, ok = c.ExtractCountryCode("weather in Paris")
	assert.False(t, ok)

	_, ok = c.ExtractCountryCode("weather in berlin de please")
	assert.False(t, ok)

	_, ok = c.ExtractCountryCode("what should I do IndoorS today")
	assert.False(t, ok)
}

func TestDetectQueryCountryCode(t *testing.T) {
	c := newTestClassifier(t)

	q, ok := c.DetectQuery("weather in Lyon FR")
	require.True(t, ok)
	assert.Equal(t, "FR", q.CountryCode)

	q, ok = c.DetectQuery("weather in Paris")
	require.True(t, ok)
	assert.Empty(t, q.CountryCode)
}

func TestDetectQueryDayCount(t *testing.T) {
	c := newTestClassifier(t)

	cases := []struct {
		message  string
		wantKind QueryKind
		wantDays int
	}{
		{"forecast for Rome next week", KindForecast, 7},
		{"what's the weather in Paris tomorrow", KindForecast, 1},
		{"forecast for Rome", KindForecast, 3},
		{"weather in Paris", KindCurrent, 0},
	}
	for _, tc := range cases {
		q, ok := c.DetectQuery(tc.message)
		require.True(t, ok, "message %q", tc.message)
		assert.Equal(t, tc.wantKind, q.Kind, "message %q", tc.message)
		assert.Equal(t, tc.wantDays, q.Days, "message %q", tc.message)
	}
}

func TestLoadClassifierConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifier.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keywords:\n  - drizzle\n"), 0o644))

	cfg, err := LoadClassifierConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"drizzle"}, cfg.Keywords)
	// Lists absent from the file keep their defaults.
	assert.Equal(t, DefaultClassifierConfig().StopWords, cfg.StopWords)

	c, err := NewClassifier(cfg)
	require.NoError(t, err)
	assert.True(t, c.IsWeatherQuery("any drizzle expected?"))
	assert.False(t, c.IsWeatherQuery("is it sunny"))
}

func TestLoadClassifierConfigMissingFile(t *testing.T) {
	_, err := LoadClassifierConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
