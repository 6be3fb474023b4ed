package chat

import (
	"fmt"
	"regexp"
	"strings"
)

// QueryKind distinguishes a current-weather lookup from a forecast.
type QueryKind string

const (
	KindCurrent  QueryKind = "current"
	KindForecast QueryKind = "forecast"
)

// Query is the weather lookup derived from one user message. It is never
// persisted.
type Query struct {
	City        string
	CountryCode string
	Kind        QueryKind
	Days        int
}

// Classifier decides whether a message is weather-related and extracts the
// lookup parameters from it. All matching is heuristic: fixed keywords plus
// an ordered pattern list evaluated first-match-wins.
type Classifier struct {
	keywords         []string
	patterns         []*regexp.Regexp
	stopWordsRe      *regexp.Regexp
	countryCodes     map[string]struct{}
	forecastTriggers []string
}

// NewClassifier compiles the configured lists. Pattern order is preserved.
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	c := &Classifier{
		keywords:         cfg.Keywords,
		forecastTriggers: cfg.ForecastTriggers,
	}

	for _, p := range cfg.LocationPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid location pattern %q: %w", p, err)
		}
		c.patterns = append(c.patterns, re)
	}

	stopWords, err := regexp.Compile(`\b(` + strings.Join(cfg.StopWords, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("invalid stop-word list: %w", err)
	}
	c.stopWordsRe = stopWords

	c.countryCodes = make(map[string]struct{}, len(cfg.CountryCodes))
	for _, code := range cfg.CountryCodes {
		c.countryCodes[code] = struct{}{}
	}

	return c, nil
}

// IsWeatherQuery reports whether the message contains a weather keyword or
// matches a location pattern.
func (c *Classifier) IsWeatherQuery(message string) bool {
	lower := strings.ToLower(message)

	for _, keyword := range c.keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	for _, re := range c.patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// ExtractLocation pulls a city name out of the message using the ordered
// pattern list; the first pattern that yields a usable phrase wins. Stop
// words are stripped from the capture and the remainder is title-cased.
func (c *Classifier) ExtractLocation(message string) (string, bool) {
	lower := strings.ToLower(message)

	for _, re := range c.patterns {
		match := re.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		city := c.stopWordsRe.ReplaceAllString(match[1], "")
		city = titleCase(city)
		if len(city) > 1 {
			return city, true
		}
	}
	return "", false
}

// ExtractCountryCode scans the message tokens for a member of the two-letter
// allow-list. Only tokens already written in upper case count: a case-folded
// scan would turn the word "in" into the code for India on every
// "weather in ..." query.
func (c *Classifier) ExtractCountryCode(message string) (string, bool) {
	for _, token := range strings.Fields(message) {
		token = strings.Trim(token, ".,!?;:()")
		if _, ok := c.countryCodes[token]; ok {
			return token, true
		}
	}
	return "", false
}

// DetectQuery derives the full lookup for a message: city, optional country
// code, current-vs-forecast, and day count (week=7, tomorrow=1, otherwise 3).
// ok is false when no city could be extracted.
func (c *Classifier) DetectQuery(message string) (Query, bool) {
	city, ok := c.ExtractLocation(message)
	if !ok {
		return Query{}, false
	}

	q := Query{City: city, Kind: KindCurrent}
	if code, found := c.ExtractCountryCode(message); found {
		q.CountryCode = code
	}

	lower := strings.ToLower(message)
	for _, trigger := range c.forecastTriggers {
		if strings.Contains(lower, trigger) {
			q.Kind = KindForecast
			q.Days = 3
			if strings.Contains(lower, "week") {
				q.Days = 7
			} else if strings.Contains(lower, "tomorrow") {
				q.Days = 1
			}
			break
		}
	}
	return q, true
}

// titleCase upper-cases the first letter of each whitespace-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
