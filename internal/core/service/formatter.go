package service

import (
	"fmt"
	"pyfibot/internal/core/domain"
	"regexp"
	"strings"
	"time"
)

const weatherColor = 0x0099ff

var weatherPattern = regexp.MustCompile(
	`(.+): Temperature: ([-\d.]+)°C, feels like: ([-\d.]+)°C, wind: ([\d.]+) m/s, ` +
		`humidity: (\d+)%, pressure: (\d+)hPa, cloudiness: (\d+)%`)

// Weather holds the measurements extracted from a backend weather report.
type Weather struct {
	Location    string
	Temperature string
	FeelsLike   string
	Wind        string
	Humidity    string
	Pressure    string
	Cloudiness  string
}

// ParseWeather extracts a weather report from the backend's free text. The
// format is not guaranteed by the backend, so a mismatch is an ordinary
// false result.
func ParseWeather(text string) (Weather, bool) {
	m := weatherPattern.FindStringSubmatch(text)
	if m == nil {
		return Weather{}, false
	}

	return Weather{
		Location:    strings.TrimSpace(m[1]),
		Temperature: m[2],
		FeelsLike:   m[3],
		Wind:        m[4],
		Humidity:    m[5],
		Pressure:    m[6],
		Cloudiness:  m[7],
	}, true
}

// Embed renders the report. Only the timestamp depends on now.
func (w Weather) Embed(now time.Time) *domain.Embed {
	return &domain.Embed{
		Title: fmt.Sprintf("🌡️ Weather in %s", w.Location),
		Color: weatherColor,
		Fields: []domain.EmbedField{
			{Name: "Temperature", Value: fmt.Sprintf("%s°C / Feels like %s°C", w.Temperature, w.FeelsLike), Inline: true},
			{Name: "Wind", Value: fmt.Sprintf("%s m/s", w.Wind), Inline: true},
			{Name: "Humidity", Value: fmt.Sprintf("%s%%", w.Humidity), Inline: true},
			{Name: "Conditions", Value: fmt.Sprintf("%s%% cloudy / %shPa", w.Cloudiness, w.Pressure), Inline: true},
		},
		Footer:    "Weather information",
		Timestamp: now,
	}
}

type structuredRenderer func(resultText string, now time.Time) domain.Reply

// Formatter shapes backend results into replies.
type Formatter struct {
	structured map[string]structuredRenderer
	now        func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{
		structured: map[string]structuredRenderer{
			"weather": renderWeather,
		},
		now: time.Now,
	}
}

// Format turns a backend result into a reply. It returns false when there is
// nothing to show, which is never sent as an empty message.
func (f *Formatter) Format(command, resultText string) (domain.Reply, bool) {
	if render, ok := f.structured[command]; ok {
		return render(resultText, f.now()), true
	}

	if strings.TrimSpace(resultText) == "" {
		return domain.Reply{}, false
	}

	return domain.PlainText(resultText), true
}

func renderWeather(resultText string, now time.Time) domain.Reply {
	w, ok := ParseWeather(resultText)
	if !ok {
		return domain.PlainText(domain.MsgWeatherUnparsable)
	}

	return domain.EmbedReply(w.Embed(now))
}
