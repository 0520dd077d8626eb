package service

import (
	"pyfibot/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parisReport = "Paris: Temperature: 18.5°C, feels like: 17.2°C, wind: 3.4 m/s, humidity: 60%, " +
	"pressure: 1012hPa, cloudiness: 40%"

func fixedFormatter(now time.Time) *Formatter {
	f := NewFormatter()
	f.now = func() time.Time { return now }
	return f
}

func TestParseWeather(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   Weather
		wantOK bool
	}{
		{
			name: "full report",
			text: parisReport,
			want: Weather{
				Location:    "Paris",
				Temperature: "18.5",
				FeelsLike:   "17.2",
				Wind:        "3.4",
				Humidity:    "60",
				Pressure:    "1012",
				Cloudiness:  "40",
			},
			wantOK: true,
		},
		{
			name: "negative temperatures and multi word location",
			text: "New York: Temperature: -3.1°C, feels like: -7°C, wind: 10 m/s, humidity: 81%, " +
				"pressure: 998hPa, cloudiness: 100%",
			want: Weather{
				Location:    "New York",
				Temperature: "-3.1",
				FeelsLike:   "-7",
				Wind:        "10",
				Humidity:    "81",
				Pressure:    "998",
				Cloudiness:  "100",
			},
			wantOK: true,
		},
		{
			name:   "unknown format",
			text:   "It's sunny in Paris",
			wantOK: false,
		},
		{
			name:   "empty",
			text:   "",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseWeather(tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatWeatherEmbed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := fixedFormatter(now)

	reply, ok := f.Format("weather", parisReport)
	require.True(t, ok)
	require.NotNil(t, reply.Embed)

	assert.Contains(t, reply.Embed.Title, "Paris")
	assert.Equal(t, 0x0099ff, reply.Embed.Color)
	assert.Equal(t, now, reply.Embed.Timestamp)
	assert.Equal(t, []domain.EmbedField{
		{Name: "Temperature", Value: "18.5°C / Feels like 17.2°C", Inline: true},
		{Name: "Wind", Value: "3.4 m/s", Inline: true},
		{Name: "Humidity", Value: "60%", Inline: true},
		{Name: "Conditions", Value: "40% cloudy / 1012hPa", Inline: true},
	}, reply.Embed.Fields)
}

func TestFormatWeatherIsStable(t *testing.T) {
	f := NewFormatter()

	first, ok := f.Format("weather", parisReport)
	require.True(t, ok)
	second, ok := f.Format("weather", parisReport)
	require.True(t, ok)

	assert.Equal(t, first.Embed.Title, second.Embed.Title)
	assert.Equal(t, first.Embed.Fields, second.Embed.Fields)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		command string
		text    string
		want    domain.Reply
		wantOK  bool
	}{
		{
			name:    "unparsable weather falls back to plain text",
			command: "weather",
			text:    "weather service down",
			want:    domain.PlainText(domain.MsgWeatherUnparsable),
			wantOK:  true,
		},
		{
			name:    "empty weather is unparsable too",
			command: "weather",
			text:    "",
			want:    domain.PlainText(domain.MsgWeatherUnparsable),
			wantOK:  true,
		},
		{
			name:    "plain command",
			command: "joke",
			text:    "knock knock",
			want:    domain.PlainText("knock knock"),
			wantOK:  true,
		},
		{
			name:    "empty output",
			command: "joke",
			text:    "",
			wantOK:  false,
		},
		{
			name:    "whitespace output",
			command: "joke",
			text:    "  \n",
			wantOK:  false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NewFormatter().Format(tc.command, tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
