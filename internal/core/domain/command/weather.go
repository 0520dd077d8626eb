package command

import (
	"context"
	"fmt"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// WeatherSpec is the declared shape of the weather command, shared by the
// local fallback and the remote registration.
var WeatherSpec = domain.CommandSpec{
	Name:        "weather",
	Description: "Get weather for a location",
	Options: []domain.OptionSpec{
		{Name: "location", Description: "The city to get weather for", Required: true},
	},
}

// Weather answers when the remote backend could not.
type Weather struct{}

func NewWeather() *Weather {
	return &Weather{}
}

func (w *Weather) GetCommand() string {
	return WeatherSpec.Name
}

func (w *Weather) Describe() domain.CommandSpec {
	return WeatherSpec
}

func (w *Weather) Respond(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) error {
	location := invocation.Option("location")

	log.Debug().Str("invocation", invocation.ID).Str("location", location).Msg("weather backend unavailable, answering locally")

	if location == "" {
		return reply.Send(ctx, domain.PlainText("Weather backend is not configured right now."))
	}

	return reply.Send(ctx, domain.PlainText(
		fmt.Sprintf("Weather backend is not configured right now for %q.", location)))
}

// RemoteSpec returns the declared shape of a command served by the remote
// backend. Commands without a known shape take one free-text argument.
func RemoteSpec(name string) domain.CommandSpec {
	if name == WeatherSpec.Name {
		return WeatherSpec
	}

	return domain.CommandSpec{
		Name:        name,
		Description: fmt.Sprintf("Run %s on the command backend", name),
		Options:     []domain.OptionSpec{{Name: "args", Description: "Command arguments"}},
	}
}

func RemoteSpecs(names []string) []domain.CommandSpec {
	specs := make([]domain.CommandSpec, len(names))
	for i, name := range names {
		specs[i] = RemoteSpec(name)
	}

	return specs
}
