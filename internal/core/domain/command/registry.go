package command

import (
	"fmt"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry maps command names to local handlers. It is filled once at
// startup and only read afterwards.
type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) error {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	name := handler.GetCommand()
	if _, ok := r.commands[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCommand, name)
	}

	log.Info().Str("handler", name).Msg("adding command handler to registry")
	r.commands[name] = handler

	return nil
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		return nil, domain.ErrRegistryEmpty
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, domain.ErrCommandNotFound
	}

	return handler, nil
}

func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func (r *Registry) Specs() []domain.CommandSpec {
	names := r.ListCommands()
	specs := make([]domain.CommandSpec, len(names))

	for i, name := range names {
		specs[i] = r.commands[name].Describe()
	}

	return specs
}

// ParseCommandArgs returns the whitespace separated tokens after the command.
func ParseCommandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}

	return fields[1:]
}

// ParseCommand returns the lower-cased command name of a prefix-style message
// and whether the message carries the prefix at all.
func ParseCommand(text, prefix string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], prefix) {
		return "", false
	}

	name := strings.ToLower(strings.TrimPrefix(fields[0], prefix))
	// telegram appends the bot name in groups: /weather@pyfibot
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}

	return name, name != ""
}
