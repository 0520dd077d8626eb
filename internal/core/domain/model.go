package domain

import (
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"
)

// Invocation is one parsed user command. It is created by a gateway adapter
// and never modified afterwards.
type Invocation struct {
	ID        string
	Command   string
	Args      []string
	Options   map[string]string
	User      string
	UserID    string
	GuildID   string
	ChannelID string
	// Prefix is how commands are typed on the originating platform.
	Prefix string
}

// NewInvocation returns an Invocation with a fresh correlation ID.
func NewInvocation(command string, args []string, user string) *Invocation {
	return &Invocation{
		ID:      newInvocationID(),
		Command: command,
		Args:    args,
		User:    user,
	}
}

// ArgString joins all arguments into the single string form expected by the
// remote backend.
func (i *Invocation) ArgString() string {
	return strings.Join(i.Args, " ")
}

// Option returns a named argument, falling back to the first positional one
// for prefix-style invocations that carry no names.
func (i *Invocation) Option(name string) string {
	if v, ok := i.Options[name]; ok {
		return v
	}

	if len(i.Options) == 0 && len(i.Args) > 0 {
		return i.ArgString()
	}

	return ""
}

// CallerKey identifies the caller across invocations, preferring the
// platform's stable user ID over the display name.
func (i *Invocation) CallerKey() string {
	if i.UserID != "" {
		return i.UserID
	}

	return i.User
}

func newInvocationID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}

	return id.String()
}

// OptionSpec declares one string argument of a command.
type OptionSpec struct {
	Name        string
	Description string
	Required    bool
}

// CommandSpec is the declared shape of a command, used for help output and
// platform registration.
type CommandSpec struct {
	Name        string
	Description string
	Options     []OptionSpec
}

// Usage renders the command as "/name <required> [optional]".
func (c CommandSpec) Usage(prefix string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(c.Name)

	for _, o := range c.Options {
		if o.Required {
			sb.WriteString(" <" + o.Name + ">")
		} else {
			sb.WriteString(" [" + o.Name + "]")
		}
	}

	return sb.String()
}

// MergeSpecs combines remote and local command declarations, sorted by name.
// A local declaration replaces a remote one of the same name.
func MergeSpecs(remote, local []CommandSpec) []CommandSpec {
	byName := make(map[string]CommandSpec, len(remote)+len(local))
	for _, s := range remote {
		byName[s.Name] = s
	}
	for _, s := range local {
		byName[s.Name] = s
	}

	merged := make([]CommandSpec, 0, len(byName))
	for _, s := range byName {
		merged = append(merged, s)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })

	return merged
}
