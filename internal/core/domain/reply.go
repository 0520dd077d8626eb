package domain

import (
	"strings"
	"time"
)

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a structured rich reply.
type Embed struct {
	Title     string
	Color     int
	Fields    []EmbedField
	Footer    string
	Timestamp time.Time
}

// PlainText renders the embed for channels without rich message support.
func (e *Embed) PlainText() string {
	var sb strings.Builder
	sb.WriteString(e.Title)

	for _, f := range e.Fields {
		sb.WriteString("\n")
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Value)
	}

	if e.Footer != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Footer)
	}

	return sb.String()
}

// Reply is the formatted content sent back for an invocation. Exactly one of
// Text or Embed is set.
type Reply struct {
	Text      string
	Embed     *Embed
	Ephemeral bool
}

func PlainText(text string) Reply {
	return Reply{Text: text}
}

func EmbedReply(embed *Embed) Reply {
	return Reply{Embed: embed}
}

// Private returns a text reply that is only visible to the caller
// on platforms that support it.
func Private(text string) Reply {
	return Reply{Text: text, Ephemeral: true}
}

func (r Reply) IsEmpty() bool {
	return r.Embed == nil && strings.TrimSpace(r.Text) == ""
}

// String renders the reply as text.
func (r Reply) String() string {
	if r.Embed != nil {
		return r.Embed.PlainText()
	}

	return r.Text
}
