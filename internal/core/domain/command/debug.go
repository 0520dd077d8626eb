package command

import (
	"context"
	"fmt"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/port"
	"runtime"
	"runtime/metrics"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const kb = 1024

var memorySamples = []string{
	"/memory/classes/total:bytes",
	"/memory/classes/heap/objects:bytes",
}

// Debug reports the state of the running bot to the caller only.
type Debug struct {
	registry port.CommandRegistry
	resolver port.RemoteResolver
	remote   []string
	started  time.Time
	now      func() time.Time
}

func NewDebug(registry port.CommandRegistry, resolver port.RemoteResolver, remote []string) *Debug {
	return &Debug{
		registry: registry,
		resolver: resolver,
		remote:   remote,
		started:  time.Now(),
		now:      time.Now,
	}
}

func (d *Debug) GetCommand() string {
	return "debug"
}

func (d *Debug) Describe() domain.CommandSpec {
	return domain.CommandSpec{Name: d.GetCommand(), Description: "Show bot status"}
}

func (d *Debug) Respond(ctx context.Context, invocation *domain.Invocation, reply port.ReplyChannel) error {
	log.Info().
		Str("invocation", invocation.ID).
		Str("user", invocation.User).
		Msg("reporting bot status")

	return reply.Send(ctx, domain.Private(d.Report()))
}

// Report renders the status lines.
func (d *Debug) Report() string {
	backend := "disabled"
	if d.resolver != nil && d.resolver.Enabled() {
		backend = "enabled"
	}

	remote := "none"
	if len(d.remote) > 0 {
		remote = strings.Join(d.remote, ", ")
	}

	samples := make([]metrics.Sample, len(memorySamples))
	for i, name := range memorySamples {
		samples[i].Name = name
	}
	metrics.Read(samples)

	lines := []string{
		fmt.Sprintf("uptime: %s", d.now().Sub(d.started).Truncate(time.Second)),
		fmt.Sprintf("local commands: %s", strings.Join(d.registry.ListCommands(), ", ")),
		fmt.Sprintf("remote commands: %s (backend %s)", remote, backend),
		fmt.Sprintf("goroutines: %d", runtime.NumGoroutine()),
		fmt.Sprintf("memory: %d KB total, %d KB heap", sampleKB(samples[0]), sampleKB(samples[1])),
		fmt.Sprintf("runtime: %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}

	return strings.Join(lines, "\n")
}

func sampleKB(s metrics.Sample) uint64 {
	if s.Value.Kind() != metrics.KindUint64 {
		return 0
	}

	return s.Value.Uint64() / kb
}
