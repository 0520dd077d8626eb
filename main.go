package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"pyfibot/internal/adapters/gateway"
	"pyfibot/internal/adapters/handler"
	"pyfibot/internal/adapters/resolver"
	"pyfibot/internal/adapters/sender"
	"pyfibot/internal/config"
	"pyfibot/internal/core/domain"
	"pyfibot/internal/core/domain/command"
	"pyfibot/internal/core/port"
	"pyfibot/internal/core/service"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configDir string
	cfg       *config.Config
)

func main() {
	root := &cobra.Command{
		Use:           "pyfibot",
		Short:         "Discord and Telegram command bot with a remote command backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(configDir)
			if err != nil {
				return err
			}

			zerolog.SetGlobalLevel(cfg.LogLevel)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing config.toml")

	root.AddCommand(serveCmd())
	root.AddCommand(registerCmd())
	root.AddCommand(resolveCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("pyfibot exited with error")
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Register slash commands and serve Discord and Telegram",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register slash commands with Discord and exit",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			registry, err := buildRegistry(newLambda())
			if err != nil {
				return err
			}

			d, err := gateway.NewDiscord(cfg.Discord.Token, cfg.Discord.ClientID, cfg.Discord.GuildID)
			if err != nil {
				return err
			}

			return d.RegisterCommands(slashSpecs(registry))
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <command> [args...]",
		Short: "Run a single command and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lambda := newLambda()

			registry, err := buildRegistry(lambda)
			if err != nil {
				return err
			}

			dispatcher := buildDispatcher(registry, lambda)

			invocation := domain.NewInvocation(strings.ToLower(args[0]), args[1:], "console")
			dispatcher.Dispatch(cmd.Context(), invocation, sender.NewConsoleReply(cmd.OutOrStdout()))

			return nil
		},
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	log.Info().Msg("starting pyfibot...")

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lambda := newLambda()

	registry, err := buildRegistry(lambda)
	if err != nil {
		return err
	}

	limiter := service.NewInvocationLimiter(ctx, cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	authorizer := service.NewGuildAuthorizer(cfg.Discord.AllowedGuildIDs)
	dispatcher := buildDispatcher(registry, lambda, authorizer, limiter)

	d, err := gateway.NewDiscord(cfg.Discord.Token, cfg.Discord.ClientID, cfg.Discord.GuildID)
	if err != nil {
		return err
	}

	if err := d.RegisterCommands(slashSpecs(registry)); err != nil {
		return err
	}

	if cfg.TelegramToken != "" {
		t, err := gateway.NewTelegram(cfg.TelegramToken, cfg.CommandPrefix,
			handler.NewMessage(dispatcher, cfg.CommandPrefix))
		if err != nil {
			return err
		}

		go t.Run(ctx)
	} else {
		log.Info().Msg("telegram token not set, telegram channel disabled")
	}

	return d.Run(ctx, handler.NewInteraction(dispatcher))
}

func buildRegistry(lambda *resolver.Lambda) (*command.Registry, error) {
	registry := &command.Registry{}

	handlers := []port.Command{
		command.NewPing(),
		command.NewDebug(registry, lambda, cfg.Remote.Commands),
		command.NewWeather(),
		command.NewHelp(registry, command.RemoteSpecs(cfg.Remote.Commands), "/"),
	}

	for _, h := range handlers {
		if err := registry.Register(h); err != nil {
			return nil, fmt.Errorf("building command registry: %w", err)
		}
	}

	return registry, nil
}

func newLambda() *resolver.Lambda {
	lambda := resolver.NewLambda(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.Timeout)
	if !lambda.Enabled() {
		log.Warn().Msg("LAMBDA_URL or LAMBDA_APIKEY not set, remote commands answer locally")
	}

	return lambda
}

func buildDispatcher(registry *command.Registry, lambda *resolver.Lambda, gates ...port.Gate) *service.Dispatcher {
	return service.NewDispatcher(registry, lambda, service.NewFormatter(), cfg.Remote.Commands, gates...)
}

// slashSpecs lists local and remote commands. A local declaration wins over a remote one.
func slashSpecs(registry *command.Registry) []domain.CommandSpec {
	return domain.MergeSpecs(command.RemoteSpecs(cfg.Remote.Commands), registry.Specs())
}
