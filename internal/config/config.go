package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironment = errors.New("missing required environment variables")
	ErrInvalidRateLimit   = errors.New("rate limit values must be positive")
)

// bindings maps config keys to their environment variables.
var bindings = []struct {
	key string
	env string
}{
	{"discord.token", "DISCORD_KEY"},
	{"discord.client_id", "CLIENT_ID"},
	{"discord.guild_id", "GUILD_ID"},
	{"discord.allowed_guild_ids", "ALLOWED_GUILD_IDS"},
	{"telegram.token", "TELEGRAM_TOKEN"},
	{"bot.command_prefix", "COMMAND_PREFIX"},
	{"bot.log_level", "LOG_LEVEL"},
	{"remote.url", "LAMBDA_URL"},
	{"remote.api_key", "LAMBDA_APIKEY"},
	{"remote.timeout", "LAMBDA_TIMEOUT"},
	{"remote.commands", "REMOTE_COMMANDS"},
	{"ratelimit.per_minute", "RATELIMIT_PER_MINUTE"},
	{"ratelimit.burst", "RATELIMIT_BURST"},
}

type Discord struct {
	Token           string
	ClientID        string
	GuildID         string
	AllowedGuildIDs []string
}

type Remote struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	Commands []string
}

type RateLimit struct {
	PerMinute float64
	Burst     int
}

type Config struct {
	Discord       Discord
	TelegramToken string
	CommandPrefix string
	LogLevel      zerolog.Level
	Remote        Remote
	RateLimit     RateLimit
}

// Load reads .env, an optional config.toml from dir and the environment,
// in increasing order of precedence.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("toml")

	setDefaults(v)

	for _, b := range bindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		log.Debug().Msg("no config file found, using environment only")
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.command_prefix", "!")
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("remote.timeout", "5s")
	v.SetDefault("remote.commands", []string{"weather"})
	v.SetDefault("ratelimit.per_minute", 20)
	v.SetDefault("ratelimit.burst", 5)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := parseTimeout(v.GetString("remote.timeout"))
	if err != nil {
		return nil, err
	}

	rateLimit := RateLimit{
		PerMinute: v.GetFloat64("ratelimit.per_minute"),
		Burst:     v.GetInt("ratelimit.burst"),
	}
	if rateLimit.PerMinute <= 0 || rateLimit.Burst <= 0 {
		return nil, fmt.Errorf("%w: RATELIMIT_PER_MINUTE=%v RATELIMIT_BURST=%d",
			ErrInvalidRateLimit, rateLimit.PerMinute, rateLimit.Burst)
	}

	return &Config{
		Discord: Discord{
			Token:           v.GetString("discord.token"),
			ClientID:        v.GetString("discord.client_id"),
			GuildID:         v.GetString("discord.guild_id"),
			AllowedGuildIDs: getList(v, "discord.allowed_guild_ids"),
		},
		TelegramToken: v.GetString("telegram.token"),
		CommandPrefix: v.GetString("bot.command_prefix"),
		LogLevel:      parseLevel(v.GetString("bot.log_level")),
		Remote: Remote{
			URL:      v.GetString("remote.url"),
			APIKey:   v.GetString("remote.api_key"),
			Timeout:  timeout,
			Commands: getList(v, "remote.commands"),
		},
		RateLimit: rateLimit,
	}, nil
}

// parseTimeout accepts a Go duration ("5s", "2500ms") or a bare number of
// milliseconds.
func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)

	if ms, err := strconv.Atoi(value); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("invalid timeout for remote backend in config: %q must be positive", value)
		}

		return time.Duration(ms) * time.Millisecond, nil
	}

	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout for remote backend in config, want milliseconds or a duration like 5s: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("invalid timeout for remote backend in config: %q must be positive", value)
	}

	return timeout, nil
}

// getList accepts both TOML arrays and comma separated env values.
func getList(v *viper.Viper, key string) []string {
	var raw []string
	if s, ok := v.Get(key).(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = v.GetStringSlice(key)
	}

	list := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, strings.ToLower(item))
		}
	}

	return list
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Validate checks the Discord credentials, reporting every missing one.
func (c *Config) Validate() error {
	var missing []string

	if c.Discord.Token == "" {
		missing = append(missing, "DISCORD_KEY")
	}
	if c.Discord.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.Discord.GuildID == "" {
		missing = append(missing, "GUILD_ID")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvironment, strings.Join(missing, ", "))
	}

	return nil
}
