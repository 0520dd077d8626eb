package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")
	ErrNotConfigured      = errors.New("remote backend not configured")
	ErrUnknownCommand     = errors.New("backend does not know the command")
	ErrBackend            = errors.New("backend reported an error")
	ErrUnexpectedStatus   = errors.New("unexpected status code")
	ErrCommandNotFound    = errors.New("command not found")
	ErrRegistryEmpty      = errors.New("can't fetch command, registry not initialized")
	ErrDuplicateCommand   = errors.New("command already registered")
	ErrHandlerPanic       = errors.New("command handler panicked")
)

// User-facing messages. Internal details never go into these.
const (
	MsgUnknownCommand    = "Unknown command."
	MsgCommandFailed     = "An error occurred while executing the command."
	MsgNoOutput          = "The command finished without any output."
	MsgWeatherUnparsable = "Sorry, couldn't parse the weather data."
	MsgRateLimited       = "You're sending commands too quickly, please slow down."
	MsgGuildNotAllowed   = "This bot is not enabled for this server."
)
