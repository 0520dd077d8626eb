package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"pyfibot/internal/core/domain"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 5 * time.Second

// Lambda resolves commands against the remote command execution backend.
type Lambda struct {
	url     string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func NewLambda(url, apiKey string, timeout time.Duration) *Lambda {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Lambda{
		url:     url,
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

type commandRequest struct {
	Command string `json:"command"`
	Args    string `json:"args"`
	User    string `json:"user"`
}

type commandResponse struct {
	Result       *string `json:"result"`
	ErrorType    *string `json:"errorType"`
	ErrorMessage string  `json:"errorMessage"`
}

func (l *Lambda) Enabled() bool {
	return l.url != "" && l.apiKey != ""
}

func (l *Lambda) Resolve(ctx context.Context, command, args, user string) domain.RemoteResult {
	if !l.Enabled() {
		log.Info().Msg("lambda not configured, falling back to internal commands")
		return domain.RemoteFailure(domain.KindNotConfigured, domain.ErrNotConfigured)
	}

	log.Debug().Str("command", command).Str("args", args).Msg("calling external command")

	payloadBuf := new(bytes.Buffer)
	err := json.NewEncoder(payloadBuf).Encode(commandRequest{Command: command, Args: args, User: user})
	if err != nil {
		return domain.RemoteFailure(domain.KindTransport, fmt.Errorf("error encoding lambda request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	body, err := l.postCommand(ctx, payloadBuf)
	if err != nil {
		return domain.RemoteFailure(domain.KindTransport, err)
	}

	var res commandResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return domain.RemoteFailure(domain.KindTransport, fmt.Errorf("error unmarshalling lambda response: %w", err))
	}

	if res.ErrorType != nil {
		return domain.RemoteFailure(domain.KindBackend,
			fmt.Errorf("%w: %s: %s", domain.ErrBackend, *res.ErrorType, res.ErrorMessage))
	}

	if res.Result == nil {
		return domain.RemoteFailure(domain.KindTransport, errors.New("lambda response carries no result"))
	}

	if domain.IsUnknownCommand(*res.Result) {
		return domain.RemoteResult{
			Status: domain.StatusError,
			Kind:   domain.KindNotFound,
			Result: *res.Result,
			Err:    domain.ErrUnknownCommand,
		}
	}

	log.Debug().Str("command", command).Int("length", len(*res.Result)).Msg("lambda result")

	return domain.RemoteSuccess(*res.Result)
}

func (l *Lambda) postCommand(ctx context.Context, payloadBuf *bytes.Buffer) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, payloadBuf)
	if err != nil {
		return nil, fmt.Errorf("error creating lambda request: %w", err)
	}

	req.Header.Add("x-api-key", l.apiKey)
	req.Header.Add("Content-Type", "application/json")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error executing lambda request: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("%w: %d", domain.ErrUnexpectedStatus, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading lambda response: %w", err)
	}

	return body, nil
}
