package domain

import "strings"

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindNotConfigured ErrorKind = "NotConfigured"
	KindNotFound      ErrorKind = "NotFound"
	KindTransport     ErrorKind = "TransportError"
	KindBackend       ErrorKind = "BackendError"
)

// UnknownCommandPrefix is how the backend reports an unmatched command in an
// otherwise successful response.
const UnknownCommandPrefix = "Unknown command:"

// RemoteResult is the interpreted outcome of one backend call.
type RemoteResult struct {
	Status Status
	Kind   ErrorKind
	Result string
	Err    error
}

func RemoteSuccess(result string) RemoteResult {
	return RemoteResult{Status: StatusSuccess, Result: result}
}

func RemoteFailure(kind ErrorKind, err error) RemoteResult {
	return RemoteResult{Status: StatusError, Kind: kind, Err: err}
}

// Definitive reports whether the result should be sent to the user instead
// of falling back to local handlers.
func (r RemoteResult) Definitive() bool {
	return r.Status == StatusSuccess && !IsUnknownCommand(r.Result)
}

func IsUnknownCommand(result string) bool {
	return strings.HasPrefix(result, UnknownCommandPrefix)
}
