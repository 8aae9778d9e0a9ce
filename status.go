package wenyan

import "fmt"

// User-facing messages for classified HTTP statuses.
const (
	MsgUnauthorized        = "Not signed in or session expired, please log in again"
	MsgGuestBalance        = "Guest quota used up for today, register or log in to keep querying"
	MsgInsufficientBalance = "Insufficient balance, please top up your account"
	MsgNotFound            = "Requested resource not found"
	MsgInternal            = "Internal server error, please try again later"
	MsgUnavailable         = "Service temporarily unavailable, please try again later"
	MsgNetwork             = "Network request failed, please check your connection"
	MsgStalled             = "The server stopped responding, the request was aborted"
)

// StatusMessage classifies an HTTP status code into the message shown to the
// user. guest selects the guest variant of the insufficient-balance message.
func StatusMessage(code int, guest bool) string {
	switch {
	case code == 401:
		return MsgUnauthorized
	case code == 402 && guest:
		return MsgGuestBalance
	case code == 402:
		return MsgInsufficientBalance
	case code == 404:
		return MsgNotFound
	case code == 500:
		return MsgInternal
	case code == 503:
		return MsgUnavailable
	case code >= 400 && code < 500:
		return fmt.Sprintf("Request rejected by the server (client error %d)", code)
	case code >= 500 && code < 600:
		return fmt.Sprintf("The server failed to handle the request (server error %d)", code)
	default:
		return fmt.Sprintf("Unexpected response status %d", code)
	}
}

// Notifier surfaces a failure to the user. Implementations decide how the
// message is shown (status line, alert, stderr).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }
