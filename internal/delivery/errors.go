package delivery

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"os"
)

// Sentinel errors for the delivery layer. These never cross the Deliver
// boundary as raw errors; they are folded into the DeliveryResult and logged
// with an error class.
var (
	// ErrIncompleteCredentials: the player has FTP enabled but is missing
	// server, username, or password.
	ErrIncompleteCredentials = errors.New("ftp enabled but credentials are incomplete")
)

// errorClass buckets a remote delivery failure for logging and reporting
// without leaking credentials.
func errorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIncompleteCredentials):
		return "credential"
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return "timeout"
	case isConnRefused(err):
		return "refused"
	case isAuthRejected(err):
		return "auth"
	default:
		return "network"
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isConnRefused(err error) bool {
	var oe *net.OpError
	if errors.As(err, &oe) {
		var se *os.SyscallError
		if errors.As(oe.Err, &se) {
			return se.Syscall == "connect"
		}
		return true
	}
	return false
}

// isAuthRejected matches FTP 5xx login replies surfaced by the ftp client.
func isAuthRejected(err error) bool {
	var te *textproto.Error
	return errors.As(err, &te) && te.Code == 530
}
