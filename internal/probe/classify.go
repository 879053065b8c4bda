package probe

import (
	"context"
	"errors"
	"net"
	"os"
	"syscall"

	"github.com/gorilla/websocket"
)

// classify maps a transport error onto the probe failure taxonomy. The
// original diagnostic is preserved as the message so callers can display it.
func classify(err error) (FailureReason, string) {
	msg := err.Error()

	// The endpoint spoke, but not WebSocket (non-101 response).
	if errors.Is(err, websocket.ErrBadHandshake) {
		return ReasonProtocolError, msg
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// A resolver timeout means the bound elapsed, not that the host is
		// proven unresolvable.
		if dnsErr.Timeout() {
			return ReasonTimeout, msg
		}
		return ReasonResolutionFailure, msg
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ReasonConnectionRefused, msg
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return ReasonTimeout, msg
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout, msg
	}

	// Caller cancellation is reported as ctx.Err() before we get here, so a
	// closed socket can only mean the handshake watchdog fired at deadline.
	if errors.Is(err, net.ErrClosed) {
		return ReasonTimeout, msg
	}

	return ReasonUnknown, msg
}
