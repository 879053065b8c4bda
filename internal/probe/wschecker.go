package probe

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// WSChecker attempts exactly one WebSocket handshake per call. The underlying
// connection is closed on every exit path; the checker keeps no state between
// calls, so a single instance is safe for concurrent use.
type WSChecker struct {
	Timeout time.Duration
}

func NewWSChecker(timeout time.Duration) *WSChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WSChecker{Timeout: timeout}
}

// Check probes target within the checker's timeout. Cancelling ctx abandons
// the attempt and closes the half-open connection before returning.
func (w *WSChecker) Check(ctx context.Context, target string) Result {
	return w.probe(ctx, target, w.Timeout)
}

// Probe is the one-shot form: a fresh context bounded by timeout.
func (w *WSChecker) Probe(target string, timeout time.Duration) Result {
	return w.probe(context.Background(), target, timeout)
}

func (w *WSChecker) probe(ctx context.Context, target string, timeout time.Duration) Result {
	if reason, msg := validate(target, timeout); reason != "" {
		return Result{Target: target, Reason: reason, Message: msg}
	}

	// cancel also releases the handshake watchdog on every exit path
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: timeout,
		// The stock dialer stops watching ctx once the TCP connect is done.
		// The watchdog closes the socket so a cancelled caller never leaves
		// a handshake hanging until the deadline.
		NetDialContext: func(dctx context.Context, network, addr string) (net.Conn, error) {
			var d net.Dialer
			conn, err := d.DialContext(dctx, network, addr)
			if err != nil {
				return nil, err
			}
			go func() {
				<-dctx.Done()
				conn.Close()
			}()
			return conn, nil
		},
	}

	start := time.Now()
	conn, resp, err := dialer.DialContext(ctx, target, nil)
	latency := time.Since(start).Seconds() * 1000 // ms

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		cause := err
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = ctxErr
		}
		reason, msg := classify(cause)
		return Result{Target: target, Reason: reason, Message: msg, LatencyMS: latency}
	}
	_ = conn.Close()

	return Result{Succeeded: true, Target: target, LatencyMS: latency}
}

// validate rejects malformed input before any network activity.
func validate(target string, timeout time.Duration) (FailureReason, string) {
	if timeout <= 0 {
		return ReasonConfigurationErr, "timeout must be positive"
	}
	u, err := url.Parse(target)
	if err != nil {
		return ReasonConfigurationErr, "invalid URL: " + err.Error()
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return ReasonConfigurationErr, "URL scheme must be ws or wss, got " + u.Scheme
	}
	if u.Host == "" {
		return ReasonConfigurationErr, "URL has no host"
	}
	return "", ""
}
