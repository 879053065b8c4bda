package probe

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"

	"github.com/gorilla/websocket"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"bad handshake", websocket.ErrBadHandshake, ReasonProtocolError},
		{"nxdomain", &net.DNSError{Err: "no such host", Name: "x.invalid", IsNotFound: true}, ReasonResolutionFailure},
		{"dns timeout", &net.DNSError{Err: "timeout", Name: "x", IsTimeout: true}, ReasonTimeout},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ReasonConnectionRefused},
		{"deadline", context.DeadlineExceeded, ReasonTimeout},
		{"opaque", errors.New("something else"), ReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, msg := classify(tc.err)
			if got != tc.want {
				t.Fatalf("classify(%v)=%q want %q", tc.err, got, tc.want)
			}
			if msg == "" {
				t.Fatalf("diagnostic message must be preserved")
			}
		})
	}
}

func TestHostOf(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ws://localhost:9090", "localhost"},
		{"wss://bridge.example.com/path?x=1", "bridge.example.com"},
		{"example.com", "example.com"},
	}
	for _, c := range cases {
		if got := HostOf(c.in); got != c.want {
			t.Fatalf("HostOf(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
