package probe

import (
	"context"
	"testing"
)

func TestMultiChecker_RunsAllInOrder(t *testing.T) {
	ok := &fakeChecker{results: []Result{{Succeeded: true}}}
	bad := &fakeChecker{results: []Result{{Reason: ReasonTimeout, Message: "slow"}}}

	m := NewMultiChecker(ok, bad)
	out := m.Run(context.Background(), "ws://localhost:9090")
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if !out[0].Succeeded || out[1].Reason != ReasonTimeout {
		t.Fatalf("unexpected results: %+v", out)
	}
}
