package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hamed0406/wsprobe/internal/probe"
)

// exit codes by failure class
var exitCodes = map[probe.FailureReason]int{
	probe.ReasonConfigurationErr:  2,
	probe.ReasonTimeout:           3,
	probe.ReasonConnectionRefused: 4,
	probe.ReasonResolutionFailure: 5,
	probe.ReasonProtocolError:     6,
	probe.ReasonUnknown:           1,
}

func main() {
	var (
		url     = flag.String("url", "ws://localhost:9090", "WebSocket URL to probe")
		timeout = flag.Duration("timeout", 3*time.Second, "time to wait for the handshake")
		asJSON  = flag.Bool("json", false, "print the structured result instead of a message")
	)
	flag.Parse()

	chk := probe.NewWSChecker(*timeout)
	out := chk.Probe(*url, *timeout)

	if *asJSON {
		_ = json.NewEncoder(os.Stdout).Encode(out)
	} else if out.Succeeded {
		fmt.Printf("Successfully connected to %s!\n", out.Target)
	} else {
		fmt.Fprintf(os.Stderr, "Connection failed: %s: %s\n", out.Reason, out.Message)
	}

	if !out.Succeeded {
		code := exitCodes[out.Reason]
		if code == 0 {
			code = 1
		}
		os.Exit(code)
	}
}
