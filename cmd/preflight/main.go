// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	apiAddr := strings.TrimSpace(os.Getenv("API_ADDR"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	endpointsFile := strings.TrimSpace(os.Getenv("ENDPOINTS_FILE"))
	timeoutMS := strings.TrimSpace(os.Getenv("PROBE_TIMEOUT_MS"))

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (register/probe routes will 403).")
	}
	if pub == "" {
		fail("PUBLIC_API_KEYS is empty (read routes will 401).")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	if apiAddr == "" {
		warn("API_ADDR is empty; default in your app may be used.")
	} else {
		ok("API_ADDR=" + apiAddr)
	}

	if db == "" {
		warn("DATABASE_URL empty — API will use the in-memory store.")
	} else {
		ok("DATABASE_URL present")
	}

	if endpointsFile == "" {
		warn("ENDPOINTS_FILE empty — no endpoints will be pre-registered.")
	} else if _, err := os.Stat(endpointsFile); err != nil {
		fail("ENDPOINTS_FILE set but unreadable: " + err.Error())
	} else {
		ok("ENDPOINTS_FILE=" + endpointsFile)
	}

	if timeoutMS != "" {
		if ms, err := strconv.Atoi(timeoutMS); err != nil || ms <= 0 {
			fail("PROBE_TIMEOUT_MS must be a positive integer, got " + timeoutMS)
		} else {
			ok("PROBE_TIMEOUT_MS=" + timeoutMS)
		}
	}

	ok("preflight passed")
}
