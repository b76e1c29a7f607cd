package dispatch

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/logx"
	"github.com/opsfleet/emp/semaphore"
)

// runCommandParallel runs cmd on every connection concurrently, streaming
// each host's combined output annotated with its callsign once the command
// finishes (spec.md §4.6 "command").
func runCommandParallel(ctx context.Context, conns []*fleetssh.Connection, cmd string, log *logx.Logger, maxParallel int) {
	sem := semaphore.New(maxParallel)
	defer sem.Close()

	var wg sync.WaitGroup
	for _, conn := range conns {
		conn := conn
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sem.P(ctx); err != nil {
				return
			}
			defer sem.V()
			runCommandOne(conn, cmd, log)
		}()
	}
	wg.Wait()
}

func runCommandOne(conn *fleetssh.Connection, cmd string, log *logx.Logger) {
	if !conn.Available() {
		log.Warnf("", "%s: not connected, skipping command", conn.Callsign)
		return
	}

	session, err := conn.Client.NewSession()
	if err != nil {
		log.Warnf("", "%s: new session failed: %v", conn.Callsign, err)
		return
	}
	defer session.Close()

	var out bytes.Buffer
	session.Stdout = &out
	session.Stderr = &out

	runErr := session.Run(cmd)
	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		log.Hostf(conn.Callsign, "%s", line)
	}
	if runErr != nil {
		log.Warnf("", "%s: command exited with error: %v", conn.Callsign, runErr)
	}
}
