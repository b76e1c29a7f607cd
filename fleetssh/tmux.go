package fleetssh

import (
	"bytes"
	"strings"

	"golang.org/x/crypto/ssh"
)

// managedPrefix marks the sessions this control plane itself started in
// detached mode (spec.md §6), so the probe can tell them apart from
// whatever else an operator happens to be running on the host.
const managedPrefix = "_emp_"

// Status is the multiplexer availability classification of spec.md §4.3.
type Status int

const (
	// StatusIdle means the host is reachable and the multiplexer has no
	// sessions running.
	StatusIdle Status = iota
	// StatusNoMultiplexer means the host is reachable but tmux isn't
	// installed.
	StatusNoMultiplexer
	// StatusBusy means the multiplexer is running one or more sessions.
	StatusBusy
)

// Probe is the result of running `tmux ls` on a host.
type Probe struct {
	Status   Status
	Sessions []string // names of managed sessions, filtered to managedPrefix
}

// probeTmux runs `tmux ls` in a fresh session over client and classifies the
// result. A failure to even open the session is returned as an error; a
// nonzero tmux exit status is not, since "no server running" is itself a
// valid, expected classification.
func probeTmux(client *ssh.Client) (Probe, error) {
	session, err := client.NewSession()
	if err != nil {
		return Probe{}, err
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	_ = session.Run("tmux ls") // exit status is meaningful only via stdout/stderr here

	return classifyTmux(stdout.String(), stderr.String()), nil
}

// classifyTmux implements the classification rules of spec.md §4.3:
//   - stderr begins with "no server running" -> available and idle;
//   - stderr contains "command not found" -> available, multiplexer absent;
//   - stderr empty and stdout lists sessions -> busy;
//   - stderr empty and stdout empty -> available and idle.
func classifyTmux(stdout, stderr string) Probe {
	switch {
	case strings.HasPrefix(stderr, "no server running"):
		return Probe{Status: StatusIdle}
	case strings.Contains(stderr, "command not found"):
		return Probe{Status: StatusNoMultiplexer}
	case stderr == "" && strings.TrimSpace(stdout) != "":
		return Probe{Status: StatusBusy, Sessions: managedSessions(stdout)}
	default:
		return Probe{Status: StatusIdle}
	}
}

// managedSessions extracts session names from `tmux ls` output (lines of
// the form "name: 1 windows ...") restricted to the ones this control plane
// started itself.
func managedSessions(stdout string) []string {
	var names []string
	for _, line := range strings.Split(strings.TrimRight(stdout, "\n"), "\n") {
		if line == "" {
			continue
		}
		name := line
		if i := strings.Index(line, ":"); i >= 0 {
			name = line[:i]
		}
		if strings.HasPrefix(name, managedPrefix) {
			names = append(names, name)
		}
	}
	return names
}
