// Package fleetssh is the Connection Orchestrator: it brings up SSH and
// SFTP sessions in parallel across a resolved host set, honoring
// master-then-child tunneling order, and records per-host availability
// (spec.md §4.3).
package fleetssh

import (
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/opsfleet/emp/errwrap"
)

// Connection is the runtime state the orchestrator produces for one host: a
// live SSH client, a live SFTP client, and its multiplexer probe result. Per
// spec.md §3, a host is observable as either connected (both handles
// non-nil) or unavailable (both nil) — it never has only one.
type Connection struct {
	Callsign string
	Client   *ssh.Client
	SFTP     *sftp.Client
	Probe    Probe
	Err      error
}

// Available reports whether both the SSH and SFTP handles came up.
func (c *Connection) Available() bool {
	return c != nil && c.Client != nil && c.SFTP != nil
}

// Close tears down both handles. Safe to call on a connection that never
// got past dialing.
func (c *Connection) Close() error {
	var err error
	if c.SFTP != nil {
		err = c.SFTP.Close()
	}
	if c.Client != nil {
		if e := c.Client.Close(); err == nil {
			err = e
		}
	}
	return err
}

// Map is the mutex-guarded connection table the orchestrator builds up,
// mirroring the teacher's Remotes.lock sync.Mutex in remote/remote.go. It's
// read-only from the caller's perspective once ConnectAll returns.
type Map struct {
	mu    sync.Mutex
	conns map[string]*Connection
}

func newMap() *Map {
	return &Map{conns: make(map[string]*Connection)}
}

func (m *Map) set(callsign string, conn *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[callsign] = conn
}

// Get returns the connection recorded for callsign, if any.
func (m *Map) Get(callsign string) (*Connection, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conns[callsign]
	return c, ok
}

// All returns every recorded connection, keyed by callsign.
func (m *Map) All() map[string]*Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]*Connection, len(m.conns))
	for k, v := range m.conns {
		out[k] = v
	}
	return out
}

// Close tears down every live connection, accumulating rather than dropping
// per-host errors.
func (m *Map) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var retErr error
	for callsign, c := range m.conns {
		if err := c.Close(); err != nil {
			retErr = errwrap.Append(retErr, callsign, err)
		}
	}
	return retErr
}
