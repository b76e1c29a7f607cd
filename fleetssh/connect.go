package fleetssh

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/opsfleet/emp/errwrap"
	"github.com/opsfleet/emp/hosts"
	"github.com/opsfleet/emp/logx"
)

const (
	defaultDialTimeout  = 8 * time.Second
	defaultReadyTimeout = 15 * time.Second
)

// Options configures authentication and host-key verification for
// ConnectAll. It has no required fields beyond one way to verify host keys:
// either KnownHostsPath or InsecureIgnoreHostKey.
type Options struct {
	// KnownHostsPath, if set, verifies server host keys against this
	// known_hosts file (spec.md §4.3, mirrors the teacher's
	// etcd/ssh/ssh.go use of knownhosts.New).
	KnownHostsPath string
	// InsecureIgnoreHostKey skips host-key verification entirely. Meant
	// for lab/test inventories only, never the default.
	InsecureIgnoreHostKey bool
	// PrivateKeyPath, if set, is tried as a public-key auth method in
	// addition to any password on the host record.
	PrivateKeyPath string
	// DialTimeout bounds a single direct dial; defaults to 8s, within
	// the 5-10s window of spec.md §4.3.
	DialTimeout time.Duration
	// ReadyTimeout bounds how long a child waits on its master's ready
	// signal; defaults to 15s (spec.md §4.3).
	ReadyTimeout time.Duration
}

func (o Options) dialTimeout() time.Duration {
	if o.DialTimeout > 0 {
		return o.DialTimeout
	}
	return defaultDialTimeout
}

func (o Options) readyTimeout() time.Duration {
	if o.ReadyTimeout > 0 {
		return o.ReadyTimeout
	}
	return defaultReadyTimeout
}

// ConnectAll brings up one connection per callsign in parallel, honoring
// master->child dependency order (spec.md §4.3). It never returns an error
// itself: per-host failures are recorded on that host's Connection and
// logged, exactly as the protocol in §4.3 step 5 specifies ("on any
// failure, record (null, null) ... signal ready. Signaling is guaranteed on
// all exit paths").
func ConnectAll(ctx context.Context, inv *hosts.Inventory, callsigns []string, log *logx.Logger, opts Options) *Map {
	m := newMap()

	ready := make(map[string]chan struct{}, len(callsigns))
	for _, c := range callsigns {
		ready[c] = make(chan struct{})
	}

	var wg sync.WaitGroup
	for _, callsign := range callsigns {
		callsign := callsign
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := connectOne(ctx, inv, callsign, ready, m, log, opts)
			m.set(callsign, conn)
			close(ready[callsign])
			if conn.Available() {
				log.Warnf("", "%s", logx.StatusLine(callsign, toStatusColor(conn.Probe.Status), probeDetail(conn.Probe)))
			} else {
				log.Warnf("", "%s", logx.StatusLine(callsign, logx.StatusUnavailable, errwrap.String(conn.Err)))
			}
		}()
	}
	wg.Wait()

	return m
}

func toStatusColor(s Status) logx.StatusColor {
	if s == StatusBusy {
		return logx.StatusBusy
	}
	return logx.StatusAvailable
}

func probeDetail(p Probe) string {
	switch p.Status {
	case StatusBusy:
		return fmt.Sprintf("busy (%d managed session(s))", len(p.Sessions))
	case StatusNoMultiplexer:
		return "available, no multiplexer"
	default:
		return "available, idle"
	}
}

// connectOne dials a single host, respecting its master dependency if any,
// then opens SFTP and probes tmux on top of the live SSH client.
func connectOne(ctx context.Context, inv *hosts.Inventory, callsign string, ready map[string]chan struct{}, m *Map, log *logx.Logger, opts Options) *Connection {
	h, ok := inv.Get(callsign)
	if !ok {
		return &Connection{Callsign: callsign, Err: fmt.Errorf("no inventory record for %q", callsign)}
	}

	var client *ssh.Client
	var err error
	if h.HasMaster() {
		client, err = connectChild(ctx, h, ready, m, opts)
	} else {
		client, err = connectRoot(ctx, h, opts)
	}
	if err != nil {
		return &Connection{Callsign: callsign, Err: errwrap.Wrapf(err, "connect %s", callsign)}
	}

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return &Connection{Callsign: callsign, Err: errwrap.Wrapf(err, "open sftp on %s", callsign)}
	}

	probe, err := probeTmux(client)
	if err != nil {
		log.Debugf("%s: tmux probe failed: %v", callsign, err)
	}

	return &Connection{Callsign: callsign, Client: client, SFTP: sftpClient, Probe: probe}
}

// connectRoot dials a master-less host directly.
func connectRoot(ctx context.Context, h hosts.Host, opts Options) (*ssh.Client, error) {
	config, err := clientConfig(h, opts)
	if err != nil {
		return nil, err
	}
	dialCtx, cancel := context.WithTimeout(ctx, opts.dialTimeout())
	defer cancel()
	return dialSSHWithContext(dialCtx, "tcp", h.Addr(), config)
}

// connectChild waits on the master's ready signal, then opens a
// direct-tcpip channel over the master's already-connected transport and
// performs the SSH handshake over that channel (spec.md §4.3 step 4).
func connectChild(ctx context.Context, h hosts.Host, ready map[string]chan struct{}, m *Map, opts Options) (*ssh.Client, error) {
	masterReady, ok := ready[h.MasterCallsign]
	if !ok {
		return nil, fmt.Errorf("master %q is not part of this connection batch", h.MasterCallsign)
	}

	select {
	case <-masterReady:
	case <-time.After(opts.readyTimeout()):
		return nil, fmt.Errorf("timed out waiting %s for master %q", opts.readyTimeout(), h.MasterCallsign)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	masterConn, ok := m.Get(h.MasterCallsign)
	if !ok || !masterConn.Available() {
		return nil, fmt.Errorf("master %q is unavailable", h.MasterCallsign)
	}

	config, err := clientConfig(h, opts)
	if err != nil {
		return nil, err
	}

	tunnel, err := masterConn.Client.Dial("tcp", h.Addr())
	if err != nil {
		return nil, errwrap.Wrapf(err, "tunnel dial to %s via %s", h.Addr(), h.MasterCallsign)
	}

	conn, chans, reqs, err := ssh.NewClientConn(tunnel, h.Addr(), config)
	if err != nil {
		tunnel.Close()
		return nil, err
	}
	return ssh.NewClient(conn, chans, reqs), nil
}

// dialSSHWithContext wraps ssh.Dial so the 5-10s window of spec.md §4.3 is
// expressed through a context rather than a bespoke timer, the same pattern
// as the teacher's dialSSHWithContext in etcd/ssh/ssh.go.
func dialSSHWithContext(ctx context.Context, network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return ssh.NewClient(c, chans, reqs), nil
}

func clientConfig(h hosts.Host, opts Options) (*ssh.ClientConfig, error) {
	auths, err := authMethods(h, opts.PrivateKeyPath)
	if err != nil {
		return nil, err
	}
	callback, err := hostKeyCallback(opts)
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            h.User,
		Auth:            auths,
		HostKeyCallback: callback,
		Timeout:         opts.dialTimeout(),
	}, nil
}

// authMethods mirrors sshKeyAuth in the teacher's remote/remote.go: try
// password auth from the inventory record, then a configured private key.
func authMethods(h hosts.Host, keyPath string) ([]ssh.AuthMethod, error) {
	var auths []ssh.AuthMethod
	if h.Password != "" {
		auths = append(auths, ssh.Password(h.Password))
	}
	if keyPath != "" {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't read private key: %s", keyPath)
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't parse private key: %s", keyPath)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	}
	if len(auths) == 0 {
		return nil, fmt.Errorf("no auth options available for %s@%s", h.User, h.Addr())
	}
	return auths, nil
}

// hostKeyCallback wires golang.org/x/crypto/ssh/knownhosts, as the teacher's
// etcd/ssh/ssh.go does, with InsecureIgnoreHostKey as an explicit opt-in for
// lab/test inventories only.
func hostKeyCallback(opts Options) (ssh.HostKeyCallback, error) {
	if opts.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if opts.KnownHostsPath == "" {
		return nil, fmt.Errorf("no known_hosts path configured; set InsecureIgnoreHostKey for lab inventories")
	}
	return knownhosts.New(opts.KnownHostsPath)
}
