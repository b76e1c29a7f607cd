package executor

import (
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/opsfleet/emp/errwrap"
	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/logx"
)

// ptyTerm, ptyCols and ptyRows are the terminal type and size requested for
// attached sessions. A fixed size is fine here: this is a log stream, not a
// real interactive terminal (that case is handled separately by the CLI's
// tty command, which bridges the local terminal directly).
const (
	ptyTerm  = "xterm-256color"
	ptyCols  = 80
	ptyRows  = 40
)

// runAttached runs script under remoteDir on conn, streaming combined
// stdout/stderr through log annotated with host, and blocks until the
// remote command exits (spec.md §4.5, attached mode).
func runAttached(conn *fleetssh.Connection, remoteDir, script string, log *logx.Logger, host string) error {
	session, err := conn.Client.NewSession()
	if err != nil {
		return errwrap.Wrapf(err, "%s: new session", host)
	}
	defer session.Close()

	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty(ptyTerm, ptyRows, ptyCols, modes); err != nil {
		return errwrap.Wrapf(err, "%s: request pty", host)
	}

	out := &hostWriter{log: log, host: host}
	session.Stdout = out
	session.Stderr = out
	defer out.flush()

	cmd := fmt.Sprintf("cd %s && bash %s", shellQuote(remoteDir), shellQuote(script))
	if err := session.Run(cmd); err != nil {
		return errwrap.Wrapf(err, "%s: %s", host, script)
	}
	return nil
}
