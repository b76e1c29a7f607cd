package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"

	"github.com/opsfleet/emp/errwrap"
)

// TTY opens an interactive shell to a single host, bridging the local
// terminal's stdin/stdout to a remote pseudo-terminal (spec.md §4.6 "tty",
// §9 Design Notes "Interactive shell"). The local terminal is put into raw
// mode and restored on every exit path, including an error return.
func (d *Dispatcher) TTY(ctx context.Context, selector string) error {
	callsigns, err := d.resolve(selector, false, false)
	if err != nil {
		return err
	}
	if len(callsigns) != 1 {
		return fmt.Errorf("tty requires a selector that resolves to exactly one host, got %d", len(callsigns))
	}

	m := d.connectAll(ctx, callsigns)
	defer m.Close()

	conn, ok := m.Get(callsigns[0])
	if !ok || !conn.Available() {
		return fmt.Errorf("%s: not connected", callsigns[0])
	}

	session, err := conn.Client.NewSession()
	if err != nil {
		return errwrap.Wrapf(err, "%s: new session", callsigns[0])
	}
	defer session.Close()

	fd := int(os.Stdin.Fd())
	width, height := 80, 40
	if w, h, err := term.GetSize(fd); err == nil {
		width, height = w, h
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	if err := session.RequestPty("xterm-256color", height, width, modes); err != nil {
		return errwrap.Wrapf(err, "%s: request pty", callsigns[0])
	}

	session.Stdout = os.Stdout
	session.Stderr = os.Stderr
	stdin, err := session.StdinPipe()
	if err != nil {
		return errwrap.Wrapf(err, "%s: stdin pipe", callsigns[0])
	}

	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return errwrap.Wrapf(err, "%s: make raw", callsigns[0])
		}
		defer term.Restore(fd, oldState)
	}

	if err := session.Shell(); err != nil {
		return errwrap.Wrapf(err, "%s: shell", callsigns[0])
	}

	go io.Copy(stdin, os.Stdin)

	return session.Wait()
}
