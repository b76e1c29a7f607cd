// Package executor is the Module Executor: it sequences a module's sync,
// conditional build, and run across one or many hosts, in either an
// attached (streaming) or detached (multiplexer-backed) mode (spec.md
// §4.5).
package executor

import (
	"fmt"
	"path"

	"github.com/spf13/afero"

	"github.com/opsfleet/emp/errwrap"
	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/logx"
	"github.com/opsfleet/emp/modsync"
)

// Options controls one RunModule invocation.
type Options struct {
	// Rebuild forces init.sh to run even if the sync didn't touch
	// requirements.txt.
	Rebuild bool
	// Detach runs run.sh in a detached tmux session instead of streaming
	// it attached.
	Detach bool
}

// Result reports what happened to one host.
type Result struct {
	Host          string
	Sync          *modsync.ApplyReport
	Ran           bool
	DetachedAs    string // tmux session name, set only in detached mode
	Err           error
}

// RunModule syncs mod to conn, builds it if needed, and runs it, per
// spec.md §4.5 steps 1-3.
func RunModule(fs afero.Fs, conn *fleetssh.Connection, mod modsync.Module, log *logx.Logger, opts Options) Result {
	host := conn.Callsign
	res := Result{Host: host}

	if !conn.Available() {
		res.Err = errwrap.Wrapf(conn.Err, "%s: not connected", host)
		if res.Err == nil {
			res.Err = fmt.Errorf("%s: not connected", host)
		}
		return res
	}

	remote := fleetssh.RemoteFS{Client: conn.SFTP}
	if err := remote.MkdirAll(mod.RemoteDir()); err != nil {
		res.Err = errwrap.Wrapf(err, "%s: prepare remote module dir", host)
		return res
	}

	report, err := modsync.Sync(fs, remote, mod)
	if err != nil {
		res.Err = errwrap.Wrapf(err, "%s: sync", host)
		return res
	}
	res.Sync = report
	if report.Errors != nil {
		log.Warnf("", "%s: sync completed with errors: %v", host, report.Errors)
	}

	if report.ShouldRebuild || opts.Rebuild {
		localInit := path.Join(mod.LocalDir, modsync.InitScript)
		if ok, _ := afero.Exists(fs, localInit); ok {
			if err := runAttached(conn, mod.RemoteDir(), modsync.InitScript, log, host); err != nil {
				res.Err = errwrap.Wrapf(err, "%s: build", host)
				return res
			}
		}
	}

	if opts.Detach {
		name, err := runDetached(conn, mod.RemoteDir(), mod.Name, modsync.RunScript)
		if err != nil {
			res.Err = errwrap.Wrapf(err, "%s: run (detached)", host)
			return res
		}
		res.DetachedAs = name
		res.Ran = true
		return res
	}

	if err := runAttached(conn, mod.RemoteDir(), modsync.RunScript, log, host); err != nil {
		res.Err = errwrap.Wrapf(err, "%s: run", host)
		return res
	}
	res.Ran = true
	return res
}
