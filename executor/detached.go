package executor

import (
	"fmt"
	"time"

	"github.com/opsfleet/emp/errwrap"
	"github.com/opsfleet/emp/fleetssh"
)

// runDetached starts run.sh under remoteDir inside a fresh, detached tmux
// session named _emp_<module>_<unix_ts>, then confirms the session actually
// came up via `tmux has-session` before returning (spec.md §4.5, detached
// mode).
func runDetached(conn *fleetssh.Connection, remoteDir, moduleName, script string) (string, error) {
	sessionName := fmt.Sprintf("_emp_%s_%d", moduleName, time.Now().Unix())

	startSession, err := conn.Client.NewSession()
	if err != nil {
		return "", errwrap.Wrapf(err, "new session")
	}
	defer startSession.Close()

	inner := fmt.Sprintf("cd %s; bash %s", remoteDir, script)
	cmd := fmt.Sprintf("tmux new-session -d -s %s %s", shellQuote(sessionName), shellQuote(inner))
	if err := startSession.Run(cmd); err != nil {
		return "", errwrap.Wrapf(err, "start detached session %s", sessionName)
	}

	confirm, err := conn.Client.NewSession()
	if err != nil {
		return "", errwrap.Wrapf(err, "new session")
	}
	defer confirm.Close()

	if err := confirm.Run(fmt.Sprintf("tmux has-session -t %s", shellQuote(sessionName))); err != nil {
		return "", errwrap.Wrapf(err, "detached session %s did not start", sessionName)
	}

	return sessionName, nil
}
