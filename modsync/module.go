// Package modsync implements the content-addressed differential sync that
// keeps a remote module deployment identical to its local source tree,
// applying only the minimal set of changes between them (spec.md §4.4).
package modsync

import (
	"fmt"
	"path"
)

// RemoteRoot is the fixed remote parent directory every module is deployed
// under.
const RemoteRoot = "modules"

// Reserved module filenames (spec.md §3).
const (
	InitScript       = "init.sh"
	RunScript        = "run.sh"
	RequirementsFile = "requirements.txt"
)

// Module is a local directory of scripts and data uploaded as a unit.
type Module struct {
	// Name is the module's basename, used as the remote directory name.
	Name string
	// LocalDir is the local path to the module's contents.
	LocalDir string
}

// New builds a Module whose Name is the basename of dir.
func New(dir string) Module {
	return Module{Name: path.Base(path.Clean(dir)), LocalDir: dir}
}

// RemoteDir is the path modules/<name> that this module is deployed under.
func (m Module) RemoteDir() string {
	return path.Join(RemoteRoot, m.Name)
}

// commitImageName is the local, controller-only file that records the
// manifest of the last successful deployment. It is always excluded from
// sync (spec.md §3).
func (m Module) commitImageName() string {
	return fmt.Sprintf(".%s_commit_image.json", m.Name)
}

// CommitImagePath is the local path to this module's commit image.
func (m Module) CommitImagePath() string {
	return path.Join(m.LocalDir, m.commitImageName())
}
