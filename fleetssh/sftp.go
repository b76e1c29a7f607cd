package fleetssh

import (
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/sftp"
)

// RemoteFS adapts an *sftp.Client to modsync.RemoteFS, the thin surface the
// Module Synchronizer needs (spec.md §4.4 / §4.3 step 4, SFTP Session).
type RemoteFS struct {
	Client *sftp.Client
}

func (r RemoteFS) Open(p string) (io.ReadCloser, error) {
	f, err := r.Client.Open(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r RemoteFS) Create(p string) (io.WriteCloser, error) {
	f, err := r.Client.Create(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// MkdirAll walks p segment by segment, creating any that don't already
// exist. sftp.Client has no native MkdirAll, so this mirrors the idempotent
// directory creation the teacher's upload helpers perform by hand.
func (r RemoteFS) MkdirAll(p string) error {
	clean := path.Clean(p)
	if clean == "" || clean == "." || clean == "/" {
		return nil
	}

	var cur string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if cur == "" {
			cur = seg
		} else {
			cur = cur + "/" + seg
		}
		if fi, err := r.Client.Stat(cur); err == nil && fi.IsDir() {
			continue
		}
		if err := r.Client.Mkdir(cur); err != nil {
			if fi, statErr := r.Client.Stat(cur); statErr == nil && fi.IsDir() {
				continue // lost a race with another worker; already there
			}
			return err
		}
	}
	return nil
}

func (r RemoteFS) Remove(p string) error {
	return r.Client.Remove(p)
}

func (r RemoteFS) RemoveDirectory(p string) error {
	return r.Client.RemoveDirectory(p)
}

func (r RemoteFS) Rename(oldpath, newpath string) error {
	if dir := path.Dir(newpath); dir != "." {
		if err := r.MkdirAll(dir); err != nil {
			return err
		}
	}
	return r.Client.Rename(oldpath, newpath)
}

func (r RemoteFS) ReadDir(p string) ([]os.FileInfo, error) {
	return r.Client.ReadDir(p)
}

func (r RemoteFS) Stat(p string) (os.FileInfo, error) {
	return r.Client.Stat(p)
}
