package modsync

import (
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// RemoteFS is the minimal file-transfer surface the synchronizer needs.
// It's satisfied by fleetssh's SFTP wrapper, but declared here so modsync
// never imports the ssh/sftp stack directly — it only needs an interface,
// following the same "accept an interface, get a struct" shape the teacher
// uses for afero.Fs in util/afero.go.
type RemoteFS interface {
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
	MkdirAll(path string) error
	Remove(path string) error
	RemoveDirectory(path string) error
	Rename(oldpath, newpath string) error
	ReadDir(path string) ([]os.FileInfo, error)
	Stat(path string) (os.FileInfo, error)
}

// remoteFingerprints hashes only the files listed in paths — the optimization
// from spec.md §4.4 step 4 that bounds remote I/O to the size of the last
// known commit, rather than a full remote tree walk.
func remoteFingerprints(rfs RemoteFS, remoteDir string, paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	for _, rel := range paths {
		full := path.Join(remoteDir, rel)
		f, err := rfs.Open(full)
		if os.IsNotExist(err) {
			continue // file vanished remotely since the last commit; treat as absent
		}
		if err != nil {
			return nil, err
		}
		sum, err := fingerprint(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out[rel] = sum
	}
	return out, nil
}

// uploadFile creates any missing parent directories and copies src's
// content to dst on the remote side.
func uploadFile(rfs RemoteFS, fs afero.Fs, localPath, remoteDir, rel string) error {
	remotePath := path.Join(remoteDir, rel)
	if dir := path.Dir(remotePath); dir != "." {
		if err := rfs.MkdirAll(dir); err != nil {
			return err
		}
	}

	src, err := fs.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := rfs.Create(remotePath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// sweepEmptyDirs removes now-empty directories left behind by deletes and
// moves, walking upward from each touched directory until a non-empty
// parent is reached (spec.md §4.4 step 6, property 7).
func sweepEmptyDirs(rfs RemoteFS, remoteRoot string, touchedDirs []string) error {
	seen := make(map[string]bool)
	for _, dir := range touchedDirs {
		for dir != "" && dir != "." && dir != remoteRoot && strings.HasPrefix(dir, remoteRoot) {
			if seen[dir] {
				break
			}
			seen[dir] = true

			entries, err := rfs.ReadDir(dir)
			if os.IsNotExist(err) {
				dir = path.Dir(dir)
				continue
			}
			if err != nil {
				return err
			}
			if len(entries) > 0 {
				break // non-empty parent reached, stop climbing
			}
			if err := rfs.RemoveDirectory(dir); err != nil {
				return err
			}
			dir = path.Dir(dir)
		}
	}
	return nil
}
