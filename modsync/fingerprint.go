package modsync

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/opsfleet/emp/errwrap"
)

// chunkSize is the read granularity used while fingerprinting. Preserved at
// 4096 bytes to match the original tool's behavior exactly (spec.md §3,
// File fingerprint).
const chunkSize = 4096

// fingerprint hashes r with MD5 over whitespace-stripped 4096-byte chunks.
// This intentionally reproduces a quirk of the original tool: two files
// differing only in trailing whitespace within a chunk boundary will
// collide. Kept verbatim for bug-compatibility (spec.md §9, Design Notes;
// decided in SPEC_FULL.md §9).
func fingerprint(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			stripped := bytes.TrimSpace(buf[:n])
			h.Write(stripped)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// localFingerprints walks the module's local tree via fs, hashing every
// file except the commit image, which is controller-only and never part of
// the sync (spec.md §4.4 step 3). Keys are slash-separated paths relative
// to root.
func localFingerprints(fs afero.Fs, root, excludeName string) (map[string]string, error) {
	out := make(map[string]string)
	err := afero.Walk(fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == excludeName {
			return nil
		}

		f, err := fs.Open(p)
		if err != nil {
			return errwrap.Wrapf(err, "can't open %s", p)
		}
		defer f.Close()

		sum, err := fingerprint(f)
		if err != nil {
			return errwrap.Wrapf(err, "can't hash %s", p)
		}
		out[rel] = sum
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
