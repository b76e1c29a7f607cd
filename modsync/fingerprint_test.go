package modsync

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestFingerprintStripsWhitespacePerChunk(t *testing.T) {
	a, err := fingerprint(strings.NewReader("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := fingerprint(strings.NewReader("hello world   \n\t "))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("trailing whitespace within one chunk should collide: %s != %s", a, b)
	}
}

func TestFingerprintDiffersOnContent(t *testing.T) {
	a, _ := fingerprint(strings.NewReader("alpha"))
	b, _ := fingerprint(strings.NewReader("beta"))
	if a == b {
		t.Fatal("different content produced the same fingerprint")
	}
}

func TestLocalFingerprintsExcludesCommitImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/mod/run.sh", []byte("echo hi"), 0o644)
	afero.WriteFile(fs, "/mod/.mymod_commit_image.json", []byte("{}"), 0o644)
	afero.WriteFile(fs, "/mod/src/a.py", []byte("print(1)"), 0o644)

	got, err := localFingerprints(fs, "/mod", ".mymod_commit_image.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[".mymod_commit_image.json"]; ok {
		t.Fatal("commit image should be excluded from fingerprints")
	}
	if _, ok := got["run.sh"]; !ok {
		t.Fatal("expected run.sh in fingerprints")
	}
	if _, ok := got["src/a.py"]; !ok {
		t.Fatal("expected src/a.py in fingerprints, using slash-separated relative path")
	}
}
