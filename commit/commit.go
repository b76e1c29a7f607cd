// Package commit implements the local commit image store: a per-module JSON
// record of the file manifest deployed in each past sync, so that future
// diffs can bound their remote reads to the last known state (spec.md §3,
// §4.4 step 2/8).
package commit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/opsfleet/emp/errwrap"
)

// SentinelID is the pre-first-commit placeholder, removed as soon as a real
// commit is appended.
const SentinelID = 0

// Entry is one recorded deployment.
type Entry struct {
	CommitDate   time.Time `json:"commit_date"`
	FilesInCommit []string  `json:"files_in_commit"`
}

// Image is the full commit history for one module, keyed by a monotonically
// increasing integer id (stored as a string, per spec.md §6).
type Image struct {
	path    string
	entries map[int]Entry
}

// New returns an empty image seeded with the id-0 sentinel, as used before
// the first successful deploy.
func New(path string) *Image {
	return &Image{
		path:    path,
		entries: map[int]Entry{SentinelID: {CommitDate: time.Time{}, FilesInCommit: nil}},
	}
}

// Load reads the commit image at path, or returns a fresh sentinel-only
// image if the file doesn't exist yet (the pre-first-deploy case).
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(path), nil
	}
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read commit image: %s", path)
	}

	var raw map[string]struct {
		CommitDate    time.Time `json:"commit_date"`
		FilesInCommit []string  `json:"files_in_commit"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errwrap.Wrapf(err, "corrupt commit image: %s", path)
	}

	img := &Image{path: path, entries: make(map[int]Entry, len(raw))}
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("corrupt commit image: non-integer id %q", k)
		}
		img.entries[id] = Entry{CommitDate: v.CommitDate, FilesInCommit: v.FilesInCommit}
	}
	if len(img.entries) == 0 {
		img.entries[SentinelID] = Entry{}
	}
	return img, nil
}

// Latest returns the file list of the most recently appended commit. If
// only the sentinel exists, this returns an empty list.
func (img *Image) Latest() []string {
	id := img.latestID()
	return img.entries[id].FilesInCommit
}

func (img *Image) latestID() int {
	max := SentinelID
	for id := range img.entries {
		if id > max {
			max = id
		}
	}
	return max
}

// Append records a new commit with the given file list, stripping the id-0
// sentinel if still present (spec.md §3). It returns the new commit's id.
func (img *Image) Append(files []string, at time.Time) int {
	delete(img.entries, SentinelID)

	id := img.latestID() + 1
	if len(img.entries) == 0 {
		id = 1
	}
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	img.entries[id] = Entry{CommitDate: at, FilesInCommit: sorted}
	return id
}

// Save persists the image to its path atomically (write to a temp file in
// the same directory, then rename), so a crash mid-write never corrupts the
// previous, valid image.
func (img *Image) Save() error {
	raw := make(map[string]Entry, len(img.entries))
	for id, entry := range img.entries {
		raw[strconv.Itoa(id)] = entry
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return errwrap.Wrapf(err, "can't marshal commit image")
	}

	tmp := img.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errwrap.Wrapf(err, "can't write commit image")
	}
	if err := os.Rename(tmp, img.path); err != nil {
		return errwrap.Wrapf(err, "can't finalize commit image")
	}
	return nil
}
