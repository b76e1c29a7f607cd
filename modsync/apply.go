package modsync

import (
	"fmt"
	"path"
	"time"

	"github.com/spf13/afero"

	"github.com/opsfleet/emp/commit"
	"github.com/opsfleet/emp/errwrap"
)

// ApplyReport summarizes one Sync call: what was classified, what actually
// made it to the remote side, and any per-file failures along the way.
type ApplyReport struct {
	Changes       ChangeSet
	Uploaded      []string
	Renamed       []string
	Deleted       []string
	ShouldRebuild bool
	Errors        error
}

// Sync brings the remote copy of mod in line with its local tree: it loads
// the commit image, fingerprints both sides, classifies the difference, and
// applies it over rfs. Per-file failures are accumulated in the returned
// report rather than aborting the whole sync (spec.md §4.4, §9 Design
// Notes — partial failure never corrupts the commit image, since only
// files that transferred cleanly are recorded in it).
func Sync(fs afero.Fs, rfs RemoteFS, mod Module) (*ApplyReport, error) {
	img, err := commit.Load(mod.CommitImagePath())
	if err != nil {
		return nil, err
	}

	local, err := localFingerprints(fs, mod.LocalDir, mod.commitImageName())
	if err != nil {
		return nil, err
	}
	remote, err := remoteFingerprints(rfs, mod.RemoteDir(), img.Latest())
	if err != nil {
		return nil, err
	}

	cs := classify(local, remote)
	report := &ApplyReport{Changes: cs}

	changedLocal := make(map[string]bool)
	for _, rel := range cs.New {
		changedLocal[rel] = true
	}
	for _, rel := range cs.Updated {
		changedLocal[rel] = true
	}
	for _, mv := range cs.Moved {
		changedLocal[mv.Source] = true
	}
	for _, rn := range cs.Renamed {
		changedLocal[rn.Source] = true
	}

	succeeded := make(map[string]bool)
	for rel := range local {
		if !changedLocal[rel] {
			succeeded[rel] = true // unchanged, already on the remote side
		}
	}

	var touchedDirs []string
	remoteDir := mod.RemoteDir()

	for _, rel := range append(append([]string(nil), cs.New...), cs.Updated...) {
		localPath := path.Join(mod.LocalDir, rel)
		if err := uploadFile(rfs, fs, localPath, remoteDir, rel); err != nil {
			report.Errors = errwrap.Append(report.Errors, "upload "+rel, err)
			continue
		}
		succeeded[rel] = true
		report.Uploaded = append(report.Uploaded, rel)
		touchedDirs = append(touchedDirs, path.Dir(path.Join(remoteDir, rel)))
	}

	for _, entries := range [][]MoveEntry{cs.Renamed, cs.Moved} {
		for _, mv := range entries {
			oldPath := path.Join(remoteDir, mv.Target)
			newPath := path.Join(remoteDir, mv.Source)
			label := fmt.Sprintf("rename %s -> %s", mv.Target, mv.Source)
			if dir := path.Dir(newPath); dir != "." {
				if err := rfs.MkdirAll(dir); err != nil {
					report.Errors = errwrap.Append(report.Errors, label, err)
					continue
				}
			}
			if err := rfs.Rename(oldPath, newPath); err != nil {
				report.Errors = errwrap.Append(report.Errors, label, err)
				continue
			}
			succeeded[mv.Source] = true
			report.Renamed = append(report.Renamed, mv.Source)
			touchedDirs = append(touchedDirs, path.Dir(oldPath), path.Dir(newPath))
		}
	}

	for _, rel := range cs.Deleted {
		remotePath := path.Join(remoteDir, rel)
		if err := rfs.Remove(remotePath); err != nil {
			report.Errors = errwrap.Append(report.Errors, "delete "+rel, err)
			continue
		}
		report.Deleted = append(report.Deleted, rel)
		touchedDirs = append(touchedDirs, path.Dir(remotePath))
	}

	if err := sweepEmptyDirs(rfs, remoteDir, touchedDirs); err != nil {
		report.Errors = errwrap.Append(report.Errors, "sweep empty directories", err)
	}

	// cs.ShouldRebuild() alone isn't enough here: it only asks whether
	// requirements.txt changed locally, not whether that change actually
	// made it to the remote side. Gating on succeeded too means a failed
	// requirements.txt upload doesn't trigger a rebuild against stale
	// dependencies.
	if cs.ShouldRebuild() && succeeded[RequirementsFile] {
		report.ShouldRebuild = true
	}

	// Only record a new commit when something actually changed (spec.md
	// §4.4 step 8): an idempotent resync of an unchanged tree must not
	// grow the commit image or advance its id.
	if !cs.Empty() {
		finalFiles := make([]string, 0, len(succeeded))
		for rel := range succeeded {
			finalFiles = append(finalFiles, rel)
		}
		img.Append(finalFiles, time.Now())
		if err := img.Save(); err != nil {
			report.Errors = errwrap.Append(report.Errors, "save commit image", err)
		}
	}

	return report, nil
}
