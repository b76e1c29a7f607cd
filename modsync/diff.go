package modsync

import "sort"

// classify computes the ChangeSet between what the last commit shipped
// (remote) and what the local tree now looks like, following the five-step
// procedure of spec.md §4.4 step 5.
//
// Step 1: local paths that also exist remotely are either unchanged (same
// hash, dropped from both sides) or UPDATED (different hash). Anything left
// over on the local side after this pass is a "not-found-source" candidate
// for a move; anything left on the remote side is a "remaining-remote"
// candidate. Step 2 pairs those two pools by matching hash, classifying each
// pair RENAMED (same parent directory) or MOVED (different parent
// directory). Whatever is left unpaired is NEW (local-only) or DELETED
// (remote-only).
func classify(local, remote map[string]string) ChangeSet {
	var cs ChangeSet

	notFoundSource := make(map[string]string, len(local))
	for rel, hash := range local {
		remoteHash, ok := remote[rel]
		if !ok {
			notFoundSource[rel] = hash
			continue
		}
		if remoteHash != hash {
			cs.Updated = append(cs.Updated, rel)
		}
		delete(remote, rel)
	}
	remainingRemote := remote // what's left is remote-only

	// Sort both pools so matching is deterministic even when several
	// candidates share a hash.
	sourcePaths := make([]string, 0, len(notFoundSource))
	for rel := range notFoundSource {
		sourcePaths = append(sourcePaths, rel)
	}
	sort.Strings(sourcePaths)

	targetPaths := make([]string, 0, len(remainingRemote))
	for rel := range remainingRemote {
		targetPaths = append(targetPaths, rel)
	}
	sort.Strings(targetPaths)

	matchedTarget := make(map[string]bool, len(targetPaths))
	for _, s := range sourcePaths {
		hash := notFoundSource[s]
		matched := ""
		for _, t := range targetPaths {
			if matchedTarget[t] {
				continue
			}
			if remainingRemote[t] == hash {
				matched = t
				break
			}
		}
		if matched == "" {
			cs.New = append(cs.New, s)
			continue
		}
		matchedTarget[matched] = true
		entry := MoveEntry{Source: s, Target: matched}
		if sameDir(s, matched) {
			cs.Renamed = append(cs.Renamed, entry)
		} else {
			cs.Moved = append(cs.Moved, entry)
		}
	}

	for _, t := range targetPaths {
		if !matchedTarget[t] {
			cs.Deleted = append(cs.Deleted, t)
		}
	}

	sort.Strings(cs.New)
	sort.Strings(cs.Updated)
	sort.Strings(cs.Deleted)
	return cs
}
