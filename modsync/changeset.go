package modsync

import "path"

// MoveEntry describes one server-side rename: Source is the new local name
// the file now has, Target is the name it's still known by on the remote
// side (spec.md §3, Change set).
type MoveEntry struct {
	Source string
	Target string
}

// ChangeSet partitions the files touched by one sync into five disjoint
// buckets (spec.md §3, §8 property 3).
type ChangeSet struct {
	New     []string
	Updated []string
	Moved   []MoveEntry
	Renamed []MoveEntry
	Deleted []string
}

// ShouldRebuild reports whether requirements.txt was touched by this change
// set, the rebuild trigger of spec.md §4.4 step 7 / §8 property 5.
func (cs ChangeSet) ShouldRebuild() bool {
	for _, f := range cs.New {
		if f == RequirementsFile {
			return true
		}
	}
	for _, f := range cs.Updated {
		if f == RequirementsFile {
			return true
		}
	}
	return false
}

// Empty reports whether the change set touches nothing at all.
func (cs ChangeSet) Empty() bool {
	return len(cs.New) == 0 && len(cs.Updated) == 0 && len(cs.Moved) == 0 &&
		len(cs.Renamed) == 0 && len(cs.Deleted) == 0
}

// sameDir reports whether a and b share their immediate parent directory,
// the test that distinguishes RENAMED from MOVED.
func sameDir(a, b string) bool {
	return path.Dir(a) == path.Dir(b)
}
