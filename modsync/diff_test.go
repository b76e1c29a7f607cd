package modsync

import "testing"

func TestClassifyNewFile(t *testing.T) {
	local := map[string]string{"a.py": "h1"}
	remote := map[string]string{}
	cs := classify(local, remote)
	if len(cs.New) != 1 || cs.New[0] != "a.py" {
		t.Fatalf("expected a.py as NEW, got %+v", cs)
	}
}

func TestClassifyUpdatedFile(t *testing.T) {
	local := map[string]string{"a.py": "h2"}
	remote := map[string]string{"a.py": "h1"}
	cs := classify(local, remote)
	if len(cs.Updated) != 1 || cs.Updated[0] != "a.py" {
		t.Fatalf("expected a.py as UPDATED, got %+v", cs)
	}
}

func TestClassifyUnchangedFileProducesNoEntries(t *testing.T) {
	local := map[string]string{"a.py": "h1"}
	remote := map[string]string{"a.py": "h1"}
	cs := classify(local, remote)
	if !cs.Empty() {
		t.Fatalf("expected empty change set, got %+v", cs)
	}
}

func TestClassifyDeletedFile(t *testing.T) {
	local := map[string]string{}
	remote := map[string]string{"a.py": "h1"}
	cs := classify(local, remote)
	if len(cs.Deleted) != 1 || cs.Deleted[0] != "a.py" {
		t.Fatalf("expected a.py as DELETED, got %+v", cs)
	}
}

func TestClassifyRenamedSameDirectory(t *testing.T) {
	local := map[string]string{"src/b.py": "h1"}
	remote := map[string]string{"src/a.py": "h1"}
	cs := classify(local, remote)
	if len(cs.Renamed) != 1 {
		t.Fatalf("expected one RENAMED entry, got %+v", cs)
	}
	got := cs.Renamed[0]
	if got.Source != "src/b.py" || got.Target != "src/a.py" {
		t.Fatalf("unexpected rename entry: %+v", got)
	}
	if len(cs.Moved) != 0 || len(cs.New) != 0 || len(cs.Deleted) != 0 {
		t.Fatalf("rename should not also appear in other buckets: %+v", cs)
	}
}

func TestClassifyMovedDifferentDirectory(t *testing.T) {
	local := map[string]string{"lib/a.py": "h1"}
	remote := map[string]string{"src/a.py": "h1"}
	cs := classify(local, remote)
	if len(cs.Moved) != 1 {
		t.Fatalf("expected one MOVED entry, got %+v", cs)
	}
	got := cs.Moved[0]
	if got.Source != "lib/a.py" || got.Target != "src/a.py" {
		t.Fatalf("unexpected move entry: %+v", got)
	}
}

func TestClassifyShouldRebuildOnRequirementsChange(t *testing.T) {
	cs := ChangeSet{Updated: []string{RequirementsFile}}
	if !cs.ShouldRebuild() {
		t.Fatal("expected ShouldRebuild true when requirements.txt updated")
	}
	cs = ChangeSet{Updated: []string{"run.sh"}}
	if cs.ShouldRebuild() {
		t.Fatal("expected ShouldRebuild false when requirements.txt untouched")
	}
}

func TestClassifyMixedBatch(t *testing.T) {
	local := map[string]string{
		"run.sh":     "unchanged-hash",
		"new.py":     "new-hash",
		"updated.py": "updated-hash-v2",
		"moved/x.py": "moved-hash",
	}
	remote := map[string]string{
		"run.sh":       "unchanged-hash",
		"updated.py":   "updated-hash-v1",
		"deleted.py":   "deleted-hash",
		"original/x.py": "moved-hash",
	}
	cs := classify(local, remote)
	if len(cs.New) != 1 || cs.New[0] != "new.py" {
		t.Fatalf("expected new.py as NEW, got %+v", cs.New)
	}
	if len(cs.Updated) != 1 || cs.Updated[0] != "updated.py" {
		t.Fatalf("expected updated.py as UPDATED, got %+v", cs.Updated)
	}
	if len(cs.Deleted) != 1 || cs.Deleted[0] != "deleted.py" {
		t.Fatalf("expected deleted.py as DELETED, got %+v", cs.Deleted)
	}
	if len(cs.Moved) != 1 || cs.Moved[0].Source != "moved/x.py" || cs.Moved[0].Target != "original/x.py" {
		t.Fatalf("expected moved/x.py <- original/x.py, got %+v", cs.Moved)
	}
}
