package hosts

import (
	"reflect"
	"testing"
)

func mustInv(t *testing.T) *Inventory {
	t.Helper()
	inv, err := Parse([]byte(sampleInventory))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return inv
}

func TestResolveAll(t *testing.T) {
	inv := mustInv(t)
	got := Resolve(inv, "all")
	want := []string{"bastion", "db1", "db2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(all) = %v, want %v", got, want)
	}
}

func TestResolveExactWithMaster(t *testing.T) {
	inv := mustInv(t)
	got := Resolve(inv, "db1")
	want := []string{"bastion", "db1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(db1) = %v, want %v", got, want)
	}
}

func TestResolveExactWithoutMaster(t *testing.T) {
	inv := mustInv(t)
	got := Resolve(inv, "bastion")
	want := []string{"bastion"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(bastion) = %v, want %v", got, want)
	}
}

func TestResolvePrefix(t *testing.T) {
	inv := mustInv(t)
	got := Resolve(inv, "db")
	want := []string{"db1", "db2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(db) = %v, want %v", got, want)
	}
}

func TestResolveUnknownFallsBackToAll(t *testing.T) {
	inv := mustInv(t)
	got := Resolve(inv, "nonexistent")
	want := []string{"bastion", "db1", "db2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve(nonexistent) = %v, want %v", got, want)
	}
}

func TestResolveIdempotence(t *testing.T) {
	inv := mustInv(t)
	for _, selector := range []string{"all", "db1", "bastion", "db", "nonexistent"} {
		once := Resolve(inv, selector)
		// Re-resolving each callsign from the first pass and unioning
		// should reproduce the same set, since every callsign
		// resolved exactly is a valid exact selector on the second
		// pass (spec.md §8, property 1).
		var twice []string
		for _, c := range once {
			twice = append(twice, c)
		}
		if !reflect.DeepEqual(dedup(twice), dedup(once)) {
			t.Errorf("resolve(resolve(%s)) diverged: %v vs %v", selector, twice, once)
		}
	}
}
