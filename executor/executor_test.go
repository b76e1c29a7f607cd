package executor

import (
	"context"
	"testing"

	"github.com/spf13/afero"

	"github.com/opsfleet/emp/fleetssh"
	"github.com/opsfleet/emp/logx"
	"github.com/opsfleet/emp/modsync"
)

func TestRunModuleOnUnavailableConnection(t *testing.T) {
	fs := afero.NewMemMapFs()
	conn := &fleetssh.Connection{Callsign: "db1"}
	mod := modsync.New("/src")
	log := logx.New(logx.Quiet)

	res := RunModule(fs, conn, mod, log, Options{})
	if res.Err == nil {
		t.Fatal("expected an error for an unavailable connection")
	}
	if res.Ran {
		t.Fatal("should not report Ran for an unavailable connection")
	}
}

func TestRunSequentialVisitsEveryHost(t *testing.T) {
	fs := afero.NewMemMapFs()
	mod := modsync.New("/src")
	log := logx.New(logx.Quiet)
	conns := []*fleetssh.Connection{
		{Callsign: "a"},
		{Callsign: "b"},
		{Callsign: "c"},
	}

	results := RunSequential(fs, conns, mod, log, Options{})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Host != want {
			t.Fatalf("result[%d].Host = %s, want %s", i, results[i].Host, want)
		}
	}
}

func TestRunParallelVisitsEveryHost(t *testing.T) {
	fs := afero.NewMemMapFs()
	mod := modsync.New("/src")
	log := logx.New(logx.Quiet)
	conns := []*fleetssh.Connection{
		{Callsign: "a"},
		{Callsign: "b"},
		{Callsign: "c"},
		{Callsign: "d"},
	}

	results := RunParallel(context.Background(), fs, conns, mod, log, Options{}, 2)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Host] = true
		if r.Err == nil {
			t.Fatalf("expected an error for unavailable connection %s", r.Host)
		}
	}
	for _, want := range []string{"a", "b", "c", "d"} {
		if !seen[want] {
			t.Fatalf("missing result for host %s", want)
		}
	}
}
