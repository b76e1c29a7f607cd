package fleetssh

import (
	"reflect"
	"testing"
)

func TestClassifyTmuxNoServerRunning(t *testing.T) {
	p := classifyTmux("", "no server running on /tmp/tmux-0/default\n")
	if p.Status != StatusIdle {
		t.Fatalf("expected StatusIdle, got %v", p.Status)
	}
	if len(p.Sessions) != 0 {
		t.Fatalf("expected no sessions, got %v", p.Sessions)
	}
}

func TestClassifyTmuxCommandNotFound(t *testing.T) {
	p := classifyTmux("", "bash: tmux: command not found\n")
	if p.Status != StatusNoMultiplexer {
		t.Fatalf("expected StatusNoMultiplexer, got %v", p.Status)
	}
}

func TestClassifyTmuxIdleEmptyOutput(t *testing.T) {
	p := classifyTmux("", "")
	if p.Status != StatusIdle {
		t.Fatalf("expected StatusIdle, got %v", p.Status)
	}
}

func TestClassifyTmuxBusyFiltersManagedSessions(t *testing.T) {
	stdout := "_emp_deploy_123: 1 windows (created ...)\nscratch: 2 windows (created ...)\n"
	p := classifyTmux(stdout, "")
	if p.Status != StatusBusy {
		t.Fatalf("expected StatusBusy, got %v", p.Status)
	}
	want := []string{"_emp_deploy_123"}
	if !reflect.DeepEqual(p.Sessions, want) {
		t.Fatalf("expected %v, got %v", want, p.Sessions)
	}
}

func TestManagedSessionsIgnoresUnmanaged(t *testing.T) {
	got := managedSessions("alice: 1 windows\n_emp_build_42: 1 windows\n")
	want := []string{"_emp_build_42"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
