package cli

import (
	"os"
	"testing"

	"github.com/opsfleet/emp/logx"
)

func TestVerbosityFromEnv(t *testing.T) {
	t.Setenv("V", "")
	if got := verbosityFromEnv(false); got != logx.Quiet {
		t.Errorf("expected Quiet by default, got %v", got)
	}
	if got := verbosityFromEnv(true); got != logx.Debug {
		t.Errorf("expected -v to force Debug, got %v", got)
	}

	t.Setenv("V", "1")
	if got := verbosityFromEnv(false); got != logx.Normal {
		t.Errorf("expected Normal for V=1, got %v", got)
	}

	t.Setenv("V", "2")
	if got := verbosityFromEnv(false); got != logx.Debug {
		t.Errorf("expected Debug for V=2, got %v", got)
	}
}

func TestRebuildFromEnv(t *testing.T) {
	os.Unsetenv("RB")
	if rebuildFromEnv() {
		t.Error("expected false when RB is unset")
	}

	t.Setenv("RB", "0")
	if rebuildFromEnv() {
		t.Error("expected false for RB=0")
	}

	t.Setenv("RB", "1")
	if !rebuildFromEnv() {
		t.Error("expected true for RB=1")
	}
}
