package errwrap

import (
	"fmt"
	"strings"
	"testing"
)

func TestWrapfNil(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendBothNil(t *testing.T) {
	if err := Append(nil, "host1", nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendKeepsFirstWhenErrNil(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, "host1", nil); err != reterr {
		t.Errorf("expected reterr unchanged")
	}
}

func TestAppendTagsFirstError(t *testing.T) {
	err := fmt.Errorf("boom")
	out := Append(nil, "host1", err)
	if out == nil {
		t.Fatal("expected non-nil result")
	}
	if !strings.Contains(out.Error(), "host1") || !strings.Contains(out.Error(), "boom") {
		t.Errorf("expected label and underlying error both present, got %q", out.Error())
	}
}

func TestAppendBothSetKeepsBothLabels(t *testing.T) {
	a := Append(nil, "host1", fmt.Errorf("a"))
	out := Append(a, "host2", fmt.Errorf("b"))
	if out == nil {
		t.Fatal("expected non-nil result")
	}
	s := out.Error()
	for _, want := range []string{"host1", "a", "host2", "b"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in accumulated error, got %q", want, s)
		}
	}
}
