package cliutil

import "testing"

func TestSafeProgramStripsSubcommand(t *testing.T) {
	cases := map[string]string{
		"emp":            "emp",
		"emp check":      "emp",
		"emp attached x": "emp",
	}
	for in, want := range cases {
		if got := SafeProgram(in); got != want {
			t.Errorf("SafeProgram(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCliParseErrorNilStaysNil(t *testing.T) {
	if err := CliParseError(nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}
