// Package cliutil has some CLI related utility code shared by the cli
// package, adapted from the teacher's cli/util.
package cliutil

import (
	"strings"

	"github.com/opsfleet/emp/errwrap"
)

// CliParseError returns a consistent error for a CLI parsing failure.
func CliParseError(err error) error {
	return errwrap.Wrapf(err, "cli parse error")
}

// Data is the set of values passed to the top-level CLI entry point.
type Data struct {
	Program string
	Version string
	Args    []string // os.Args usually
}

// SafeProgram strips anything after the first space in program, guarding
// against go-arg appending a subcommand name to Program in nested usage
// strings.
func SafeProgram(program string) string {
	return strings.Split(program, " ")[0]
}
