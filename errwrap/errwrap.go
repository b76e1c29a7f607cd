// Mgmt
// Copyright (C) 2013-2020+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package errwrap contains error helpers tuned for the fleet control
// plane's failure shape: a run touches many hosts and files independently,
// and a failure on one must never hide or swallow a failure on another.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf adds a new error onto an existing chain of errors. If the new error
// to be added is nil, then the old error is returned unchanged.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append tags err with label and appends it onto reterr, which may already
// be an accumulation of earlier per-host or per-file failures. The label is
// folded in here (rather than left to the caller to pre-wrap) so that once
// many of these are flattened into one *multierror.Error, each line still
// names the host or file it came from, even after the chain has grown long
// and the call site that produced any one entry is long gone. A nil err is
// a no-op; a nil reterr just becomes the first entry.
func Append(reterr error, label string, err error) error {
	if err == nil { // no error, so don't do anything
		return reterr
	}
	tagged := Wrapf(err, "%s", label)
	if reterr == nil { // first real error in the chain
		return tagged
	}
	return multierror.Append(reterr, tagged)
}

// String returns a string representation of the error. In particular, if the
// error is nil, it returns an empty string instead of panicing.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
