// Mgmt
// Copyright (C) 2013-2021+ James Shubin and the project contributors
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

// Package semaphore contains an implementation of a counting semaphore, used
// to bound how many hosts the Module Executor touches at once during a
// parallel fan-out (spec.md §5).
package semaphore

import (
	"context"
	"fmt"
)

// Semaphore is a counting semaphore. It must be initialized before use.
type Semaphore struct {
	C      chan struct{}
	closed chan struct{}
}

// New creates a new semaphore allowing up to size concurrent holders. A size
// of zero or less means unbounded: P and V become no-ops.
func New(size int) *Semaphore {
	obj := &Semaphore{}
	obj.Init(size)
	return obj
}

// Init initializes the semaphore.
func (obj *Semaphore) Init(size int) {
	if size <= 0 {
		obj.C = nil
		obj.closed = make(chan struct{})
		return
	}
	obj.C = make(chan struct{}, size)
	obj.closed = make(chan struct{})
}

// Close shuts down the semaphore and releases all the locks.
func (obj *Semaphore) Close() {
	close(obj.closed)
}

// P acquires one resource, unless ctx is canceled first.
func (obj *Semaphore) P(ctx context.Context) error {
	if obj.C == nil { // unbounded
		return nil
	}
	select {
	case obj.C <- struct{}{}: // acquire
		return nil
	case <-obj.closed:
		return fmt.Errorf("closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// V releases one resource.
func (obj *Semaphore) V() {
	if obj.C == nil { // unbounded
		return
	}
	select {
	case <-obj.C: // release
	default:
		panic("semaphore: V > P")
	}
}
