// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "runtime"

// Arena owns everything a marshaled create info refers to: terminated
// strings, nested structs and memory handed out by the raw bindings.
// It must stay alive until the raw call that reads the marshaled struct
// returns, and is released right after. The zero value is ready to use.
// An Arena is scoped to a single call and is not safe for concurrent use.
type Arena struct {
	keep    []interface{}
	release []func()
}

// Keep retains v until Release.
func (a *Arena) Keep(v interface{}) {
	a.keep = append(a.keep, v)
}

// OnRelease registers fn to run on Release. Functions run in reverse
// registration order.
func (a *Arena) OnRelease(fn func()) {
	if fn == nil {
		return
	}
	a.release = append(a.release, fn)
}

// String returns a NUL terminated copy of s owned by the arena.
func (a *Arena) String(s string) (string, error) {
	safe, err := safeString(s)
	if err != nil {
		return "", err
	}
	a.Keep(safe)
	return safe, nil
}

// Strings returns NUL terminated copies of sgs owned by the arena,
// or nil when sgs is empty.
func (a *Arena) Strings(sgs []string) ([]string, error) {
	safe, err := safeStrings(sgs)
	if err != nil {
		return nil, err
	}
	if safe != nil {
		a.Keep(safe)
	}
	return safe, nil
}

// Retained reports how many values and release functions the arena holds.
func (a *Arena) Retained() int {
	return len(a.keep) + len(a.release)
}

// Release frees everything the arena owns. It is safe to call more than once.
func (a *Arena) Release() {
	for i := len(a.release) - 1; i >= 0; i-- {
		a.release[i]()
	}
	runtime.KeepAlive(a.keep)
	a.keep = nil
	a.release = nil
}
