// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"fmt"
	"strings"
)

// safeString returns s terminated with a single NUL, the form every
// string field of the raw structs is read in.
func safeString(s string) (string, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return "", fmt.Errorf("%q: %w", s, ErrEmbeddedNUL)
	}
	return s + "\x00", nil
}

// safeStrings terminates every element of sgs. An empty input yields nil
// so that absent lists marshal as a nil array with a zero count.
func safeStrings(sgs []string) ([]string, error) {
	if len(sgs) == 0 {
		return nil, nil
	}
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		terminated, err := safeString(s)
		if err != nil {
			return nil, err
		}
		safe = append(safe, terminated)
	}
	return safe, nil
}

// copyStrings returns an owned copy of sgs, preserving nil.
func copyStrings(sgs []string) []string {
	if sgs == nil {
		return nil
	}
	return append([]string{}, sgs...)
}
