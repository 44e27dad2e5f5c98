// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addrmgr

import (
	"errors"

	gospelerr "github.com/bfix/gospel/errors"
)

// The three coarse error kinds this package returns. Routine rejections
// (Add returning false, MarkAttempt on an unknown address, a duplicate
// Ban) are never errors — they are silent, by design.
var (
	// ErrInvalidArgument marks a programming-error-level invariant
	// violation: a zero port passed to Add, a ref_count found outside
	// [0,8], a size mismatch on export.
	ErrInvalidArgument = errors.New("addrmgr: invalid argument")

	// ErrFileError marks persistence I/O failure: file absent,
	// unreadable, or unwritable.
	ErrFileError = errors.New("addrmgr: file error")

	// ErrDecodeError marks a structurally invalid persisted dump:
	// version/magic mismatch, truncation, bucket overflow, a dangling
	// key, or trailing bytes.
	ErrDecodeError = errors.New("addrmgr: decode error")
)

// wrapf attaches a formatted context message to one of the sentinel kinds
// above using gospel's Error{Err, Ctx} wrapper, so callers can still
// errors.Is(err, ErrDecodeError) etc. while getting a human-readable
// message out of Error().
func wrapf(base error, format string, args ...interface{}) error {
	return gospelerr.New(base, format, args...)
}
