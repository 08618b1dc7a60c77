// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ufs

import (
	"github.com/grailbio/sysbase/errors"
)

// Code is the discrete error taxonomy exposed by this package, mirroring the
// C original's errno-style codes. Every public operation's error, if any,
// maps to exactly one Code; use CodeOf to recover it.
type Code int

const (
	// NoErr indicates success. CodeOf returns NoErr for a nil error.
	NoErr Code = iota
	// NoFile indicates a missing file or descriptor.
	NoFile
	// NoMem indicates that an operation would exceed a capacity limit (file
	// size cap, or another allocation failure).
	NoMem
	// NoPermission indicates that the descriptor's open mode forbids the
	// requested operation.
	NoPermission
)

func (c Code) String() string {
	switch c {
	case NoErr:
		return "no error"
	case NoFile:
		return "no such file"
	case NoMem:
		return "out of space"
	case NoPermission:
		return "permission denied"
	default:
		return "unknown ufs error"
	}
}

var codeKind = map[Code]errors.Kind{
	NoFile:       errors.NotExist,
	NoMem:        errors.OOM,
	NoPermission: errors.NotAllowed,
}

func newError(code Code, message string) error {
	return errors.E(codeKind[code], message)
}

// CodeOf recovers the Code carried by an error returned from this package.
// It returns NoErr for a nil error and NoFile for any error this package did
// not itself produce (a conservative default, since "missing" is the most
// common caller mistake).
func CodeOf(err error) Code {
	if err == nil {
		return NoErr
	}
	switch {
	case errors.Is(errors.NotExist, err):
		return NoFile
	case errors.Is(errors.OOM, err):
		return NoMem
	case errors.Is(errors.NotAllowed, err):
		return NoPermission
	default:
		return NoFile
	}
}

var (
	errNoFile       = newError(NoFile, "no such file")
	errNoPermission = newError(NoPermission, "permission denied")
)
