// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"github.com/grailbio/sysbase/errors"
)

var (
	// errSyntax indicates a command line the parser could not make sense of.
	errSyntax = errors.E(errors.Invalid, "syntax error")
	// errBadBuiltinArgs indicates a builtin was invoked with the wrong
	// number or shape of arguments.
	errBadBuiltinArgs = errors.E(errors.Invalid, "wrong number of arguments")
)
