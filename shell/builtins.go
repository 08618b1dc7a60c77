// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"os"
	"strconv"
)

// runBuiltin handles a command that is the sole stage of its pipeline
// segment, if it names a builtin. handled is false for any other command,
// which the caller must fork and exec instead.
func (s *Shell) runBuiltin(expr Expression) (res runResult, handled bool) {
	switch expr.Exe {
	case "cd":
		return s.builtinCd(expr.Args), true
	case "exit":
		return s.builtinExit(expr.Args), true
	case "jobs":
		return s.builtinJobs(), true
	default:
		return runResult{}, false
	}
}

func (s *Shell) builtinCd(args []string) runResult {
	if len(args) != 1 {
		fmt.Fprintln(s.stderr, "cd: expected exactly one argument")
		return runResult{code: 1}
	}
	if err := os.Chdir(args[0]); err != nil {
		fmt.Fprintf(s.stderr, "cd: %v\n", err)
		return runResult{code: 1}
	}
	return runResult{code: 0}
}

// builtinExit requests shell exit with the given code (default 0). It is
// honored wherever it appears in a chain, not only as the final segment:
// the driver stops evaluating subsequent segments once exitRequest is set.
func (s *Shell) builtinExit(args []string) runResult {
	code := 0
	if len(args) > 1 {
		fmt.Fprintln(s.stderr, "exit: too many arguments")
		return runResult{code: 1}
	}
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(s.stderr, "exit: %v\n", err)
			return runResult{code: 1}
		}
		code = n
	}
	return runResult{exitRequest: true, exitCode: code}
}

// builtinJobs is a supplemented, read-only command: it reports the
// background PIDs currently tracked by the shell's registry without
// consuming a pipeline slot or forking a child.
func (s *Shell) builtinJobs() runResult {
	for _, j := range s.reg.List() {
		fmt.Fprintf(s.stdout, "%d\t%s\n", j.pid, j.cmd)
	}
	return runResult{code: 0}
}
