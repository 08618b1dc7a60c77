// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"os"

	"github.com/grailbio/sysbase/shutdown"
)

// Shell drives execution of parsed command lines: it splits each line
// into &&/|| segments, evaluates them with short-circuit semantics, and
// runs each segment as a pipeline of child processes.
type Shell struct {
	stdin  *os.File
	stdout *os.File
	stderr *os.File
	reg    *registry
}

// New creates a Shell reading from stdin and writing to stdout/stderr. Its
// background process registry is reaped exhaustively via a shutdown hook,
// so no backgrounded child outlives the process as an unreaped zombie.
func New() *Shell {
	s := &Shell{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		reg:    newRegistry(),
	}
	shutdown.Register(s.reg.reapAll)
	return s
}

// Outcome describes what happened after running one command line.
type Outcome struct {
	// Code is the exit code of the last foreground pipeline executed.
	Code int
	// ExitRequested is true if an `exit` builtin was reached.
	ExitRequested bool
	// ExitCode is the code requested by `exit`, valid when ExitRequested.
	ExitCode int
}

// Run parses and executes one command line. It returns the foreground
// exit code (or an exit-requested outcome), and performs one opportunistic,
// non-blocking sweep of the background registry before returning.
func (s *Shell) Run(line string) Outcome {
	defer s.reg.sweep()

	cl, err := Parse(line)
	if err != nil {
		fmt.Fprintf(s.stderr, "shell: %v\n", err)
		return Outcome{Code: 1}
	}
	if len(cl.Exprs) == 0 {
		return Outcome{Code: 0}
	}

	segs := splitSegments(cl.Exprs)
	code := 0
	for idx, seg := range segs {
		if idx > 0 {
			switch seg.op {
			case And:
				if code != 0 {
					continue
				}
			case Or:
				if code == 0 {
					continue
				}
			}
		}

		final := idx == len(segs)-1
		result := s.runSegment(seg.commands, cl, final)
		if result.exitRequest {
			return Outcome{ExitRequested: true, ExitCode: result.exitCode}
		}
		if !result.backgrounded {
			code = result.code
		}
	}
	return Outcome{Code: code}
}
