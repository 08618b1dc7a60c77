// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/grailbio/sysbase/errors"
	"github.com/grailbio/sysbase/log"
	"golang.org/x/sync/errgroup"
)

// runResult is what running one pipeline segment produces.
type runResult struct {
	code         int
	exitRequest  bool
	exitCode     int
	backgrounded bool
}

// runSegment executes one pipeline segment (a maximal run of COMMAND nodes
// separated by Pipe). cl carries the command line's redirection and
// background flag, honored only when final is true.
func (s *Shell) runSegment(commands []Expression, cl *CommandLine, final bool) (res runResult) {
	if len(commands) == 1 {
		if r, handled := s.runBuiltin(commands[0]); handled {
			return r
		}
	}

	out, closeOut, err := s.openOutput(cl, final)
	if err != nil {
		fmt.Fprintf(s.stderr, "shell: %v\n", err)
		return runResult{code: 1}
	}
	if closeOut != nil {
		var closeErr error
		defer func() {
			errors.CleanUp(closeOut, &closeErr)
			if closeErr != nil {
				fmt.Fprintf(s.stderr, "shell: %v\n", closeErr)
			}
		}()
	}

	background := final && cl.IsBackground

	cmds, pids, err := s.spawnPipeline(commands, out, background)
	if err != nil {
		fmt.Fprintf(s.stderr, "shell: %v\n", err)
		s.waitAll(cmds)
		return runResult{code: 1}
	}

	if background {
		for _, pid := range pids {
			s.reg.add(pid, cl.raw)
		}
		return runResult{backgrounded: true}
	}

	return runResult{code: s.waitAll(cmds)}
}

// openOutput resolves the final stage's output destination. Non-final
// segments and command lines without redirection write to the shell's own
// stdout.
func (s *Shell) openOutput(cl *CommandLine, final bool) (*os.File, func() error, error) {
	if !final || cl.OutType == Stdout {
		return s.stdout, nil, nil
	}
	flags := os.O_CREATE | os.O_WRONLY
	if cl.OutType == FileAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(cl.OutFile, flags, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// spawnPipeline forks (execs) every command in the segment, wiring pipes
// between consecutive stages and placing all stages in one process group
// rooted at the first. Pipe ends are closed in the parent as soon as the
// child that inherits them has started, so downstream stages see EOF
// promptly once their upstream neighbor exits.
func (s *Shell) spawnPipeline(commands []Expression, out *os.File, background bool) ([]*exec.Cmd, []int, error) {
	var cmds []*exec.Cmd
	var pids []int

	var in *os.File
	if !background {
		in = s.stdin
	}

	pgid := 0
	for idx, expr := range commands {
		last := idx == len(commands)-1

		c := exec.Command(expr.Exe, expr.Args...)
		c.Stdin = in
		c.Stderr = s.stderr

		var pipeW *os.File
		var nextIn *os.File
		if last {
			c.Stdout = out
		} else {
			r, w, err := os.Pipe()
			if err != nil {
				return cmds, pids, err
			}
			c.Stdout = w
			pipeW = w
			nextIn = r
		}

		c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}

		if err := c.Start(); err != nil {
			if pipeW != nil {
				pipeW.Close()
			}
			if nextIn != nil {
				nextIn.Close()
			}
			return cmds, pids, fmt.Errorf("%s: %v", expr.Exe, err)
		}
		if idx == 0 {
			pgid = c.Process.Pid
		}
		if pipeW != nil {
			pipeW.Close()
		}
		if in != nil && in != s.stdin {
			in.Close()
		}

		cmds = append(cmds, c)
		pids = append(pids, c.Process.Pid)
		in = nextIn
	}
	return cmds, pids, nil
}

// waitAll waits for every command in a pipeline concurrently and returns
// the exit code of the last (highest-indexed) stage.
func (s *Shell) waitAll(cmds []*exec.Cmd) int {
	if len(cmds) == 0 {
		return 0
	}
	codes := make([]int, len(cmds))
	var g errgroup.Group
	for i, c := range cmds {
		i, c := i, c
		g.Go(func() error {
			err := c.Wait()
			codes[i] = exitCodeOf(err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Error.Printf("shell: unexpected wait error: %v", err)
	}
	return codes[len(codes)-1]
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return 1
}
