// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// The following enables go generate to generate the doc.go file.
//go:generate go run v.io/x/lib/cmdline/gendoc "--build-cmd=go install" --copyright-notice= .
package main

import (
	"io"
	"os"
	"strings"

	"github.com/grailbio/sysbase/cmdutil"
	"github.com/grailbio/sysbase/must"
	"github.com/grailbio/sysbase/shell"
	"github.com/grailbio/sysbase/shutdown"
	"v.io/x/lib/cmdline"
)

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Runner: cmdutil.RunnerFunc(run),
		Name:   "shell",
		Short:  "run a command pipeline interpreter",
		Long: `
Command shell reads command lines from standard input and executes each as
a pipeline of child processes, supporting pipes, && / || chaining, output
redirection, background execution, and the cd/exit/jobs builtins.
`,
	}
}

// run reads stdin in fixed-size chunks, splits it into newline-terminated
// command lines as they become available, and executes each in order. It
// never returns normally: both an `exit` builtin and end-of-input resolve
// to a direct os.Exit so the process's exit code matches exactly what the
// shell semantics require.
func run(env *cmdline.Env, args []string) error {
	if len(args) != 0 {
		cmdutil.Fatalf("shell: unexpected arguments: %v", args)
	}

	sh := shell.New()

	var pending strings.Builder
	var buf [1024]byte
	lastCode := 0

	flush := func(line string) bool {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			return true
		}
		out := sh.Run(line)
		if out.ExitRequested {
			exitNow(out.ExitCode)
			return false
		}
		lastCode = out.Code
		return true
	}

	for {
		n, err := os.Stdin.Read(buf[:])
		if n > 0 {
			pending.Write(buf[:n])
			text := pending.String()
			pending.Reset()
			for {
				idx := strings.IndexByte(text, '\n')
				if idx < 0 {
					pending.WriteString(text)
					break
				}
				if !flush(text[:idx]) {
					return nil
				}
				text = text[idx+1:]
			}
		}
		if err != nil {
			must.Truef(err == io.EOF, "reading stdin: %v", err)
			break
		}
	}
	if pending.Len() > 0 {
		flush(pending.String())
	}
	exitNow(lastCode)
	return nil
}

func exitNow(code int) {
	shutdown.Run()
	os.Exit(code)
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
