// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package shell implements a small pipeline executor: parse a command line
// into pipeline segments joined by && and ||, run each segment's commands
// as a pipeline of child processes, and honor foreground/background
// execution, output redirection, and the builtins cd, exit and jobs.
package shell
