// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package shell

import (
	"strings"
)

// tokenKind classifies a lexical token produced by tokenize.
type tokenKind int

const (
	tokWord tokenKind = iota
	tokPipe
	tokAnd
	tokOr
	tokAppend
	tokTrunc
	tokBackground
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits a line into words and operators. Operators need not be
// surrounded by whitespace (e.g. "printf hi>out" is valid), but no quoting
// or escaping is recognized: a word is a maximal run of bytes that are
// none of the operator characters or whitespace.
func tokenize(line string) []token {
	var toks []token
	i := 0
	n := len(line)
	for i < n {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '|':
			if i+1 < n && line[i+1] == '|' {
				toks = append(toks, token{tokOr, "||"})
				i += 2
			} else {
				toks = append(toks, token{tokPipe, "|"})
				i++
			}
		case c == '&':
			if i+1 < n && line[i+1] == '&' {
				toks = append(toks, token{tokAnd, "&&"})
				i += 2
			} else {
				toks = append(toks, token{tokBackground, "&"})
				i++
			}
		case c == '>':
			if i+1 < n && line[i+1] == '>' {
				toks = append(toks, token{tokAppend, ">>"})
				i += 2
			} else {
				toks = append(toks, token{tokTrunc, ">"})
				i++
			}
		default:
			start := i
			for i < n && !strings.ContainsRune(" \t|&>", rune(line[i])) {
				i++
			}
			toks = append(toks, token{tokWord, line[start:i]})
		}
	}
	return toks
}

// Parse turns one line of input into a CommandLine. It recognizes pipes
// (|), logical and/or (&&, ||), a single trailing output redirection
// (> or >>), and a trailing background marker (&). It does not support
// quoting, globbing, or variable expansion.
func Parse(line string) (*CommandLine, error) {
	toks := tokenize(line)
	if len(toks) == 0 {
		return &CommandLine{raw: line}, nil
	}

	cl := &CommandLine{OutType: Stdout, raw: line}
	var cur *Expression
	flushCommand := func() {
		if cur != nil {
			cl.Exprs = append(cl.Exprs, *cur)
			cur = nil
		}
	}

	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.kind {
		case tokWord:
			if cur == nil {
				cur = &Expression{Tag: Command, Exe: t.text}
			} else {
				cur.Args = append(cur.Args, t.text)
			}
			i++
		case tokPipe:
			if cur == nil {
				return nil, errSyntax
			}
			flushCommand()
			cl.Exprs = append(cl.Exprs, Expression{Tag: Pipe})
			i++
		case tokAnd, tokOr:
			if cur == nil {
				return nil, errSyntax
			}
			flushCommand()
			tag := And
			if t.kind == tokOr {
				tag = Or
			}
			cl.Exprs = append(cl.Exprs, Expression{Tag: tag})
			i++
		case tokTrunc, tokAppend:
			if i+1 >= len(toks) || toks[i+1].kind != tokWord {
				return nil, errSyntax
			}
			cl.OutFile = toks[i+1].text
			if t.kind == tokAppend {
				cl.OutType = FileAppend
			} else {
				cl.OutType = FileNew
			}
			i += 2
		case tokBackground:
			cl.IsBackground = true
			i++
			if i != len(toks) {
				return nil, errSyntax
			}
		default:
			return nil, errSyntax
		}
	}
	flushCommand()
	if len(cl.Exprs) == 0 {
		return nil, errSyntax
	}
	if cl.Exprs[len(cl.Exprs)-1].Tag != Command {
		return nil, errSyntax
	}
	return cl, nil
}
