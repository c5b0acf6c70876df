// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Prepend-newline adds a newline to the start of a file if the file already
starts with one.

It is meant to be run from a prepare-commit-msg Git hook to leave an extra
empty line at the top of the commit message template:

	$ prepend-newline FILE [ARGS...]

Arguments after FILE are ignored, so the hook can pass all of its own
arguments through.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devscripts/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
