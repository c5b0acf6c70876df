// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Reinit-git-hooks reinstalls the Git hooks of every repository under a
directory.

Usage:

	$ reinit-git-hooks ROOT

For each .git directory found under ROOT, it removes all installed hooks
from .git/hooks (leaving the *.sample files alone) and runs 'git init' in
the repository, which copies the hooks from the configured template
directory again. Use it after changing init.templateDir or the global hook
templates.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devscripts/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
