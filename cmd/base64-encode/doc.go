// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Base64-encode prints the base64 encoding of its argument.

Usage:

	$ base64-encode [-url] INPUT

The standard alphabet with padding is used unless -url is given, in which
case the URL and file name safe alphabet is used.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devscripts/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
