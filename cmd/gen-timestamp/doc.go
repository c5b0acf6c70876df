// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Gen-timestamp prints the current time in UTC as an RFC 3339 timestamp with
seconds precision, like 2024-05-01T09:30:00Z.

Usage:

	$ gen-timestamp
*/
package main

import (
	_ "embed"

	"go.astrophena.name/devscripts/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
