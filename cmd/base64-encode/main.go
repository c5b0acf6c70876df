// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"

	"go.astrophena.name/devscripts/cli"
)

func main() { cli.Main(new(app)) }

type app struct {
	url bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.url, "url", false, "Use the URL-safe alphabet.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) != 1 {
		return fmt.Errorf("%w: want exactly one input, got %d", cli.ErrInvalidArgs, len(env.Args))
	}

	enc := base64.StdEncoding
	if a.url {
		enc = base64.URLEncoding
	}
	_, err := fmt.Fprintln(env.Stdout, enc.EncodeToString([]byte(env.Args[0])))
	return err
}
