// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"fmt"
	"time"

	"go.astrophena.name/devscripts/cli"
)

func main() { cli.Main(&app{now: time.Now}) }

type app struct {
	now func() time.Time
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	_, err := fmt.Fprintln(env.Stdout, a.now().UTC().Format(time.RFC3339))
	return err
}
