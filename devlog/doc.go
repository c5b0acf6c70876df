// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Package devlog formats log events for reading in a terminal.

The default [slog.TextHandler] puts every attribute of a record on one
line, which gets hard to scan once a record has more than a couple of them.
devlog puts each attribute on its own indented line instead, and lists the
causes of wrapped errors one per line:

	ERROR Request failed
	  cause:
	    - connect timed out
	    - network unreachable
	  attempt: 3

[Render] is the formatter itself and works on any sequence of [Field]
values. [Handler] plugs it into log/slog:

	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.HandlerOptions{
		Color: true,
	})))
*/
package devlog
