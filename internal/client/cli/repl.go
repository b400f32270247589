package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Exec(ctx context.Context, cmd string, args []string) error
}

// runREPL starts a read-eval-print loop for the Baby Steps CLI.
//
// It reads a line from reader, takes the first token as the command and the
// rest as its arguments, and hands both to a.Exec. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// Errors returned by commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("bs> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn(helpText(a.isLoggedIn()))
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			if err := a.Exec(ctx, cmd, parts[1:]); err != nil {
				printlnFn("Error:", describe(err))
			}
		}
	}
}
