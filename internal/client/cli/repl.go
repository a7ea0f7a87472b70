package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printFn is a test seam for the prompt. In tests, replace it with a stub.
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	prompt() string
	help() []string
	exec(ctx context.Context, name string, args []string) error
	output() io.Writer
}

func (a *App) output() io.Writer { return a.out }

// runREPL starts a read–eval–print loop over reader.
//
// It parses the first token of each line as the command and hands it to
// a.exec together with the remaining tokens. "help" lists the commands of
// the current screen; "exit" and "quit" leave the loop, as does EOF or a
// cancelled context.
//
// Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	w := a.output()
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(a.prompt())

		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help", "?":
			fmt.Fprintln(w, "Available commands:")
			for _, l := range a.help() {
				fmt.Fprintln(w, l)
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			if err := a.exec(ctx, cmd, parts[1:]); err != nil {
				if errors.Is(err, errUnknownCommand) {
					fmt.Fprintln(w, "Unknown command:", cmd)
				} else {
					fmt.Fprintln(w, "Error:", err)
				}
			}
		}
	}
}
