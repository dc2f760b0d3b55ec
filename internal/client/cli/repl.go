package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Status() string
	GoOnline(ctx context.Context) error
	GoOffline(ctx context.Context) error
	SetSharing(ctx context.Context, enabled bool) error
	Locate() string
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Commands:
//
//	help           — show available commands
//	status         — show online status and sharing toggle
//	online         — go online and start reporting position
//	offline        — go offline (also turns sharing off)
//	share on|off   — toggle location sharing while online
//	locate         — show the last cached position
//	exit | quit    — leave the program
func runREPL(ctx context.Context, a execIface, promptFn func() string, scanner *bufio.Scanner) {

	for {
		fmt.Printf("presence %s> ", promptFn())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			printlnFn("Available commands: status, online, offline, share on|off, locate, exit")
		case "status":
			printlnFn(a.Status())
		case "online":
			err = a.GoOnline(ctx)
		case "offline":
			err = a.GoOffline(ctx)
		case "share":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				printlnFn("Usage: share on|off")
				continue
			}
			err = a.SetSharing(ctx, args[0] == "on")
		case "locate":
			printlnFn(a.Locate())
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
