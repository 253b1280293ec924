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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ToggleMode(ctx context.Context) error
	AddCustomer(ctx context.Context) error
	Customers(ctx context.Context, html bool) error
	Packages(ctx context.Context) error
	Sectors(ctx context.Context) error
	Stats(ctx context.Context) error
}

// commands that need a logged-in user.
var requiresLogin = map[string]bool{
	"logout":      true,
	"whoami":      true,
	"passwd":      true,
	"addcustomer": true,
	"customers":   true,
	"packages":    true,
	"sectors":     true,
}

// runREPL starts a simple read-eval-print loop for the shield CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands marked in requiresLogin are refused until the user logs in.
// Handler errors are I/O errors from the prompts; they are printed and the
// loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shield %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if requiresLogin[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, passwd, addcustomer, customers [html], packages, sectors, mode, stats, logout, exit")
			} else {
				printlnFn("Available commands: register, login, forgot, reset, mode, stats, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "forgot":
			err = a.Forgot(ctx)

		case "reset":
			err = a.Reset(ctx)

		case "passwd":
			err = a.ChangePassword(ctx)

		case "mode":
			err = a.ToggleMode(ctx)

		case "addcustomer":
			err = a.AddCustomer(ctx)

		case "customers":
			err = a.Customers(ctx, len(args) > 0 && args[0] == "html")

		case "packages":
			err = a.Packages(ctx)

		case "sectors":
			err = a.Sectors(ctx)

		case "stats":
			err = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("error:", err)
		}
	}
}
