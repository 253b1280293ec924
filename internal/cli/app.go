package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/commsshield/internal/common"
	"github.com/dmitrijs2005/commsshield/internal/config"
	"github.com/dmitrijs2005/commsshield/internal/engine"
	"github.com/dmitrijs2005/commsshield/internal/logging"
)

// App is the interactive front end. Each command method prompts for its
// input, calls the engine and prints the outcome.
type App struct {
	engine *engine.Engine
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer

	// Failed logins seen by this terminal, by username. Display only; the
	// engine keeps the authoritative per-account counter.
	maxLoginAttempts int
	loginAttempts    map[string]int
}

// NewApp returns an App reading commands from in and writing to out.
func NewApp(e *engine.Engine, cfg *config.Config, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		engine:           e,
		logger:           logger.With("component", "cli"),
		reader:           bufio.NewReader(in),
		out:              out,
		maxLoginAttempts: cfg.MaxLoginAttempts,
		loginAttempts:    make(map[string]int),
	}
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to CommsShield CLI (type 'help' for commands)")
	a.println("This tool demonstrates common vulnerabilities. Never deploy vulnerable mode.")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.engine.IsLoggedIn()
}

func (a *App) getStatus() string {
	s := string(a.engine.Mode())
	if acc, ok := a.engine.CurrentUser(); ok {
		s = acc.Username + " " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// text and password prompt through the package seams.
func (a *App) text(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) password(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}
