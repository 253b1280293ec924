// Package cli provides the interactive shield command-line client.
//
// It wraps an engine.Engine in a small REPL: every command prompts for its
// form fields, validates them locally, then makes one engine call and prints
// the outcome. The prompt shows the logged-in user and the current mode.
//
// Commands:
//   - register, login, logout, whoami
//   - forgot, reset, passwd
//   - mode (toggle secure/vulnerable)
//   - addcustomer, customers [html], packages, sectors
//   - stats
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
