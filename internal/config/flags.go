package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/commsshield/internal/flagx"
)

// parseFlags overlays Config from short flags:
//
//	-m string   start mode: secure | vulnerable
//	-k int      minimum password length
//	-p int      password history size
//	-n int      failed logins before lockout
//	-t int      reset token validity, minutes
//	-x string   hasher: hmac | argon2
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-m", "-k", "-p", "-n", "-t", "-x", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.StartMode, "m", config.StartMode, "start mode (secure|vulnerable)")
	fs.IntVar(&config.PasswordMinLength, "k", config.PasswordMinLength, "minimum password length")
	fs.IntVar(&config.PasswordHistory, "p", config.PasswordHistory, "password history size")
	fs.IntVar(&config.MaxLoginAttempts, "n", config.MaxLoginAttempts, "failed logins before lockout")
	resetTokenValidity := fs.Int("t", int(config.ResetTokenValidity.Minutes()), "reset token validity (in minutes)")
	fs.StringVar(&config.Hasher, "x", config.Hasher, "password hasher (hmac|argon2)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -t only has minute resolution, so a finer value from the file survives
	// unless -t is actually given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.ResetTokenValidity = time.Duration(*resetTokenValidity) * time.Minute
		}
	})
}
