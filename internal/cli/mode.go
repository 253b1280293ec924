package cli

import (
	"context"

	"github.com/dmitrijs2005/commsshield/internal/mode"
)

// ToggleMode flips between secure and vulnerable behaviour for every
// following command.
func (a *App) ToggleMode(ctx context.Context) error {
	if a.engine.ToggleMode(ctx) == mode.Secure {
		a.println("Secure mode enabled")
	} else {
		a.println("Vulnerable mode enabled")
	}
	return nil
}

// Stats prints the operation counters.
func (a *App) Stats(ctx context.Context) error {
	samples := a.engine.Stats()
	if len(samples) == 0 {
		a.println("No statistics yet.")
		return nil
	}
	for _, s := range samples {
		a.println(s.String())
	}
	return nil
}
