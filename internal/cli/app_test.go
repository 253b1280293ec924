package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/dmitrijs2005/commsshield/internal/config"
	"github.com/dmitrijs2005/commsshield/internal/engine"
	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp builds an App over a real engine. Input lines are fed to every
// prompt, passwords included.
func newTestApp(t *testing.T, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	e, err := engine.New(context.Background(), cfg, logging.NewDiscardLogger(), engine.Options{})
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return NewApp(e, cfg, logging.NewDiscardLogger(), in, &out), &out
}

// feed replaces the remaining input of a.
func feed(a *App, lines ...string) {
	a.reader.Reset(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestApp_RegisterLoginWhoAmI(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "bob@x.io", "bob", "Bl0ck#Signal22", "Bl0ck#Signal22")

	require.NoError(t, a.Register(ctx))
	assert.Contains(t, out.String(), "Registration successful!")

	feed(a, "bob", "Bl0ck#Signal22")
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, out.String(), "Login successful. Welcome back!")
	assert.Equal(t, "(bob secure)", a.getStatus())

	out.Reset()
	require.NoError(t, a.WhoAmI(ctx))
	assert.Equal(t, "bob <bob@x.io> id=2 status=active\n", out.String())

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, "(secure)", a.getStatus())
}

func TestApp_RegisterRejectedBeforeEngine(t *testing.T) {
	ctx := context.Background()

	a, out := newTestApp(t, "bob@x.io", "bob", "Bl0ck#Signal22", "Bl0ck#Signal2")
	require.NoError(t, a.Register(ctx))
	assert.Equal(t, "Passwords do not match", lastLine(out))
	assert.Equal(t, 1, a.engine.AccountCount())

	feed(a, "bob@x.io", "bob", "bl0ck#signal22", "bl0ck#signal22")
	require.NoError(t, a.Register(ctx))
	assert.Equal(t, "Password must contain at least one uppercase letter.", lastLine(out))

	feed(a, "a@x.io", engine.AdminUsername, "Bl0ck#Signal22", "Bl0ck#Signal22")
	require.NoError(t, a.Register(ctx))
	assert.Contains(t, lastLine(out), "Registration failed")
	assert.Equal(t, 1, a.engine.AccountCount())
}

func TestApp_LoginCountsDown(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)

	feed(a, engine.AdminUsername, "Wrong#Pass99")
	require.NoError(t, a.Login(ctx))
	assert.Equal(t, "Login failed: invalid username or password. 2 attempts remaining.", lastLine(out))

	feed(a, engine.AdminUsername, "Wrong#Pass99")
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, lastLine(out), "1 attempts remaining")

	feed(a, engine.AdminUsername, "Wrong#Pass99")
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, lastLine(out), "Account locked")

	feed(a, engine.AdminUsername, engine.AdminPassword)
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, lastLine(out), "Account locked")
	assert.False(t, a.isLoggedIn())
}

var tokenRe = regexp.MustCompile(`Demo token: ([0-9a-f]{40}) `)

func TestApp_ForgotAndReset(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "nobody@x.io")

	require.NoError(t, a.Forgot(ctx))
	assert.Contains(t, lastLine(out), "If this email exists")

	feed(a, engine.AdminEmail)
	require.NoError(t, a.Forgot(ctx))
	m := tokenRe.FindStringSubmatch(out.String())
	require.Len(t, m, 2)

	feed(a, engine.AdminEmail, m[1], "Qu13t&Harbor9", "Qu13t&Harbor9")
	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, lastLine(out), "Password reset successful")

	feed(a, engine.AdminEmail, m[1], "Gr4nite$River", "Gr4nite$River")
	require.NoError(t, a.Reset(ctx))
	assert.Contains(t, lastLine(out), "Failed to reset password")

	feed(a, engine.AdminUsername, "Qu13t&Harbor9")
	require.NoError(t, a.Login(ctx))
	assert.True(t, a.isLoggedIn())
}

func TestApp_ChangePassword(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, engine.AdminUsername, engine.AdminPassword)
	require.NoError(t, a.Login(ctx))

	feed(a, "Wrong#Pass99", "Gr4nite$River", "Gr4nite$River")
	require.NoError(t, a.ChangePassword(ctx))
	assert.Contains(t, lastLine(out), "Failed to change password")

	feed(a, engine.AdminPassword, "Gr4nite$River", "Gr4nite$River")
	require.NoError(t, a.ChangePassword(ctx))
	assert.Contains(t, lastLine(out), "Password changed.")
}

func TestApp_CustomersFollowMode(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, "<b>Ann</b>", "ann@x.io", "555", "1 Main St", "2", "3")

	require.NoError(t, a.AddCustomer(ctx))
	assert.Contains(t, lastLine(out), "Customer added (id 1).")

	require.NoError(t, a.ToggleMode(ctx))
	assert.Equal(t, "Vulnerable mode enabled", lastLine(out))

	feed(a, "<b>Bea</b>", "bea@x.io", "556", "2 Main St", "9", "1")
	require.NoError(t, a.AddCustomer(ctx))

	out.Reset()
	require.NoError(t, a.Customers(ctx, true))
	rows := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "<td>&lt;b&gt;Ann&lt;/b&gt;</td>")
	assert.Contains(t, rows[1], "<td><b>Bea</b></td>")
	assert.Contains(t, rows[1], "<td>Unknown Package</td>")

	out.Reset()
	require.NoError(t, a.Customers(ctx, false))
	assert.Contains(t, out.String(), "Standard")
	assert.Contains(t, out.String(), "Corporate")

	feed(a, "A", "ann@x.io", "555", "1 Main St", "2", "3")
	require.NoError(t, a.AddCustomer(ctx))
	assert.Contains(t, lastLine(out), "Name must be at least 2 characters")
	assert.Len(t, a.engine.ListCustomers(ctx), 2)

	require.NoError(t, a.ToggleMode(ctx))
	assert.Equal(t, "Secure mode enabled", lastLine(out))
}

func TestApp_CatalogsAndStats(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t)

	require.NoError(t, a.Packages(ctx))
	assert.Contains(t, out.String(), "Ultra")
	assert.Contains(t, out.String(), "$99.99")

	require.NoError(t, a.Sectors(ctx))
	assert.Contains(t, out.String(), "Government")

	out.Reset()
	require.NoError(t, a.Stats(ctx))
	assert.Contains(t, out.String(), "shield_store_accounts 1")
}

func lastLine(b *bytes.Buffer) string {
	s := strings.TrimRight(b.String(), "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
