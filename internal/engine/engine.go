// Package engine wires the store, policy, token manager, mode controller and
// services together and exposes the calls the presentation layer makes.
//
// Every call reports plain success or failure. Why something failed (unknown
// user, wrong password, locked account, bad token) is logged but never
// returned.
package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/commsshield/internal/auth"
	"github.com/dmitrijs2005/commsshield/internal/config"
	"github.com/dmitrijs2005/commsshield/internal/cryptox"
	"github.com/dmitrijs2005/commsshield/internal/customers"
	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/dmitrijs2005/commsshield/internal/mailer"
	"github.com/dmitrijs2005/commsshield/internal/metrics"
	"github.com/dmitrijs2005/commsshield/internal/mode"
	"github.com/dmitrijs2005/commsshield/internal/policy"
	"github.com/dmitrijs2005/commsshield/internal/resettoken"
	"github.com/dmitrijs2005/commsshield/internal/store"
	"github.com/dmitrijs2005/commsshield/internal/timex"
)

// The administrator seeded on every start.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@comms-shield.com"
	AdminPassword = "Sh1eld#Operator"
)

// Options overrides the engine's collaborators. Zero values mean
// crypto/rand, the wall clock, a log-only mailer and a fresh metrics
// registry.
type Options struct {
	Rand    io.Reader
	Clock   timex.Clock
	Mailer  mailer.ResetSender
	Metrics *metrics.Recorder
}

// Engine is safe for concurrent use. The session is shared by every caller,
// as it is for a single operator at a terminal.
type Engine struct {
	logger    logging.Logger
	store     *store.Store
	modes     *mode.Controller
	policy    *policy.Validator
	auth      *auth.Service
	customers *customers.Service
	metrics   *metrics.Recorder

	mu sync.RWMutex
	// username of the logged-in account, "" when nobody is. Guarded by mu.
	current string
}

// New builds a fresh engine and seeds the administrator account.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (*Engine, error) {
	start, err := mode.Parse(cfg.StartMode)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	hasher, err := cryptox.NewHasher(cfg.Hasher)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.PasswordHistory < 1 {
		return nil, fmt.Errorf("config: password history must be at least 1, got %d", cfg.PasswordHistory)
	}
	if cfg.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("config: max login attempts must be at least 1, got %d", cfg.MaxLoginAttempts)
	}

	p := policy.DefaultPolicy()
	p.MinLength = cfg.PasswordMinLength
	validator := policy.NewValidator(p)

	sender := opts.Mailer
	if sender == nil {
		sender = mailer.NewLogSender(logger)
	}

	rec := opts.Metrics
	if rec == nil {
		rec = metrics.New()
	}

	st := store.New()
	modes := mode.NewController(start)

	authService := auth.NewService(auth.Deps{
		Store:  st,
		Modes:  modes,
		Policy: validator,
		Hasher: hasher,
		Salts:  cryptox.NewSaltSource(opts.Rand),
		Tokens: resettoken.NewManager(opts.Rand, opts.Clock, cfg.ResetTokenValidity),
		Mailer: sender,
		Logger: logger,
	}, cfg)

	e := &Engine{
		logger:    logger.With("component", "engine"),
		store:     st,
		modes:     modes,
		policy:    validator,
		auth:      authService,
		customers: customers.NewService(st, modes, logger),
		metrics:   rec,
	}

	if _, err := authService.Seed(ctx, AdminEmail, AdminUsername, AdminPassword); err != nil {
		return nil, fmt.Errorf("seeding administrator: %w", err)
	}
	rec.SetAccounts(st.AccountCount())

	e.logger.Info(ctx, "engine ready", "mode", string(start), "hasher", cfg.Hasher)
	return e, nil
}

// Register creates an account in the current mode.
func (e *Engine) Register(ctx context.Context, email, username, password string) bool {
	_, err := e.auth.Register(ctx, email, username, password)
	e.record("register", err == nil)
	e.metrics.SetAccounts(e.store.AccountCount())
	return err == nil
}

func (e *Engine) record(op string, ok bool) {
	e.metrics.Operation(op, ok, string(e.modes.Current()))
}

// Login authenticates and, on success, makes the account the current user.
func (e *Engine) Login(ctx context.Context, username, password string) bool {
	acc, err := e.auth.Login(ctx, username, password)
	e.record("login", err == nil)
	if err != nil {
		return false
	}
	e.swapCurrent(acc.Username)
	return true
}

// Logout ends the session. It does nothing when nobody is logged in.
func (e *Engine) Logout(ctx context.Context) {
	if prev := e.swapCurrent(""); prev != "" {
		e.logger.Info(ctx, "logged out", "username", prev)
	}
}

func (e *Engine) swapCurrent(username string) (previous string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	previous, e.current = e.current, username
	return previous
}

func (e *Engine) currentUsername() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// CurrentUser returns a snapshot of the logged-in account.
func (e *Engine) CurrentUser() (store.Account, bool) {
	username := e.currentUsername()
	if username == "" {
		return store.Account{}, false
	}
	acc, err := e.store.FindByUsername(username)
	if err != nil {
		return store.Account{}, false
	}
	return acc, true
}

// IsLoggedIn reports whether a login succeeded since the last Logout.
func (e *Engine) IsLoggedIn() bool {
	return e.currentUsername() != ""
}

// RequestPasswordReset issues a token for email. The token is handed back
// so the demonstrator can show it; it is also "emailed" via the mailer.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (resettoken.Token, bool) {
	tok, err := e.auth.RequestPasswordReset(ctx, email)
	e.record("request_reset", err == nil)
	if err != nil {
		return resettoken.Token{}, false
	}
	return tok, true
}

// ResetPassword sets a new password for email if token is the account's
// live reset token. The token is spent on success.
func (e *Engine) ResetPassword(ctx context.Context, email, token, newPassword string) bool {
	ok := e.auth.ResetPassword(ctx, email, token, newPassword) == nil
	e.record("reset_password", ok)
	return ok
}

// ChangePassword changes the current user's password. It fails when nobody
// is logged in.
func (e *Engine) ChangePassword(ctx context.Context, currentPassword, newPassword string) bool {
	username := e.currentUsername()
	if username == "" {
		e.record("change_password", false)
		return false
	}
	ok := e.auth.ChangePassword(ctx, username, currentPassword, newPassword) == nil
	e.record("change_password", ok)
	return ok
}

// ToggleMode flips secure/vulnerable for all subsequent operations.
func (e *Engine) ToggleMode(ctx context.Context) mode.Mode {
	m := e.modes.Toggle()
	e.metrics.ModeToggled(string(m))
	if m == mode.Secure {
		e.logger.Info(ctx, "Secure mode enabled", "mode", string(m))
	} else {
		e.logger.Warn(ctx, "Vulnerable mode enabled", "mode", string(m))
	}
	return m
}

// Mode returns the mode new operations run under.
func (e *Engine) Mode() mode.Mode {
	return e.modes.Current()
}

// ValidatePassword runs the policy without touching any account.
func (e *Engine) ValidatePassword(password string) policy.Result {
	return e.policy.Validate(password)
}

// AddCustomer stores a customer record, sanitised or raw depending on the
// current mode. It always succeeds.
func (e *Engine) AddCustomer(ctx context.Context, in customers.Input) (store.Customer, bool) {
	c := e.customers.Add(ctx, in)
	e.metrics.CustomerAdded(string(e.modes.Current()))
	return c, true
}

// ListCustomers returns every record in insertion order.
func (e *Engine) ListCustomers(ctx context.Context) []store.Customer {
	return e.customers.List(ctx)
}

// ListPackages returns the fixed service package catalogue.
func (e *Engine) ListPackages() []store.Package {
	return e.customers.Packages()
}

// ListSectors returns the fixed sector catalogue.
func (e *Engine) ListSectors() []store.Sector {
	return e.customers.Sectors()
}

// PackageName resolves a package id, or "Unknown Package".
func (e *Engine) PackageName(id int) string {
	return e.customers.PackageName(id)
}

// SectorName resolves a sector id, or "Unknown Sector".
func (e *Engine) SectorName(id int) string {
	return e.customers.SectorName(id)
}

// RenderCustomerHTML renders c as a table row without further escaping.
func (e *Engine) RenderCustomerHTML(c store.Customer) string {
	return e.customers.RenderHTML(c)
}

// AccountCount reports how many accounts exist, the administrator included.
func (e *Engine) AccountCount() int {
	return e.store.AccountCount()
}

// Stats returns the operation counters gathered so far.
func (e *Engine) Stats() []metrics.Sample {
	samples, err := e.metrics.Snapshot()
	if err != nil {
		e.logger.Error(context.Background(), "gathering metrics", "error", err)
		return nil
	}
	return samples
}
