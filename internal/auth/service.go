// Package auth implements registration, login, password change and password
// reset. Every operation exists as a secure and a vulnerable strategy; the
// Service picks one from the mode controller at call time.
package auth

import (
	"context"

	"github.com/dmitrijs2005/commsshield/internal/config"
	"github.com/dmitrijs2005/commsshield/internal/cryptox"
	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/dmitrijs2005/commsshield/internal/mailer"
	"github.com/dmitrijs2005/commsshield/internal/mode"
	"github.com/dmitrijs2005/commsshield/internal/policy"
	"github.com/dmitrijs2005/commsshield/internal/resettoken"
	"github.com/dmitrijs2005/commsshield/internal/store"
)

// Deps are the collaborators shared by both strategies.
type Deps struct {
	Store  *store.Store
	Modes  *mode.Controller
	Policy *policy.Validator
	Hasher cryptox.Hasher
	Salts  *cryptox.SaltSource
	Tokens *resettoken.Manager
	Mailer mailer.ResetSender
	Logger logging.Logger
}

// Service dispatches every call to the secure or vulnerable strategy,
// picked from the mode controller at call time.
type Service struct {
	modes      *mode.Controller
	secure     Strategy
	vulnerable Strategy
}

// NewService builds both strategies over the same store. History size and
// lockout threshold come from cfg.
func NewService(d Deps, cfg *config.Config) *Service {
	newAccounts := func(m mode.Mode, q queryBuilder) *accounts {
		return &accounts{
			queries:          q,
			store:            d.Store,
			policy:           d.Policy,
			hasher:           d.Hasher,
			salts:            d.Salts,
			tokens:           d.Tokens,
			mailer:           d.Mailer,
			logger:           d.Logger.With("component", "auth", "mode", string(m)),
			historySize:      cfg.PasswordHistory,
			maxLoginAttempts: cfg.MaxLoginAttempts,
		}
	}

	return &Service{
		modes:      d.Modes,
		secure:     newAccounts(mode.Secure, parameterized{}),
		vulnerable: newAccounts(mode.Vulnerable, interpolated{}),
	}
}

func (s *Service) strategy() Strategy {
	if s.modes.Secure() {
		return s.secure
	}
	return s.vulnerable
}

// Register creates an account. It fails when the username is taken or the
// password breaks the policy.
func (s *Service) Register(ctx context.Context, email, username, password string) (store.Account, error) {
	return s.strategy().Register(ctx, email, username, password)
}

// Login checks credentials. Unknown users, locked accounts and wrong
// passwords all yield common.ErrorUnauthorized; a wrong password also counts
// towards the lockout.
func (s *Service) Login(ctx context.Context, username, password string) (store.Account, error) {
	return s.strategy().Login(ctx, username, password)
}

// ChangePassword replaces username's password after checking current.
func (s *Service) ChangePassword(ctx context.Context, username, current, next string) error {
	return s.strategy().ChangePassword(ctx, username, current, next)
}

// RequestPasswordReset issues a new token for the account registered under
// email, replacing any earlier one.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (resettoken.Token, error) {
	return s.strategy().RequestPasswordReset(ctx, email)
}

// ResetPassword consumes a valid token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, email, token, next string) error {
	return s.strategy().ResetPassword(ctx, email, token, next)
}

// Seed registers an account through the secure strategy regardless of the
// current mode. Used to create the administrator at startup.
func (s *Service) Seed(ctx context.Context, email, username, password string) (store.Account, error) {
	return s.secure.Register(ctx, email, username, password)
}
