package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/commsshield/internal/common"
	"github.com/dmitrijs2005/commsshield/internal/cryptox"
	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/dmitrijs2005/commsshield/internal/mailer"
	"github.com/dmitrijs2005/commsshield/internal/policy"
	"github.com/dmitrijs2005/commsshield/internal/resettoken"
	"github.com/dmitrijs2005/commsshield/internal/store"
)

// Strategy is one implementation of the account operations. The secure and
// vulnerable strategies behave the same on the data; they differ in how
// they would build their lookup queries.
type Strategy interface {
	Register(ctx context.Context, email, username, password string) (store.Account, error)
	Login(ctx context.Context, username, password string) (store.Account, error)
	ChangePassword(ctx context.Context, username, current, next string) error
	RequestPasswordReset(ctx context.Context, email string) (resettoken.Token, error)
	ResetPassword(ctx context.Context, email, token, next string) error
}

type accounts struct {
	queries queryBuilder

	store  *store.Store
	policy *policy.Validator
	hasher cryptox.Hasher
	salts  *cryptox.SaltSource
	tokens *resettoken.Manager
	mailer mailer.ResetSender
	logger logging.Logger

	historySize      int
	maxLoginAttempts int
}

func (a *accounts) lookup(ctx context.Context, column, value string) {
	query, args := a.queries.selectBy(column, value)
	a.logger.Debug(ctx, "lookup", "query", query, "bound_args", len(args))
}

func sameHash(x, y string) bool {
	return subtle.ConstantTimeCompare([]byte(x), []byte(y)) == 1
}

func (a *accounts) Register(ctx context.Context, email, username, password string) (store.Account, error) {
	a.lookup(ctx, "username", username)

	if _, err := a.store.FindByUsername(username); err == nil {
		a.logger.Info(ctx, "registration rejected: username taken", "username", username)
		return store.Account{}, common.ErrRegistrationFailed
	} else if !errors.Is(err, common.ErrorNotFound) {
		return store.Account{}, fmt.Errorf("%w: %w", common.ErrRegistrationFailed, err)
	}

	if err := a.policy.Check(password); err != nil {
		a.logger.Info(ctx, "registration rejected: weak password", "username", username, "reason", err.Error())
		return store.Account{}, fmt.Errorf("%w: %w", common.ErrRegistrationFailed, err)
	}

	salt, err := a.salts.Salt()
	if err != nil {
		return store.Account{}, fmt.Errorf("%w: generating salt: %w", common.ErrRegistrationFailed, err)
	}
	hash := a.hasher.Hash(password, salt)

	acc, err := a.store.InsertAccount(store.Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		History:      []string{hash},
	})
	if err != nil {
		return store.Account{}, fmt.Errorf("%w: %w", common.ErrRegistrationFailed, err)
	}

	a.logger.Info(ctx, "account registered", "username", username, "id", acc.ID)
	return acc, nil
}

var (
	errAccountLocked  = errors.New("account locked")
	errWrongPassword  = errors.New("wrong password")
	errPasswordReused = errors.New("password was used recently")
)

// Login hashes outside the store lock (the salt never changes) and then
// checks and counts the attempt in one locked update.
func (a *accounts) Login(ctx context.Context, username, password string) (store.Account, error) {
	a.lookup(ctx, "username", username)

	acc, err := a.store.FindByUsername(username)
	if err != nil {
		a.logger.Info(ctx, "login failed", "username", username)
		return store.Account{}, common.ErrorUnauthorized
	}
	if acc.Locked {
		a.logger.Warn(ctx, "login attempt on locked account", "username", username)
		return store.Account{}, common.ErrorUnauthorized
	}

	candidate := a.hasher.Hash(password, acc.Salt)
	matched := false
	acc, err = a.store.UpdateAccountFunc(username, func(acc *store.Account) error {
		if acc.Locked {
			return errAccountLocked
		}
		if !sameHash(candidate, acc.PasswordHash) {
			acc.FailedLogins++
			if acc.FailedLogins >= a.maxLoginAttempts {
				acc.Locked = true
			}
			return nil
		}
		matched = true
		acc.FailedLogins = 0
		return nil
	})

	switch {
	case errors.Is(err, errAccountLocked):
		a.logger.Warn(ctx, "login attempt on locked account", "username", username)
		return store.Account{}, common.ErrorUnauthorized
	case err != nil:
		return store.Account{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	case !matched && acc.Locked:
		a.logger.Warn(ctx, "account locked", "username", username, "failed_logins", acc.FailedLogins)
		return store.Account{}, common.ErrorUnauthorized
	case !matched:
		a.logger.Info(ctx, "login failed", "username", username, "failed_logins", acc.FailedLogins)
		return store.Account{}, common.ErrorUnauthorized
	}

	a.logger.Info(ctx, "login succeeded", "username", username)
	return acc, nil
}

func (a *accounts) ChangePassword(ctx context.Context, username, current, next string) error {
	a.lookup(ctx, "username", username)

	acc, err := a.store.FindByUsername(username)
	if err != nil {
		return common.ErrPasswordChangeFailed
	}

	currentHash := a.hasher.Hash(current, acc.Salt)
	if !sameHash(currentHash, acc.PasswordHash) {
		a.logger.Info(ctx, "password change rejected: wrong current password", "username", username)
		return common.ErrPasswordChangeFailed
	}

	nextHash, err := a.newPasswordHash(ctx, acc, next)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPasswordChangeFailed, err)
	}

	_, err = a.store.UpdateAccountFunc(username, func(acc *store.Account) error {
		// The password may have changed since the check above.
		if !sameHash(currentHash, acc.PasswordHash) {
			return errWrongPassword
		}
		return a.applyPassword(acc, nextHash)
	})
	if err != nil {
		a.logger.Info(ctx, "password change rejected", "username", username, "reason", err.Error())
		return fmt.Errorf("%w: %w", common.ErrPasswordChangeFailed, err)
	}

	a.logger.Info(ctx, "password changed", "username", username)
	return nil
}

func (a *accounts) RequestPasswordReset(ctx context.Context, email string) (resettoken.Token, error) {
	a.lookup(ctx, "email", email)

	acc, err := a.store.FindByEmail(email)
	if err != nil {
		a.logger.Info(ctx, "password reset requested for unknown email")
		return resettoken.Token{}, common.ErrorNotFound
	}

	tok, err := a.tokens.Generate()
	if err != nil {
		return resettoken.Token{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	acc, err = a.store.UpdateAccountFunc(acc.Username, func(acc *store.Account) error {
		acc.ResetToken = tok.Value
		acc.ResetTokenExpiry = tok.Expiry
		return nil
	})
	if err != nil {
		return resettoken.Token{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := a.mailer.SendPasswordReset(ctx, acc.Email, tok.Value, tok.Expiry); err != nil {
		a.logger.Warn(ctx, "sending reset email failed", "username", acc.Username, "error", err.Error())
	}

	a.logger.Info(ctx, "password reset token issued", "username", acc.Username)
	return tok, nil
}

// ResetPassword checks the token once up front for an early answer and
// again under the store lock, where it is consumed. Two resets racing on one
// token cannot both succeed.
func (a *accounts) ResetPassword(ctx context.Context, email, token, next string) error {
	a.lookup(ctx, "email", email)

	acc, err := a.store.FindByEmail(email)
	if err != nil {
		return common.ErrPasswordResetFailed
	}

	if err := resettoken.Check(acc, token, a.tokens.Now()); err != nil {
		a.logger.Info(ctx, "password reset rejected", "username", acc.Username, "reason", err.Error())
		return fmt.Errorf("%w: %w", common.ErrPasswordResetFailed, err)
	}

	nextHash, err := a.newPasswordHash(ctx, acc, next)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrPasswordResetFailed, err)
	}

	_, err = a.store.UpdateAccountFunc(acc.Username, func(acc *store.Account) error {
		if err := resettoken.Check(*acc, token, a.tokens.Now()); err != nil {
			return err
		}
		if err := a.applyPassword(acc, nextHash); err != nil {
			return err
		}
		acc.ClearResetToken()
		return nil
	})
	if err != nil {
		a.logger.Info(ctx, "password reset rejected", "username", acc.Username, "reason", err.Error())
		return fmt.Errorf("%w: %w", common.ErrPasswordResetFailed, err)
	}

	a.logger.Info(ctx, "password reset", "username", acc.Username)
	return nil
}

// newPasswordHash runs the policy on next and hashes it with the account's
// salt. It touches no state.
func (a *accounts) newPasswordHash(ctx context.Context, acc store.Account, next string) (string, error) {
	if err := a.policy.Check(next); err != nil {
		a.logger.Info(ctx, "new password rejected: weak password", "username", acc.Username, "reason", err.Error())
		return "", err
	}
	return a.hasher.Hash(next, acc.Salt), nil
}

// applyPassword must run inside UpdateAccountFunc. It rejects a hash still
// in the bounded history, otherwise installs it and records it there.
func (a *accounts) applyPassword(acc *store.Account, hash string) error {
	if acc.InHistory(hash) {
		return errPasswordReused
	}
	acc.PasswordHash = hash
	acc.PushHistory(hash, a.historySize)
	return nil
}
