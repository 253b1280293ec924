package cli

import (
	"context"
	"time"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// checkPolicy runs the engine's password policy before submitting, so the
// user sees the exact rule that failed.
func (a *App) checkPolicy(password string) bool {
	res := a.engine.ValidatePassword(password)
	if !res.Valid {
		a.println(res.Reason)
	}
	return res.Valid
}

// Register prompts for the registration form and creates the account.
func (a *App) Register(ctx context.Context) error {
	var f RegisterForm
	var err error
	if f.Email, err = a.text("Email"); err != nil {
		return err
	}
	if f.Username, err = a.text("Username"); err != nil {
		return err
	}
	if f.Password, err = a.password("Password"); err != nil {
		return err
	}
	if f.Confirm, err = a.password("Confirm password"); err != nil {
		return err
	}

	if err := f.Validate(); err != nil {
		a.println(errorMessage(err))
		return nil
	}
	if !a.checkPolicy(f.Password) {
		return nil
	}

	if !a.engine.Register(ctx, f.Email, f.Username, f.Password) {
		a.println("Registration failed: username might already exist or server error occurred.")
		return nil
	}
	a.println("Registration successful! You can now log in with your credentials.")
	return nil
}

// Login prompts for credentials. Failures are counted per username to show
// how many attempts remain before the account locks.
func (a *App) Login(ctx context.Context) error {
	var f LoginForm
	var err error
	if f.Username, err = a.text("Username"); err != nil {
		return err
	}
	if f.Password, err = a.password("Password"); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		a.println(errorMessage(err))
		return nil
	}

	if a.engine.Login(ctx, f.Username, f.Password) {
		delete(a.loginAttempts, f.Username)
		a.println("Login successful. Welcome back!")
		return nil
	}

	a.loginAttempts[f.Username]++
	if left := a.maxLoginAttempts - a.loginAttempts[f.Username]; left > 0 {
		a.printf("Login failed: invalid username or password. %d attempts remaining.\n", left)
	} else {
		a.println("Account locked: too many failed login attempts. Please try again later.")
	}
	a.logger.Debug(ctx, "login failed", "username", f.Username, "attempts", a.loginAttempts[f.Username])
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	a.engine.Logout(ctx)
	a.println("Logged out.")
	return nil
}

// WhoAmI prints the logged-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	acc, ok := a.engine.CurrentUser()
	if !ok {
		a.println("Not logged in.")
		return nil
	}
	a.printf("%s <%s> id=%d status=%s\n", acc.Username, acc.Email, acc.ID, acc.Status())
	return nil
}

// Forgot requests a reset token. The token is printed because the mailer
// only logs.
func (a *App) Forgot(ctx context.Context) error {
	var f ForgotForm
	var err error
	if f.Email, err = a.text("Email"); err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		a.println(errorMessage(err))
		return nil
	}

	tok, ok := a.engine.RequestPasswordReset(ctx, f.Email)
	if !ok {
		a.println("If this email exists in our system, you will receive reset instructions.")
		return nil
	}
	a.println("Password reset email sent. Check your email for a reset link.")
	a.printf("Demo token: %s (valid until %s)\n", tok.Value, tok.Expiry.Format(time.Kitchen))
	return nil
}

// Reset prompts for an email, token and new password and resets the password.
func (a *App) Reset(ctx context.Context) error {
	var f ResetForm
	var err error
	if f.Email, err = a.text("Email"); err != nil {
		return err
	}
	if f.Token, err = a.text("Reset token"); err != nil {
		return err
	}
	if f.Password, err = a.password("New password"); err != nil {
		return err
	}
	if f.Confirm, err = a.password("Confirm new password"); err != nil {
		return err
	}

	if err := f.Validate(); err != nil {
		a.println(errorMessage(err))
		return nil
	}
	if !a.checkPolicy(f.Password) {
		return nil
	}

	if !a.engine.ResetPassword(ctx, f.Email, f.Token, f.Password) {
		a.println("Failed to reset password: invalid or expired token, or email address not found.")
		return nil
	}
	a.println("Password reset successful. You can now log in with your new password.")
	return nil
}

// ChangePassword prompts for the current and a new password.
func (a *App) ChangePassword(ctx context.Context) error {
	var f ChangePasswordForm
	var err error
	if f.Current, err = a.password("Current password"); err != nil {
		return err
	}
	if f.Password, err = a.password("New password"); err != nil {
		return err
	}
	if f.Confirm, err = a.password("Confirm new password"); err != nil {
		return err
	}

	if err := f.Validate(); err != nil {
		a.println(errorMessage(err))
		return nil
	}
	if !a.checkPolicy(f.Password) {
		return nil
	}

	if !a.engine.ChangePassword(ctx, f.Current, f.Password) {
		a.println("Failed to change password: current password is incorrect or new password was previously used.")
		return nil
	}
	a.println("Password changed. Your password has been updated successfully.")
	return nil
}
