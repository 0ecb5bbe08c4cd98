package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/common"
)

// Swapped in tests.
var (
	ask         = Ask
	askPassword = AskPassword
)

// Register prompts for name, email and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := ask(a.reader, "Your name", a.out)
	if err != nil {
		return err
	}
	email, err := ask(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := askPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, name, email, string(password)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! You can login now.")
	return nil
}

// Login authenticates online and starts a sync pass for anything recorded
// while the session was missing or expired.
func (a *App) Login(ctx context.Context) error {
	email, err := ask(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := askPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.auth.Login(ctx, email, string(password))
	switch {
	case errors.Is(err, common.ErrNetworkUnavailable):
		return fmt.Errorf("server unavailable, login needs a connection: %w", err)
	case errors.Is(err, common.ErrUnauthorized):
		return errors.New("wrong email or password")
	case err != nil:
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s\n", common.FirstNonEmpty(sess.Name, sess.Email))
	a.sync.Trigger(ctx)
	return nil
}

// Logout forgets the session and wipes local data. Unsynced changes are
// lost, so the user is warned first.
func (a *App) Logout(ctx context.Context) error {
	if c, err := a.jobs.Status(ctx); err == nil && c.Unsynced() > 0 {
		ok, err := Confirm(a.reader, fmt.Sprintf("%d local changes are not synced and will be lost. Continue?", c.Unsynced()), a.out)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
