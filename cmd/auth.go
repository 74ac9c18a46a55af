package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cinex/internal/auth"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/urfave/cli/v3"
)

func credentialsFrom(cmd *cli.Command) (models.Credentials, error) {
	creds := models.Credentials{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	}
	if creds.Password == "" {
		return creds, fmt.Errorf("%w: --password or CINEX_PASSWORD is required", shared.ErrMissingArgument)
	}
	return creds, nil
}

// AuthRegister creates an account on the server and saves the new session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	creds, err := credentialsFrom(cmd)
	if err != nil {
		return err
	}
	creds.ConfirmPassword = cmd.String("confirm")
	if creds.ConfirmPassword == "" {
		creds.ConfirmPassword = creds.Password
	}

	if err := auth.NewValidator().Validate(creds); err != nil {
		return err
	}

	r.logger.Info("registering", "username", creds.Username, "server", r.api.BaseURL())
	session, err := r.auth.Register(ctx, creds)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Registered and logged in as %s\n", session.User.Username)
}

// AuthLogin exchanges credentials for a session and saves it in the local store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds, err := credentialsFrom(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "username", creds.Username, "server", r.api.BaseURL())
	session, err := r.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Logged in as %s\n", session.User.Username)
}

// AuthLogout ends the session on the server and forgets it locally.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(ctx); err != nil {
		r.logger.Warn("server logout failed, local session cleared", "error", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the logged in user, if any.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	user, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("Server: %s\n", r.api.BaseURL())
	if user == nil {
		return r.writePlain("Authentication: ✗ Not logged in\n")
	}
	return r.writePlain("Authentication: ✓ Logged in as %s\n", user.Username)
}
