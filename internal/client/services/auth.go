// Package services contains the application services of the SIGT client:
// the login/logout flow over the session store and the registration
// submission protocol.
package services

import (
	"context"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/session"
	"github.com/sigtbr/sigt-cli/internal/logging"
)

// AuthService drives authentication against the remote API and keeps the
// session store in sync.
//
// Contract:
//   - Login: authenticate and persist the returned session.
//   - Logout: best-effort server invalidation, then always clear the local
//     session.
type AuthService interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

type authService struct {
	client  api.Client
	session *session.Store
	log     logging.Logger
}

func NewAuthService(client api.Client, sess *session.Store, log logging.Logger) AuthService {
	return &authService{client: client, session: sess, log: log}
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session.SetAuth(ctx, resp.User, resp.BackendTokens, resp.Driver)
	a.log.Info(ctx, "login successful", "user", resp.User.Email)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if _, ok := a.session.AccessToken(); ok {
		if err := a.client.Logout(ctx); err != nil {
			// Best effort: the server call failing never blocks the
			// local logout.
			a.log.Warn(ctx, "server-side logout failed", "error", err)
		}
	}

	a.session.Logout(ctx)
	return nil
}
