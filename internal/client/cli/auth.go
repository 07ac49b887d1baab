package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the SIGT API.
// Failures are terminal here: the error message is shown to the user and
// the prompt returns, with no session state left behind.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		fmt.Fprintln(a.out, "Login failed:", loginMessage(err))
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.User().Name)
	return nil
}

// Whoami prints the current session's identity.
func (a *App) Whoami(ctx context.Context) error {
	user := a.session.User()
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}

	fmt.Fprintf(a.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Status)
	if driver := a.session.Driver(); driver != nil {
		fmt.Fprintf(a.out, "Driver license %s, expires %s\n",
			driver.DriverLicenseNumber, driver.DriverLicenseExpiration)
	}
	return nil
}

// Logout invalidates the session server-side when possible and always
// clears local state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, api.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, api.ErrUnauthorized):
		return "invalid credentials"
	default:
		return err.Error()
	}
}
