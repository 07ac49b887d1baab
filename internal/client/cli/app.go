// Package cli implements the interactive terminal front end of the SIGT
// client: the command loop, the login prompt and the registration wizard.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/config"
	"github.com/sigtbr/sigt-cli/internal/client/keystore"
	"github.com/sigtbr/sigt-cli/internal/client/registration"
	"github.com/sigtbr/sigt-cli/internal/client/services"
	"github.com/sigtbr/sigt-cli/internal/client/session"
	"github.com/sigtbr/sigt-cli/internal/logging"
)

type App struct {
	config       *config.Config
	db           *sql.DB
	session      *session.Store
	auth         services.AuthService
	registration services.RegistrationService
	log          logging.Logger
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := keystore.OpenDatabase(ctx, filepath.Join(cfg.DataDir, "sigt.db"))
	if err != nil {
		return nil, err
	}

	deviceKey, err := keystore.LoadOrCreateDeviceKey(filepath.Join(cfg.DataDir, "device.key"))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store := keystore.NewEncrypted(keystore.NewSQLiteStore(db), deviceKey)
	sess := session.NewStore(store, log)

	client := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, sess.AccessToken, func() {
		// A 401 means the token is no longer honored; drop the session.
		sess.Logout(context.Background())
	})

	return &App{
		config:       cfg,
		db:           db,
		session:      sess,
		auth:         services.NewAuthService(client, sess, log),
		registration: services.NewRegistrationService(client, registration.OSFileOpener, log),
		log:          log,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

// Run restores any persisted session and hands control to the REPL. The
// route decision (logged-in prompt vs. anonymous prompt) waits for the
// session load to finish.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.session.LoadStoredAuth(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) getStatus() string {
	if user := a.session.User(); user != nil {
		return "(" + user.Email + ")"
	}
	return ""
}
