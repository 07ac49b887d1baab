package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/keystore"
	"github.com/sigtbr/sigt-cli/internal/client/session"
	"github.com/sigtbr/sigt-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// stubClient implements api.Client with programmable responses.
type stubClient struct {
	loginResp   *api.LoginResponse
	loginErr    error
	logoutErr   error
	logoutCalls int

	registerErr         error
	registerContentType string
	registerBody        []byte
	registerStarted     chan struct{}
	registerRelease     chan struct{}

	docTypes      []api.DocumentType
	docTypesErr   error
	courseTypes   []api.CourseType
	courseTypeErr error
}

func (s *stubClient) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	return s.loginResp, s.loginErr
}

func (s *stubClient) Logout(ctx context.Context) error {
	s.logoutCalls++
	return s.logoutErr
}

func (s *stubClient) Register(ctx context.Context, contentType string, body io.Reader) error {
	if s.registerStarted != nil {
		close(s.registerStarted)
	}
	if s.registerRelease != nil {
		<-s.registerRelease
	}
	s.registerContentType = contentType
	s.registerBody, _ = io.ReadAll(body)
	return s.registerErr
}

func (s *stubClient) DocumentTypes(ctx context.Context) ([]api.DocumentType, error) {
	return s.docTypes, s.docTypesErr
}

func (s *stubClient) ActiveCourseTypes(ctx context.Context) ([]api.CourseType, error) {
	return s.courseTypes, s.courseTypeErr
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSession(t *testing.T) *session.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE keystore (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)
	return session.NewStore(keystore.NewSQLiteStore(db), testLogger())
}

func validLoginResponse() *api.LoginResponse {
	return &api.LoginResponse{
		BackendTokens: api.TokenSet{
			AccessToken:  "acc",
			RefreshToken: "ref",
			ExpiresIn:    time.Now().Add(time.Hour).UnixMilli(),
		},
		User:   api.User{ID: "u-1", Email: "ana@example.com"},
		Driver: &api.Driver{ID: "d-1"},
	}
}

func TestAuthService_Login_SetsSession(t *testing.T) {
	sess := testSession(t)
	client := &stubClient{loginResp: validLoginResponse()}
	svc := NewAuthService(client, sess, testLogger())

	require.NoError(t, svc.Login(context.Background(), "ana@example.com", "pw"))

	require.True(t, sess.IsAuthenticated())
	assert.Equal(t, "ana@example.com", sess.User().Email)
	assert.Equal(t, "d-1", sess.Driver().ID)

	token, ok := sess.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "acc", token)
}

func TestAuthService_Login_FailureLeavesSessionEmpty(t *testing.T) {
	sess := testSession(t)
	client := &stubClient{loginErr: &api.APIError{StatusCode: 400, Message: "invalid credentials"}}
	svc := NewAuthService(client, sess, testLogger())

	err := svc.Login(context.Background(), "ana@example.com", "bad")
	require.Error(t, err)
	assert.EqualError(t, err, "invalid credentials")
	assert.False(t, sess.IsAuthenticated())
}

func TestAuthService_Logout_BestEffort(t *testing.T) {
	sess := testSession(t)
	client := &stubClient{loginResp: validLoginResponse(), logoutErr: errors.New("network down")}
	svc := NewAuthService(client, sess, testLogger())

	require.NoError(t, svc.Login(context.Background(), "ana@example.com", "pw"))
	require.NoError(t, svc.Logout(context.Background()))

	assert.Equal(t, 1, client.logoutCalls)
	assert.False(t, sess.IsAuthenticated(), "local session cleared despite server failure")
}

func TestAuthService_Logout_WithoutToken_SkipsServerCall(t *testing.T) {
	sess := testSession(t)
	client := &stubClient{}
	svc := NewAuthService(client, sess, testLogger())

	require.NoError(t, svc.Logout(context.Background()))
	assert.Zero(t, client.logoutCalls)
	assert.False(t, sess.IsAuthenticated())
}
