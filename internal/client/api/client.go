// Package api implements the client for the remote SIGT REST API. All
// business rules live behind that API; this package only shapes requests,
// decodes responses and maps failures to sentinel errors.
package api

import (
	"context"
	"io"
)

// Client is the remote surface the rest of the application talks to.
//
// Contract:
//   - Login: authenticate with email/password, returning tokens and profile.
//   - Logout: invalidate the session server-side; callers treat it as
//     best-effort.
//   - Register: submit the assembled multipart registration payload.
//   - DocumentTypes / ActiveCourseTypes: read-only reference data.
//
// All methods honor context cancellation and timeouts.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, contentType string, body io.Reader) error
	DocumentTypes(ctx context.Context) ([]DocumentType, error)
	ActiveCourseTypes(ctx context.Context) ([]CourseType, error)
}
