package services

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/registration"
	"github.com/sigtbr/sigt-cli/internal/logging"
)

var (
	// ErrDraftIncomplete is returned when the wizard is not at a valid
	// final step.
	ErrDraftIncomplete = errors.New("registration draft is incomplete")

	// ErrSubmissionPending is returned when a submission is already in
	// flight; the draft is untouched.
	ErrSubmissionPending = errors.New("a submission is already in progress")
)

// ReferenceData is the server-defined lookup data the wizard needs:
// document categories and currently active course qualifications.
type ReferenceData struct {
	DocumentTypes []api.DocumentType
	CourseTypes   []api.CourseType
}

// RegistrationService loads wizard reference data and submits finished
// drafts.
type RegistrationService interface {
	ReferenceData(ctx context.Context) ReferenceData
	Submit(ctx context.Context, draft *registration.Draft) error
}

type registrationService struct {
	client  api.Client
	open    registration.FileOpener
	log     logging.Logger
	pending atomic.Bool
}

func NewRegistrationService(client api.Client, open registration.FileOpener, log logging.Logger) RegistrationService {
	return &registrationService{client: client, open: open, log: log}
}

// ReferenceData fetches document and course types. Each lookup failure is
// tolerated independently: the wizard still opens, with the affected list
// empty.
func (r *registrationService) ReferenceData(ctx context.Context) ReferenceData {
	var data ReferenceData

	docTypes, err := r.client.DocumentTypes(ctx)
	if err != nil {
		r.log.Warn(ctx, "failed to load document types", "error", err)
	} else {
		data.DocumentTypes = docTypes
	}

	courseTypes, err := r.client.ActiveCourseTypes(ctx)
	if err != nil {
		r.log.Warn(ctx, "failed to load course types", "error", err)
	} else {
		data.CourseTypes = courseTypes
	}

	return data
}

// Submit assembles the multipart payload and posts it. On failure the draft
// is left untouched so the user retries from the same step; on success the
// caller discards the draft and moves to the login screen.
func (r *registrationService) Submit(ctx context.Context, draft *registration.Draft) error {
	if !draft.CanSubmit() {
		return ErrDraftIncomplete
	}
	if !r.pending.CompareAndSwap(false, true) {
		return ErrSubmissionPending
	}
	defer r.pending.Store(false)

	contentType, body, err := registration.BuildSubmission(draft, r.open)
	if err != nil {
		return err
	}

	if err := r.client.Register(ctx, contentType, bytes.NewReader(body)); err != nil {
		return err
	}

	r.log.Info(ctx, "registration submitted", "email", draft.Personal.Email, "kind", string(draft.Kind()))
	return nil
}
