package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/registration"
)

func noopOpener(string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func validStandardDraft() *registration.Draft {
	d := registration.NewDraft()
	d.Personal = registration.PersonalInfo{
		FirstName:       "Ana",
		LastName:        "Souza",
		Email:           "ana@example.com",
		Phone:           "11987654321",
		CPF:             "12345678909",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	}
	return d
}

func TestRegistrationService_Submit_StandardAccount(t *testing.T) {
	client := &stubClient{}
	svc := NewRegistrationService(client, noopOpener, testLogger())

	require.NoError(t, svc.Submit(context.Background(), validStandardDraft()))

	assert.Contains(t, client.registerContentType, "multipart/form-data")
	assert.Contains(t, string(client.registerBody), "ana@example.com")
	assert.Contains(t, string(client.registerBody), `name="userType"`)
}

func TestRegistrationService_Submit_IncompleteDraft(t *testing.T) {
	client := &stubClient{}
	svc := NewRegistrationService(client, noopOpener, testLogger())

	d := registration.NewDraft() // empty step 1
	err := svc.Submit(context.Background(), d)
	require.ErrorIs(t, err, ErrDraftIncomplete)
	assert.Empty(t, client.registerBody, "nothing must reach the network")
}

func TestRegistrationService_Submit_FailureKeepsDraft(t *testing.T) {
	client := &stubClient{registerErr: &api.APIError{StatusCode: 422, Message: "cpf already registered"}}
	svc := NewRegistrationService(client, noopOpener, testLogger())

	d := validStandardDraft()
	err := svc.Submit(context.Background(), d)
	require.Error(t, err)
	assert.EqualError(t, err, "cpf already registered")

	// The wizard state is untouched; the user retries from the same step.
	assert.Equal(t, 1, d.CurrentStep())
	assert.True(t, d.CanSubmit())
}

func TestRegistrationService_Submit_RejectsConcurrentSubmission(t *testing.T) {
	client := &stubClient{
		registerStarted: make(chan struct{}),
		registerRelease: make(chan struct{}),
	}
	svc := NewRegistrationService(client, noopOpener, testLogger())

	done := make(chan error, 1)
	go func() {
		done <- svc.Submit(context.Background(), validStandardDraft())
	}()

	<-client.registerStarted
	err := svc.Submit(context.Background(), validStandardDraft())
	require.ErrorIs(t, err, ErrSubmissionPending)

	close(client.registerRelease)
	require.NoError(t, <-done)

	// Once the first submission settles, new attempts are accepted again.
	client.registerStarted = nil
	client.registerRelease = nil
	require.NoError(t, svc.Submit(context.Background(), validStandardDraft()))
}

func TestRegistrationService_ReferenceData_ToleratesPartialFailure(t *testing.T) {
	client := &stubClient{
		docTypesErr: errors.New("boom"),
		courseTypes: []api.CourseType{{ID: "c-1", CourseName: "MOPP"}},
	}
	svc := NewRegistrationService(client, noopOpener, testLogger())

	data := svc.ReferenceData(context.Background())
	assert.Empty(t, data.DocumentTypes)
	require.Len(t, data.CourseTypes, 1)
	assert.Equal(t, "MOPP", data.CourseTypes[0].CourseName)
}
