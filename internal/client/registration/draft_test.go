package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPersonal() PersonalInfo {
	return PersonalInfo{
		FirstName:       "Ana",
		LastName:        "Souza",
		Email:           "ana@example.com",
		Phone:           "(11) 98765-4321",
		CPF:             "123.456.789-09",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	}
}

func TestDraft_TotalSteps(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, 1, d.TotalSteps())

	d.SetKind(KindDriver)
	assert.Equal(t, 3, d.TotalSteps())
}

func TestDraft_SetKind_ResetsStep(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)
	d.Personal = validPersonal()
	require.True(t, d.Next())
	require.Equal(t, 2, d.CurrentStep())

	d.SetKind(KindUser)
	assert.Equal(t, 1, d.CurrentStep())

	// Switching back retains previously entered driver data.
	d.Driver = DriverInfo{LicenseNumber: "987", LicenseExpiration: "2030-01-01"}
	d.SetKind(KindUser)
	d.SetKind(KindDriver)
	assert.Equal(t, "987", d.Driver.LicenseNumber)
}

func TestDraft_Step1_PasswordGatesAdvancement(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)
	d.Personal = validPersonal()

	// 7 characters, missing special: 4 of 5 checks.
	d.Personal.Password = "Abcdef1"
	d.Personal.ConfirmPassword = "Abcdef1"
	assert.False(t, d.StepValid(1))
	assert.False(t, d.Next())
	assert.Equal(t, 1, d.CurrentStep())

	d.Personal.Password = "Abcdef1!"
	d.Personal.ConfirmPassword = "Abcdef1!"
	assert.True(t, d.StepValid(1))
	assert.True(t, d.Next())
	assert.Equal(t, 2, d.CurrentStep())
}

func TestDraft_Step1_MismatchedConfirmation(t *testing.T) {
	d := NewDraft()
	d.Personal = validPersonal()
	d.Personal.ConfirmPassword = "Abcdef1?"
	assert.False(t, d.StepValid(1))
}

func TestDraft_Step1_EmptyFieldBlocks(t *testing.T) {
	d := NewDraft()
	d.Personal = validPersonal()
	d.Personal.CPF = ""
	assert.False(t, d.StepValid(1))
}

func TestDraft_CourseDetails_DerivedFromSelection(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)

	d.SelectCourse(CourseOption{ID: "A", Label: "MOPP"})
	d.SelectCourse(CourseOption{ID: "B", Label: "Defensive driving"})

	details := d.CourseDetails()
	require.Len(t, details, 2)
	assert.Equal(t, "A", details[0].CourseTypeID)
	assert.Equal(t, "B", details[1].CourseTypeID)

	// Fill B's dates, then drop A: B's entry and its dates must survive.
	require.True(t, d.SetCourseDates("B", "2030-05-01", "2024-05-01"))
	d.DeselectCourse("A")

	details = d.CourseDetails()
	require.Len(t, details, 1)
	assert.Equal(t, "B", details[0].CourseTypeID)
	assert.Equal(t, "2030-05-01", details[0].Expiration)
	assert.Equal(t, "2024-05-01", details[0].CompletionDate)
}

func TestDraft_SelectCourse_IgnoresDuplicates(t *testing.T) {
	d := NewDraft()
	d.SelectCourse(CourseOption{ID: "A", Label: "MOPP"})
	d.SelectCourse(CourseOption{ID: "A", Label: "MOPP"})

	assert.Len(t, d.SelectedCourses(), 1)
	assert.Len(t, d.CourseDetails(), 1)
}

func TestDraft_Step2_RequiresCoursesAndExpirations(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)

	assert.False(t, d.StepValid(2), "no courses selected")

	d.SelectCourse(CourseOption{ID: "A", Label: "MOPP"})
	assert.False(t, d.StepValid(2), "expiration date missing")

	require.True(t, d.SetCourseDates("A", "2030-05-01", ""))
	assert.True(t, d.StepValid(2), "completion date is not required")
}

func TestDraft_Step3_RequiresTaggedDocuments(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)

	assert.False(t, d.StepValid(3), "no documents uploaded")

	doc := d.AddDocument("/tmp/cnh.pdf", "cnh.pdf", "application/pdf", 1024)
	assert.False(t, d.StepValid(3), "document type not assigned")

	require.True(t, d.AssignDocumentType(doc.ID, "dt-1"))
	assert.True(t, d.StepValid(3))
}

func TestDraft_RemoveDocument(t *testing.T) {
	d := NewDraft()
	a := d.AddDocument("/tmp/a.pdf", "a.pdf", "application/pdf", 1)
	b := d.AddDocument("/tmp/b.pdf", "b.pdf", "application/pdf", 2)

	d.RemoveDocument(a.ID)

	docs := d.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, b.ID, docs[0].ID)
}

func TestDraft_AssignDocumentType_UnknownID(t *testing.T) {
	d := NewDraft()
	assert.False(t, d.AssignDocumentType("missing", "dt-1"))
}

func TestDraft_CanSubmit_StandardAccount(t *testing.T) {
	d := NewDraft()
	assert.False(t, d.CanSubmit())

	d.Personal = validPersonal()
	assert.True(t, d.CanSubmit(), "standard accounts submit straight from step 1")
}

func TestDraft_CanSubmit_DriverNeedsFinalStep(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)
	d.Personal = validPersonal()

	assert.False(t, d.CanSubmit(), "step 1 of 3 cannot submit")

	d.SelectCourse(CourseOption{ID: "A", Label: "MOPP"})
	require.True(t, d.SetCourseDates("A", "2030-05-01", "2024-05-01"))
	require.True(t, d.Next())
	require.True(t, d.Next())
	require.Equal(t, 3, d.CurrentStep())

	doc := d.AddDocument("/tmp/cnh.pdf", "cnh.pdf", "application/pdf", 1024)
	assert.False(t, d.CanSubmit(), "untagged document keeps submission disabled")

	require.True(t, d.AssignDocumentType(doc.ID, "dt-1"))
	assert.True(t, d.CanSubmit())
}

func TestDraft_PrevRetreatsWithoutValidation(t *testing.T) {
	d := NewDraft()
	d.SetKind(KindDriver)
	d.Personal = validPersonal()
	require.True(t, d.Next())

	// Invalidate step 1; retreat must still work.
	d.Personal.Email = ""
	assert.True(t, d.Prev())
	assert.Equal(t, 1, d.CurrentStep())
	assert.False(t, d.Prev())
}

func TestDeriveCourseDetails_OrderPreserved(t *testing.T) {
	previous := []CourseDetail{
		{CourseTypeID: "A", Expiration: "2030-01-01"},
		{CourseTypeID: "B", Expiration: "2031-01-01"},
	}
	selected := []CourseOption{{ID: "B"}, {ID: "C"}}

	next := deriveCourseDetails(selected, previous)

	require.Len(t, next, 2)
	assert.Equal(t, "B", next[0].CourseTypeID)
	assert.Equal(t, "2031-01-01", next[0].Expiration)
	assert.Equal(t, "C", next[1].CourseTypeID)
	assert.Empty(t, next[1].Expiration)
}
