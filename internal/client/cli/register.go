package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sigtbr/sigt-cli/internal/client/api"
	"github.com/sigtbr/sigt-cli/internal/client/registration"
	"github.com/sigtbr/sigt-cli/internal/client/services"
)

// Register runs the multi-step signup wizard. Standard accounts submit
// straight from the personal-info step; driver accounts continue through
// course qualifications and document upload. A failed submission keeps the
// wizard on its current step so the user can retry.
func (a *App) Register(ctx context.Context) error {
	draft := registration.NewDraft()
	data := a.registration.ReferenceData(ctx)

	answer, err := getSimpleText(a.reader, "Register as a driver? (y/N)", a.out)
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "y") {
		draft.SetKind(registration.KindDriver)
	}

	for {
		switch draft.CurrentStep() {
		case 1:
			err = a.personalStep(draft)
		case 2:
			err = a.coursesStep(draft, data.CourseTypes)
		case 3:
			err = a.documentsStep(draft, data.DocumentTypes)
		}
		if err != nil {
			return err
		}

		if !draft.StepValid(draft.CurrentStep()) {
			for _, problem := range stepProblems(draft) {
				fmt.Fprintln(a.out, " -", problem)
			}
			retry, err := getSimpleText(a.reader, "Step incomplete. Try again? (Y/n)", a.out)
			if err != nil {
				return err
			}
			if strings.EqualFold(retry, "n") {
				fmt.Fprintln(a.out, "Registration cancelled.")
				return nil
			}
			continue
		}

		if draft.CurrentStep() < draft.TotalSteps() {
			draft.Next()
			continue
		}

		if done, err := a.submit(ctx, draft); err != nil || done {
			return err
		}
	}
}

// submit posts the finished draft. done is true when the wizard should end,
// either on success or because the user declined to retry.
func (a *App) submit(ctx context.Context, draft *registration.Draft) (done bool, err error) {
	confirm, err := getSimpleText(a.reader, "Submit registration? (Y/n)", a.out)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(confirm, "n") {
		fmt.Fprintln(a.out, "Registration cancelled.")
		return true, nil
	}

	if err := a.registration.Submit(ctx, draft); err != nil {
		if errors.Is(err, services.ErrSubmissionPending) {
			fmt.Fprintln(a.out, "A submission is already in progress.")
			return true, nil
		}
		fmt.Fprintln(a.out, "Registration failed:", submitMessage(err))

		retry, err := getSimpleText(a.reader, "Try again? (Y/n)", a.out)
		if err != nil {
			return false, err
		}
		return strings.EqualFold(retry, "n"), nil
	}

	fmt.Fprintln(a.out, "Registration submitted! You can now log in.")
	return true, nil
}

func (a *App) personalStep(draft *registration.Draft) error {
	fmt.Fprintf(a.out, "Step 1 of %d: personal information\n", draft.TotalSteps())

	fields := []struct {
		prompt string
		target *string
	}{
		{"First name", &draft.Personal.FirstName},
		{"Last name", &draft.Personal.LastName},
		{"Email", &draft.Personal.Email},
		{"Phone", &draft.Personal.Phone},
		{"CPF", &draft.Personal.CPF},
	}
	for _, field := range fields {
		value, err := getSimpleText(a.reader, field.prompt, a.out)
		if err != nil {
			return err
		}
		*field.target = value
	}

	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}
	draft.Personal.Password = string(password)

	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	draft.Personal.ConfirmPassword = string(confirm)

	if draft.Kind() == registration.KindDriver {
		if draft.Driver.LicenseNumber, err = getSimpleText(a.reader, "Driver license number (CNH)", a.out); err != nil {
			return err
		}
		if draft.Driver.LicenseExpiration, err = getSimpleText(a.reader, "License expiration (YYYY-MM-DD)", a.out); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) coursesStep(draft *registration.Draft, options []api.CourseType) error {
	fmt.Fprintln(a.out, "Step 2 of 3: course qualifications")
	if len(options) == 0 {
		fmt.Fprintln(a.out, "No course types available; check your connection and retry.")
		return nil
	}

	for i, course := range options {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, course.CourseName)
	}
	if selected := draft.SelectedCourses(); len(selected) > 0 {
		labels := make([]string, len(selected))
		for i, c := range selected {
			labels[i] = c.Label
		}
		fmt.Fprintln(a.out, "Currently selected:", strings.Join(labels, ", "))
	}

	answer, err := getSimpleText(a.reader, "Course numbers, comma separated", a.out)
	if err != nil {
		return err
	}

	wanted := map[string]bool{}
	for _, token := range strings.Split(answer, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil || n < 1 || n > len(options) {
			fmt.Fprintln(a.out, "Ignoring invalid selection:", token)
			continue
		}
		course := options[n-1]
		wanted[course.ID] = true
		draft.SelectCourse(registration.CourseOption{ID: course.ID, Label: course.CourseName})
	}
	for _, selected := range draft.SelectedCourses() {
		if !wanted[selected.ID] {
			draft.DeselectCourse(selected.ID)
		}
	}

	for _, detail := range draft.CourseDetails() {
		label := detail.CourseTypeID
		for _, c := range draft.SelectedCourses() {
			if c.ID == detail.CourseTypeID {
				label = c.Label
			}
		}

		expiration, err := a.promptKeeping(fmt.Sprintf("%s: expiration date (YYYY-MM-DD)", label), detail.Expiration)
		if err != nil {
			return err
		}
		completion, err := a.promptKeeping(fmt.Sprintf("%s: completion date (YYYY-MM-DD, optional)", label), detail.CompletionDate)
		if err != nil {
			return err
		}
		draft.SetCourseDates(detail.CourseTypeID, expiration, completion)
	}

	return nil
}

func (a *App) documentsStep(draft *registration.Draft, types []api.DocumentType) error {
	fmt.Fprintln(a.out, "Step 3 of 3: documents")
	if len(types) == 0 {
		fmt.Fprintln(a.out, "No document types available; check your connection and retry.")
		return nil
	}

	for i, dt := range types {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, dt.DocumentType)
	}

	for {
		path, err := getSimpleText(a.reader, "Path to document file (empty line to finish)", a.out)
		if err != nil {
			return err
		}
		if path == "" {
			break
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintln(a.out, "Cannot read file:", err)
			continue
		}

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		doc := draft.AddDocument(path, filepath.Base(path), mimeType, info.Size())

		answer, err := getSimpleText(a.reader, "Document type number", a.out)
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr != nil || n < 1 || n > len(types) {
			fmt.Fprintln(a.out, "No type assigned; the document must be tagged before submission.")
			continue
		}
		draft.AssignDocumentType(doc.ID, types[n-1].ID)
	}

	return nil
}

// promptKeeping asks for a value, keeping current when the user just
// presses Enter.
func (a *App) promptKeeping(prompt, current string) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	value, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

// stepProblems renders the current step's unmet requirements as inline
// messages.
func stepProblems(draft *registration.Draft) []string {
	var problems []string

	switch draft.CurrentStep() {
	case 1:
		p := draft.Personal
		if p.FirstName == "" || p.LastName == "" || p.Email == "" || p.Phone == "" || p.CPF == "" {
			problems = append(problems, "all personal fields are required")
		}
		for _, check := range registration.PasswordChecks(p.Password) {
			if !check.Valid {
				problems = append(problems, "password needs "+check.Label)
			}
		}
		if p.Password != p.ConfirmPassword {
			problems = append(problems, "passwords do not match")
		}
	case 2:
		if len(draft.SelectedCourses()) == 0 {
			problems = append(problems, "select at least one course")
		}
		for _, detail := range draft.CourseDetails() {
			if detail.Expiration == "" {
				problems = append(problems, "course "+detail.CourseTypeID+" needs an expiration date")
			}
		}
	case 3:
		if len(draft.Documents()) == 0 {
			problems = append(problems, "upload at least one document")
		}
		for _, doc := range draft.Documents() {
			if doc.DocumentTypeID == "" {
				problems = append(problems, "document "+doc.Name+" needs a document type")
			}
		}
	}

	return problems
}

func submitMessage(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, api.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return "registration could not be completed"
	}
}
