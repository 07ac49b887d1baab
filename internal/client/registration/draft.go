// Package registration drives the multi-step signup wizard: collected field
// values, step-gated progression, selected course qualifications, uploaded
// documents and the assembly of the final submission payload.
package registration

import "github.com/google/uuid"

// Kind selects the account flavor being created. Drivers go through three
// steps (personal info, courses, documents); standard users only the first.
type Kind string

const (
	KindUser   Kind = "user"
	KindDriver Kind = "driver"
)

// PersonalInfo is the step-1 field set. Phone, CPF and the license number
// may carry display masks; they are normalized to digits at submission time.
type PersonalInfo struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	CPF             string
	Password        string
	ConfirmPassword string
}

// DriverInfo is the driver-only extension of step 1.
type DriverInfo struct {
	LicenseNumber     string
	LicenseExpiration string // YYYY-MM-DD
}

// CourseOption is a selectable course qualification: server id plus the
// label shown to the user.
type CourseOption struct {
	ID    string
	Label string
}

// CourseDetail carries the dates the user must fill for a selected course.
// The collection is derived from the selection; it is never edited
// independently of it.
type CourseDetail struct {
	CourseTypeID   string `json:"courseTypeId"`
	Expiration     string `json:"coursesExpiration"`
	CompletionDate string `json:"completionDate"`
}

// Document is a file staged for upload. DocumentTypeID starts empty and
// must be assigned before the wizard permits submission.
type Document struct {
	ID             string
	Path           string
	Name           string
	MIMEType       string
	SizeBytes      int64
	DocumentTypeID string
}

// Draft is the wizard state machine. It lives only in memory for the
// duration of the wizard and is discarded on submission success or when the
// user walks away.
type Draft struct {
	kind Kind
	step int

	Personal PersonalInfo
	Driver   DriverInfo

	selectedCourses []CourseOption
	courseDetails   []CourseDetail
	documents       []Document
}

func NewDraft() *Draft {
	return &Draft{kind: KindUser, step: 1}
}

func (d *Draft) Kind() Kind { return d.kind }

// SetKind switches the account flavor and unconditionally returns to step 1.
// Previously entered driver data is retained, so switching away and back
// does not lose work.
func (d *Draft) SetKind(k Kind) {
	d.kind = k
	d.step = 1
}

func (d *Draft) CurrentStep() int { return d.step }

func (d *Draft) TotalSteps() int {
	if d.kind == KindDriver {
		return 3
	}
	return 1
}

// Next advances to the following step. It refuses when the current step
// does not validate or the wizard is already at the last step.
func (d *Draft) Next() bool {
	if d.step >= d.TotalSteps() || !d.StepValid(d.step) {
		return false
	}
	d.step++
	return true
}

// Prev moves one step back; validation is not required to retreat.
func (d *Draft) Prev() bool {
	if d.step <= 1 {
		return false
	}
	d.step--
	return true
}

// SelectCourse adds a course to the selection (unique by id, order as
// selected) and re-derives the detail collection.
func (d *Draft) SelectCourse(opt CourseOption) {
	for _, c := range d.selectedCourses {
		if c.ID == opt.ID {
			return
		}
	}
	d.selectedCourses = append(d.selectedCourses, opt)
	d.courseDetails = deriveCourseDetails(d.selectedCourses, d.courseDetails)
}

// DeselectCourse removes a course and its derived detail entry.
func (d *Draft) DeselectCourse(id string) {
	kept := d.selectedCourses[:0]
	for _, c := range d.selectedCourses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	d.selectedCourses = kept
	d.courseDetails = deriveCourseDetails(d.selectedCourses, d.courseDetails)
}

func (d *Draft) SelectedCourses() []CourseOption {
	out := make([]CourseOption, len(d.selectedCourses))
	copy(out, d.selectedCourses)
	return out
}

func (d *Draft) CourseDetails() []CourseDetail {
	out := make([]CourseDetail, len(d.courseDetails))
	copy(out, d.courseDetails)
	return out
}

// SetCourseDates fills the dates of one derived detail entry. Returns false
// when the course is not part of the current selection.
func (d *Draft) SetCourseDates(courseID, expiration, completionDate string) bool {
	for i := range d.courseDetails {
		if d.courseDetails[i].CourseTypeID == courseID {
			d.courseDetails[i].Expiration = expiration
			d.courseDetails[i].CompletionDate = completionDate
			return true
		}
	}
	return false
}

// AddDocument stages a local file for upload and returns its handle.
func (d *Draft) AddDocument(path, name, mimeType string, sizeBytes int64) Document {
	doc := Document{
		ID:        uuid.NewString(),
		Path:      path,
		Name:      name,
		MIMEType:  mimeType,
		SizeBytes: sizeBytes,
	}
	d.documents = append(d.documents, doc)
	return doc
}

func (d *Draft) RemoveDocument(id string) {
	kept := d.documents[:0]
	for _, doc := range d.documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	d.documents = kept
}

// AssignDocumentType tags a staged document with a server-defined document
// type. Returns false for an unknown document id.
func (d *Draft) AssignDocumentType(docID, typeID string) bool {
	for i := range d.documents {
		if d.documents[i].ID == docID {
			d.documents[i].DocumentTypeID = typeID
			return true
		}
	}
	return false
}

func (d *Draft) Documents() []Document {
	out := make([]Document, len(d.documents))
	copy(out, d.documents)
	return out
}

// deriveCourseDetails projects the detail collection from the selection:
// entries for newly selected courses are appended with empty dates, entries
// for deselected courses are dropped, and untouched entries keep their
// order and dates.
func deriveCourseDetails(selected []CourseOption, previous []CourseDetail) []CourseDetail {
	selectedIDs := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		selectedIDs[c.ID] = struct{}{}
	}

	next := make([]CourseDetail, 0, len(selected))
	existing := make(map[string]struct{}, len(previous))
	for _, detail := range previous {
		if _, ok := selectedIDs[detail.CourseTypeID]; ok {
			next = append(next, detail)
			existing[detail.CourseTypeID] = struct{}{}
		}
	}

	for _, c := range selected {
		if _, ok := existing[c.ID]; !ok {
			next = append(next, CourseDetail{CourseTypeID: c.ID})
		}
	}

	return next
}
