package registration

// StepValid reports whether the given step satisfies its validation
// predicate. Next and CanSubmit are gated on it; the UI also uses it to
// enable controls and render inline messages.
func (d *Draft) StepValid(step int) bool {
	switch step {
	case 1:
		p := d.Personal
		return p.FirstName != "" &&
			p.LastName != "" &&
			p.Email != "" &&
			p.Phone != "" &&
			p.CPF != "" &&
			p.Password != "" &&
			p.ConfirmPassword != "" &&
			PasswordScore(p.Password) >= 5 &&
			p.Password == p.ConfirmPassword
	case 2:
		if len(d.selectedCourses) == 0 {
			return false
		}
		for _, detail := range d.courseDetails {
			if detail.Expiration == "" {
				return false
			}
		}
		return true
	case 3:
		if len(d.documents) == 0 {
			return false
		}
		for _, doc := range d.documents {
			if doc.DocumentTypeID == "" {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// CanSubmit reports whether the wizard is at its final step with that step
// valid. For standard accounts this collapses to step-1 validity.
func (d *Draft) CanSubmit() bool {
	return d.step == d.TotalSteps() && d.StepValid(d.step)
}
