package models

// LifePhase is a named span of time. Other entities refer to it by Name
// only, so renaming or deleting a phase leaves those references dangling.
type LifePhase struct {
	Ownership
	Name        string `json:"name"`
	StartDate   Date   `json:"startDate"`
	EndDate     Date   `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
	Mood        Mood   `json:"mood,omitempty"`
	Tags        Tags   `json:"tags,omitempty"`
}

func (l *LifePhase) Validate() error {
	if err := required("name", l.Name); err != nil {
		return err
	}
	if l.StartDate == "" {
		return invalid("startDate is required")
	}
	if err := l.StartDate.validate("startDate"); err != nil {
		return err
	}
	if err := l.EndDate.validate("endDate"); err != nil {
		return err
	}
	// Fixed-width dates compare correctly as strings.
	if l.EndDate != "" && l.EndDate < l.StartDate {
		return invalid("endDate must not be before startDate")
	}
	if err := optionalMood(l.Mood); err != nil {
		return err
	}
	return l.Tags.validate()
}

func (l *LifePhase) MutableFields() []string {
	return []string{"name", "startDate", "endDate", "description", "mood", "tags"}
}
