package models

// JournalEntry is the only soft-deleted entity. Deleted is written by the
// lifecycle policy alone and is never part of an update.
type JournalEntry struct {
	Ownership
	Date          Date      `json:"date"`
	Time          Clock     `json:"time"`
	Content       string    `json:"content"`
	Mood          Mood      `json:"mood"`
	Tags          Tags      `json:"tags,omitempty"`
	Context       string    `json:"context,omitempty"`
	LifePhaseName string    `json:"lifePhaseName,omitempty"`
	Deleted       bool      `json:"deleted"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

func (j *JournalEntry) Validate() error {
	if err := required("content", j.Content); err != nil {
		return err
	}
	if err := requiredMood(j.Mood); err != nil {
		return err
	}
	return j.Tags.validate()
}

func (j *JournalEntry) MutableFields() []string {
	return []string{"content", "mood", "tags", "context", "lifePhaseName", "updatedAt"}
}

// IsDeleted reports the soft-delete flag.
func (j *JournalEntry) IsDeleted() bool { return j.Deleted }
