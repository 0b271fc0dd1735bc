package models

const (
	MinRating = 1
	MaxRating = 5
)

type Taste struct {
	Ownership
	Type          TasteType `json:"type"`
	Title         string    `json:"title"`
	DateConsumed  Date      `json:"dateConsumed,omitempty"`
	PersonalNote  string    `json:"personalNote,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	Mood          Mood      `json:"mood,omitempty"`
	Tags          Tags      `json:"tags,omitempty"`
	LifePhaseName string    `json:"lifePhaseName,omitempty"`
}

func (t *Taste) Validate() error {
	if !t.Type.Valid() {
		return invalid("unknown taste type %q", t.Type)
	}
	if err := required("title", t.Title); err != nil {
		return err
	}
	if t.Rating != nil && (*t.Rating < MinRating || *t.Rating > MaxRating) {
		return invalid("rating must be within [%d, %d], got %d", MinRating, MaxRating, *t.Rating)
	}
	if err := t.DateConsumed.validate("dateConsumed"); err != nil {
		return err
	}
	if err := optionalMood(t.Mood); err != nil {
		return err
	}
	return t.Tags.validate()
}

func (t *Taste) MutableFields() []string {
	return []string{"type", "title", "dateConsumed", "personalNote", "rating", "mood", "tags", "lifePhaseName"}
}
