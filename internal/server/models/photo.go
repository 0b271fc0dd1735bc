package models

// Photo is the metadata of an uploaded image. ImageURL, StorageKey and
// DateUploaded are assigned by the server.
type Photo struct {
	Ownership
	ImageURL       string    `json:"imageUrl"`
	StorageKey     string    `json:"storageKey"`
	ContentType    string    `json:"contentType,omitempty"`
	DateUploaded   Timestamp `json:"dateUploaded"`
	Location       string    `json:"location,omitempty"`
	Mood           Mood      `json:"mood,omitempty"`
	Tags           Tags      `json:"tags,omitempty"`
	Story          string    `json:"story,omitempty"`
	TechnicalNotes string    `json:"technicalNotes,omitempty"`
	LifePhaseName  string    `json:"lifePhaseName,omitempty"`
}

func (p *Photo) Validate() error {
	if err := optionalMood(p.Mood); err != nil {
		return err
	}
	return p.Tags.validate()
}
