package models

import "unicode/utf8"

const MaxShortTextLen = 200

// MicroMemory is a short, timestamped note. It has no update operation.
type MicroMemory struct {
	Ownership
	Timestamp     Timestamp `json:"timestamp"`
	ShortText     string    `json:"shortText"`
	Mood          Mood      `json:"mood"`
	Tags          Tags      `json:"tags,omitempty"`
	LifePhaseName string    `json:"lifePhaseName,omitempty"`
}

func (m *MicroMemory) Validate() error {
	if err := required("shortText", m.ShortText); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(m.ShortText); n > MaxShortTextLen {
		return invalid("shortText must not exceed %d characters, got %d", MaxShortTextLen, n)
	}
	if err := requiredMood(m.Mood); err != nil {
		return err
	}
	return m.Tags.validate()
}
