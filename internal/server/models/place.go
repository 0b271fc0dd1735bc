package models

type Place struct {
	Ownership
	Name           string      `json:"name"`
	Type           PlaceType   `json:"type"`
	Status         PlaceStatus `json:"status"`
	Latitude       *float64    `json:"latitude"`
	Longitude      *float64    `json:"longitude"`
	DateVisited    Date        `json:"dateVisited,omitempty"`
	ExperienceNote string      `json:"experienceNote,omitempty"`
	Mood           Mood        `json:"mood,omitempty"`
	Tags           Tags        `json:"tags,omitempty"`
	LifePhaseName  string      `json:"lifePhaseName,omitempty"`
}

func (p *Place) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if !p.Type.Valid() {
		return invalid("unknown place type %q", p.Type)
	}
	if !p.Status.Valid() {
		return invalid("unknown place status %q", p.Status)
	}
	if p.Latitude == nil {
		return invalid("latitude is required")
	}
	if *p.Latitude < -90 || *p.Latitude > 90 {
		return invalid("latitude must be within [-90, 90]")
	}
	if p.Longitude == nil {
		return invalid("longitude is required")
	}
	if *p.Longitude < -180 || *p.Longitude > 180 {
		return invalid("longitude must be within [-180, 180]")
	}
	if err := p.DateVisited.validate("dateVisited"); err != nil {
		return err
	}
	if err := optionalMood(p.Mood); err != nil {
		return err
	}
	return p.Tags.validate()
}

func (p *Place) MutableFields() []string {
	return []string{"name", "type", "status", "latitude", "longitude", "dateVisited",
		"experienceNote", "mood", "tags", "lifePhaseName"}
}
