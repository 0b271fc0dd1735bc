package models

type Mood string

const (
	MoodVeryHappy Mood = "VERY_HAPPY"
	MoodHappy     Mood = "HAPPY"
	MoodNeutral   Mood = "NEUTRAL"
	MoodSad       Mood = "SAD"
	MoodVerySad   Mood = "VERY_SAD"
	MoodStressed  Mood = "STRESSED"
	MoodCalm      Mood = "CALM"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodVeryHappy, MoodHappy, MoodNeutral, MoodSad, MoodVerySad, MoodStressed, MoodCalm:
		return true
	}
	return false
}

type PlaceType string

const (
	PlaceRestaurant PlaceType = "RESTAURANT"
	PlaceCafe       PlaceType = "CAFE"
	PlaceBar        PlaceType = "BAR"
	PlacePark       PlaceType = "PARK"
	PlaceMuseum     PlaceType = "MUSEUM"
	PlaceBeach      PlaceType = "BEACH"
	PlaceCity       PlaceType = "CITY"
	PlaceLandmark   PlaceType = "LANDMARK"
	PlaceOther      PlaceType = "OTHER"
)

func (t PlaceType) Valid() bool {
	switch t {
	case PlaceRestaurant, PlaceCafe, PlaceBar, PlacePark, PlaceMuseum, PlaceBeach, PlaceCity, PlaceLandmark, PlaceOther:
		return true
	}
	return false
}

type PlaceStatus string

const (
	PlaceVisited     PlaceStatus = "VISITED"
	PlaceWantToVisit PlaceStatus = "WANT_TO_VISIT"
	PlaceFavorite    PlaceStatus = "FAVORITE"
)

func (s PlaceStatus) Valid() bool {
	switch s {
	case PlaceVisited, PlaceWantToVisit, PlaceFavorite:
		return true
	}
	return false
}

type TasteType string

const (
	TasteFood  TasteType = "FOOD"
	TasteDrink TasteType = "DRINK"
	TasteBook  TasteType = "BOOK"
	TasteMovie TasteType = "MOVIE"
	TasteShow  TasteType = "SHOW"
	TasteMusic TasteType = "MUSIC"
	TasteGame  TasteType = "GAME"
	TasteOther TasteType = "OTHER"
)

func (t TasteType) Valid() bool {
	switch t {
	case TasteFood, TasteDrink, TasteBook, TasteMovie, TasteShow, TasteMusic, TasteGame, TasteOther:
		return true
	}
	return false
}

// optionalMood accepts an empty mood.
func optionalMood(m Mood) error {
	if m != "" && !m.Valid() {
		return invalid("unknown mood %q", m)
	}
	return nil
}

func requiredMood(m Mood) error {
	if m == "" {
		return invalid("mood is required")
	}
	return optionalMood(m)
}
