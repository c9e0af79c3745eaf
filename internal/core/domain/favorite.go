package domain

import "errors"

var (
	ErrFavoriteExists   = errors.New("plant is already in favorites")
	ErrFavoriteNotFound = errors.New("plant is not in favorites")
)

// Favorite links a user to a catalogue entry.
type Favorite struct {
	UserID  int64
	PlantID int64
}

// FavoritePlant is the display view of a favourite plant. Missing text
// fields are replaced with UnknownText and a missing year with 0.
type FavoritePlant struct {
	ID             int64
	ScientificName string
	CommonName     string
	Family         string
	Genus          string
	Rank           string
	Author         string
	Bibliography   string
	Year           int
	ImagePath      string
}

// NewFavoritePlant builds the display view of p.
func NewFavoritePlant(p Plant) FavoritePlant {
	return FavoritePlant{
		ID:             p.ID,
		ScientificName: orUnknown(p.ScientificName),
		CommonName:     orUnknown(p.CommonName),
		Family:         orUnknown(p.Family),
		Genus:          orUnknown(p.Genus),
		Rank:           orUnknown(p.Rank),
		Author:         orUnknown(p.Author),
		Bibliography:   orUnknown(p.Bibliography),
		Year:           p.Year,
		ImagePath:      p.ImagePath,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownText
	}
	return s
}
