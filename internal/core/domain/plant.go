package domain

import "errors"

// UnknownText substitutes missing descriptive fields of a plant.
const UnknownText = "Unknown"

var (
	ErrPlantNotFound   = errors.New("plant not found")
	ErrPlantConflict   = errors.New("plant with the same external id or slug already exists")
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidImage    = errors.New("image_url must be empty or name the plant's own image")
	ErrUpstream        = errors.New("catalog api error")
	ErrIngestionFailed = errors.New("failed to ingest random plants")
)

// Plant is a catalogue entry sourced from the external botanical database.
type Plant struct {
	ID             int64
	ExternalID     int64
	ScientificName string
	CommonName     string
	Family         string
	Genus          string
	Rank           string
	Author         string
	Bibliography   string
	Year           int
	Slug           string
	Status         string
	// ImagePath is the stored image location, empty when the plant has no image.
	ImagePath string
	PlantLink string
	GenusLink string
	SelfLink  string
}

// HasImage reports whether an image was stored for the plant.
func (p *Plant) HasImage() bool {
	return p.ImagePath != ""
}

// PlantPatch carries a partial update; nil fields are left untouched.
type PlantPatch struct {
	ScientificName *string
	CommonName     *string
	Family         *string
	Genus          *string
	Rank           *string
	Author         *string
	Year           *int
	Slug           *string
	Status         *string
	ImagePath      *string
}

// Empty reports whether the patch changes nothing.
func (p PlantPatch) Empty() bool {
	return p.ScientificName == nil && p.CommonName == nil && p.Family == nil &&
		p.Genus == nil && p.Rank == nil && p.Author == nil && p.Year == nil &&
		p.Slug == nil && p.Status == nil && p.ImagePath == nil
}

// Apply copies the provided fields onto plant.
func (p PlantPatch) Apply(plant *Plant) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&plant.ScientificName, p.ScientificName)
	set(&plant.CommonName, p.CommonName)
	set(&plant.Family, p.Family)
	set(&plant.Genus, p.Genus)
	set(&plant.Rank, p.Rank)
	set(&plant.Author, p.Author)
	set(&plant.Slug, p.Slug)
	set(&plant.Status, p.Status)
	set(&plant.ImagePath, p.ImagePath)
	if p.Year != nil {
		plant.Year = *p.Year
	}
}
