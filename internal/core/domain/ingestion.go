package domain

import "time"

// CatalogEntry is a plant record as reported by the external catalogue.
type CatalogEntry struct {
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
	ImageURL       string
	PlantLink      string
	GenusLink      string
	SelfLink       string
}

// HasImage reports whether the catalogue advertises an image for the entry.
func (e CatalogEntry) HasImage() bool {
	return e.ImageURL != ""
}

// ToPlant converts the entry into a new catalogue record with imagePath as
// its stored image. Missing descriptive fields become UnknownText and a
// missing common name falls back to the scientific name.
func (e CatalogEntry) ToPlant(imagePath string) Plant {
	common := e.CommonName
	if common == "" {
		common = e.ScientificName
	}
	return Plant{
		ExternalID:     e.ExternalID,
		ScientificName: e.ScientificName,
		CommonName:     common,
		Family:         orUnknown(e.Family),
		Genus:          orUnknown(e.Genus),
		Rank:           orUnknown(e.Rank),
		Author:         orUnknown(e.Author),
		Bibliography:   orUnknown(e.Bibliography),
		Year:           e.Year,
		Slug:           e.Slug,
		Status:         orUnknown(e.Status),
		ImagePath:      imagePath,
		PlantLink:      e.PlantLink,
		GenusLink:      e.GenusLink,
		SelfLink:       e.SelfLink,
	}
}

// IngestionRun is the audit record of a single random-page ingestion.
type IngestionRun struct {
	Page      int
	Requested int
	Added     int
	WithImage int
	StartedAt time.Time
	Duration  time.Duration
	Error     string // empty on success
}
