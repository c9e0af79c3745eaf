package trefle

import "github.com/greenbook/greenbook-api/internal/core/domain"

// plantsResponse is the envelope of GET /plants.
type plantsResponse struct {
	Data  []plantData `json:"data"`
	Links pageLinks   `json:"links"`
	Meta  struct {
		Total int `json:"total"`
	} `json:"meta"`
}

type pageLinks struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Next  string `json:"next"`
	Last  string `json:"last"`
}

// plantData mirrors a Trefle plant list item. Nullable fields are pointers
// or rely on the zero value.
type plantData struct {
	ID             int64  `json:"id"`
	CommonName     string `json:"common_name"`
	Slug           string `json:"slug"`
	ScientificName string `json:"scientific_name"`
	Year           *int   `json:"year"`
	Bibliography   string `json:"bibliography"`
	Author         string `json:"author"`
	Status         string `json:"status"`
	Rank           string `json:"rank"`
	Family         string `json:"family"`
	Genus          string `json:"genus"`
	ImageURL       string `json:"image_url"`
	Links          struct {
		Self  string `json:"self"`
		Plant string `json:"plant"`
		Genus string `json:"genus"`
	} `json:"links"`
}

func (p plantData) toEntry() domain.CatalogEntry {
	year := 0
	if p.Year != nil {
		year = *p.Year
	}
	return domain.CatalogEntry{
		ExternalID:     p.ID,
		ScientificName: p.ScientificName,
		CommonName:     p.CommonName,
		Family:         p.Family,
		Genus:          p.Genus,
		Rank:           p.Rank,
		Author:         p.Author,
		Bibliography:   p.Bibliography,
		Year:           year,
		Slug:           p.Slug,
		Status:         p.Status,
		ImageURL:       p.ImageURL,
		PlantLink:      p.Links.Plant,
		GenusLink:      p.Links.Genus,
		SelfLink:       p.Links.Self,
	}
}
