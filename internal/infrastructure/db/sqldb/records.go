package sqldb

import (
	"time"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

type userRecord struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

type plantRecord struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	ExternalID     int64  `gorm:"column:external_id;not null;uniqueIndex"`
	ScientificName string `gorm:"size:255;not null"`
	CommonName     string `gorm:"size:255"`
	Family         string `gorm:"size:255"`
	Genus          string `gorm:"size:255"`
	Rank           string `gorm:"size:64"`
	Author         string `gorm:"size:255"`
	Bibliography   string `gorm:"type:text"`
	Year           int
	Slug           string `gorm:"size:255;not null;uniqueIndex"`
	Status         string `gorm:"size:64"`
	ImageURL       string `gorm:"column:image_url;size:512"`
	PlantLink      string `gorm:"size:512"`
	GenusLink      string `gorm:"size:512"`
	SelfLink       string `gorm:"size:512"`
}

func (plantRecord) TableName() string { return "plants" }

func newPlantRecord(p *domain.Plant) plantRecord {
	return plantRecord{
		ID:             p.ID,
		ExternalID:     p.ExternalID,
		ScientificName: p.ScientificName,
		CommonName:     p.CommonName,
		Family:         p.Family,
		Genus:          p.Genus,
		Rank:           p.Rank,
		Author:         p.Author,
		Bibliography:   p.Bibliography,
		Year:           p.Year,
		Slug:           p.Slug,
		Status:         p.Status,
		ImageURL:       p.ImagePath,
		PlantLink:      p.PlantLink,
		GenusLink:      p.GenusLink,
		SelfLink:       p.SelfLink,
	}
}

func (r plantRecord) toDomain() domain.Plant {
	return domain.Plant{
		ID:             r.ID,
		ExternalID:     r.ExternalID,
		ScientificName: r.ScientificName,
		CommonName:     r.CommonName,
		Family:         r.Family,
		Genus:          r.Genus,
		Rank:           r.Rank,
		Author:         r.Author,
		Bibliography:   r.Bibliography,
		Year:           r.Year,
		Slug:           r.Slug,
		Status:         r.Status,
		ImagePath:      r.ImageURL,
		PlantLink:      r.PlantLink,
		GenusLink:      r.GenusLink,
		SelfLink:       r.SelfLink,
	}
}

func plantsToDomain(recs []plantRecord) []domain.Plant {
	out := make([]domain.Plant, len(recs))
	for i, r := range recs {
		out[i] = r.toDomain()
	}
	return out
}

// favoriteRecord links a user to a plant; the pair is the primary key.
type favoriteRecord struct {
	UserID  int64 `gorm:"primaryKey;autoIncrement:false"`
	PlantID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (favoriteRecord) TableName() string { return "favorites" }
