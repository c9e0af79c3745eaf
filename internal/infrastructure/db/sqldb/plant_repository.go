package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// PlantRepository implements ports.PlantRepository.
type PlantRepository struct {
	db *gorm.DB
}

func NewPlantRepository(db *gorm.DB) *PlantRepository {
	return &PlantRepository{db: db}
}

func (r *PlantRepository) List(ctx context.Context, offset, limit int) ([]domain.Plant, error) {
	var recs []plantRecord
	err := r.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plantsToDomain(recs), nil
}

func (r *PlantRepository) ListAll(ctx context.Context) ([]domain.Plant, error) {
	var recs []plantRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plantsToDomain(recs), nil
}

func (r *PlantRepository) FindByID(ctx context.Context, id int64) (*domain.Plant, error) {
	var rec plantRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPlantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find plant: %w", err)
	}
	p := rec.toDomain()
	return &p, nil
}

func (r *PlantRepository) ExistingExternalIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var found []int64
	err := r.db.WithContext(ctx).Model(&plantRecord{}).
		Where("external_id IN ?", ids).
		Pluck("external_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lookup external ids: %w", err)
	}
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}

// CreateBatch inserts every plant in one transaction; either all rows are
// committed or none.
func (r *PlantRepository) CreateBatch(ctx context.Context, plants []domain.Plant) ([]domain.Plant, error) {
	if len(plants) == 0 {
		return []domain.Plant{}, nil
	}

	recs := make([]plantRecord, len(plants))
	for i := range plants {
		recs[i] = newPlantRecord(&plants[i])
		recs[i].ID = 0
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert plants: %w", domain.ErrPlantConflict)
		}
		return nil, fmt.Errorf("insert plants: %w", err)
	}
	return plantsToDomain(recs), nil
}

func (r *PlantRepository) Update(ctx context.Context, plant *domain.Plant) error {
	rec := newPlantRecord(plant)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// MySQL reports changed rather than matched rows, so existence is
		// checked explicitly.
		var existing plantRecord
		if err := tx.Select("id").First(&existing, plant.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPlantNotFound
			}
			return fmt.Errorf("find plant: %w", err)
		}

		err := tx.Model(&plantRecord{ID: plant.ID}).Select("*").Omit("id").Updates(&rec).Error
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("update plant: %w", domain.ErrPlantConflict)
			}
			return fmt.Errorf("update plant: %w", err)
		}
		return nil
	})
}

func (r *PlantRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id = ?", id).Delete(&favoriteRecord{}).Error; err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		res := tx.Delete(&plantRecord{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete plant: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrPlantNotFound
		}
		return nil
	})
}

func (r *PlantRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id IN ?", ids).Delete(&favoriteRecord{}).Error; err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		res := tx.Where("id IN ?", ids).Delete(&plantRecord{})
		if res.Error != nil {
			return fmt.Errorf("delete plants: %w", res.Error)
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}
