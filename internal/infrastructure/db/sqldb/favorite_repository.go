package sqldb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// FavoriteRepository implements ports.FavoriteRepository.
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, plantID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&favoriteRecord{}).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("count favorites: %w", err)
	}
	return n > 0, nil
}

func (r *FavoriteRepository) Add(ctx context.Context, fav domain.Favorite) error {
	rec := favoriteRecord{UserID: fav.UserID, PlantID: fav.PlantID}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrFavoriteExists
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, plantID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND plant_id = ?", userID, plantID).
		Delete(&favoriteRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete favorite: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListPlants(ctx context.Context, userID int64) ([]domain.Plant, error) {
	var recs []plantRecord
	err := r.db.WithContext(ctx).
		Model(&plantRecord{}).
		Select("plants.*").
		Joins("JOIN favorites ON favorites.plant_id = plants.id").
		Where("favorites.user_id = ?", userID).
		Order("plants.id").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite plants: %w", err)
	}
	return plantsToDomain(recs), nil
}
