package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

type FavoriteService struct {
	favorites ports.FavoriteRepository
	plants    ports.PlantRepository
	logger    zerolog.Logger
}

func NewFavoriteService(favorites ports.FavoriteRepository, plants ports.PlantRepository, logger zerolog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, plants: plants, logger: logger}
}

// Add links the plant to the user. The plant must exist and must not be a
// favourite already.
func (s *FavoriteService) Add(ctx context.Context, userID, plantID int64) error {
	if _, err := s.plants.FindByID(ctx, plantID); err != nil {
		return err
	}

	exists, err := s.favorites.Exists(ctx, userID, plantID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return domain.ErrFavoriteExists
	}

	if err := s.favorites.Add(ctx, domain.Favorite{UserID: userID, PlantID: plantID}); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Int64("plant_id", plantID).Msg("favorite added")
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, plantID int64) error {
	if err := s.favorites.Remove(ctx, userID, plantID); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Int64("plant_id", plantID).Msg("favorite removed")
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID int64) ([]domain.FavoritePlant, error) {
	plants, err := s.favorites.ListPlants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := make([]domain.FavoritePlant, 0, len(plants))
	for _, p := range plants {
		out = append(out, domain.NewFavoritePlant(p))
	}
	return out, nil
}
