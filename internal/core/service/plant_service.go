package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// PlantService implements catalogue browsing and maintenance.
type PlantService struct {
	repo   ports.PlantRepository
	images ports.ImageStore
	logger zerolog.Logger
}

func NewPlantService(repo ports.PlantRepository, images ports.ImageStore, logger zerolog.Logger) *PlantService {
	return &PlantService{repo: repo, images: images, logger: logger}
}

// List returns plants ordered by ID. limit defaults to 10 and is capped at 100.
func (s *PlantService) List(ctx context.Context, offset, limit int) ([]domain.Plant, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *PlantService) Update(ctx context.Context, id int64, patch domain.PlantPatch) (*domain.Plant, error) {
	plant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return plant, nil
	}
	if patch.ImagePath != nil && !ownsImage(plant, *patch.ImagePath) {
		return nil, domain.ErrInvalidImage
	}

	previous := *plant
	patch.Apply(plant)
	if err := s.repo.Update(ctx, plant); err != nil {
		return nil, err
	}
	if previous.HasImage() && !plant.HasImage() {
		s.removeImage(ctx, &previous)
	}

	s.logger.Info().Int64("plant_id", id).Msg("plant updated")
	return plant, nil
}

func (s *PlantService) Delete(ctx context.Context, id int64) error {
	plant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.removeImage(ctx, plant)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("plant_id", id).Msg("plant deleted")
	return nil
}

// DeleteAll removes the plants present when it starts. Rows are deleted by
// id, so plants stored by a concurrent ingestion keep both row and image.
func (s *PlantService) DeleteAll(ctx context.Context) (int64, error) {
	plants, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list plants: %w", err)
	}
	ids := make([]int64, len(plants))
	for i := range plants {
		s.removeImage(ctx, &plants[i])
		ids[i] = plants[i].ID
	}

	n, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("count", n).Msg("all plants deleted")
	return n, nil
}

// OpenImage returns the stored image called name. Path components are
// stripped so only files inside the store can be served.
func (s *PlantService) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	base := filepath.Base(name)
	if base == "." || base == "/" || base == ".." {
		return nil, domain.ErrImageNotFound
	}
	return s.images.Open(ctx, base)
}

// ownsImage reports whether p is empty or refers to plant's own image file.
// Stores resolve images by base name, so any other name could reach the file
// of a different plant.
func ownsImage(plant *domain.Plant, p string) bool {
	if p == "" {
		return true
	}
	return path.Base(filepath.ToSlash(p)) == imageName(plant.ExternalID)
}

func (s *PlantService) removeImage(ctx context.Context, plant *domain.Plant) {
	if !plant.HasImage() {
		return
	}
	err := s.images.Delete(ctx, plant.ImagePath)
	switch {
	case err == nil:
		s.logger.Debug().Int64("plant_id", plant.ID).Str("path", plant.ImagePath).Msg("image removed")
	case errors.Is(err, domain.ErrImageNotFound):
		s.logger.Warn().Int64("plant_id", plant.ID).Str("path", plant.ImagePath).Msg("image file not found")
	default:
		s.logger.Error().Err(err).Int64("plant_id", plant.ID).Str("path", plant.ImagePath).Msg("failed to remove image")
	}
}
