package handler

import (
	"github.com/greenbook/greenbook-api/internal/core/domain"
)

// --- Request → domain ---

func toPlantPatch(req updatePlantRequest) domain.PlantPatch {
	return domain.PlantPatch{
		ScientificName: req.ScientificName,
		CommonName:     req.CommonName,
		Family:         req.Family,
		Genus:          req.Genus,
		Rank:           req.Rank,
		Author:         req.Author,
		Year:           req.Year,
		Slug:           req.Slug,
		Status:         req.Status,
		ImagePath:      req.ImageURL,
	}
}

// --- Domain → HTTP response ---

func toPlantResponse(p domain.Plant) plantResponse {
	return plantResponse{
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

func toPlantResponses(plants []domain.Plant) []plantResponse {
	out := make([]plantResponse, 0, len(plants))
	for _, p := range plants {
		out = append(out, toPlantResponse(p))
	}
	return out
}

func toFavoriteResponses(plants []domain.FavoritePlant) []favoritePlantResponse {
	out := make([]favoritePlantResponse, 0, len(plants))
	for _, p := range plants {
		out = append(out, favoritePlantResponse{
			ID:             p.ID,
			ScientificName: p.ScientificName,
			CommonName:     p.CommonName,
			Family:         p.Family,
			Genus:          p.Genus,
			Rank:           p.Rank,
			Author:         p.Author,
			Bibliography:   p.Bibliography,
			Year:           p.Year,
			ImageURL:       p.ImagePath,
		})
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

func toAdminUserResponses(users []domain.UserWithFavorites) []adminUserResponse {
	out := make([]adminUserResponse, 0, len(users))
	for _, u := range users {
		favs := u.FavoritePlantIDs
		if favs == nil {
			favs = []int64{}
		}
		out = append(out, adminUserResponse{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role,
			Favorites: favs,
		})
	}
	return out
}

func toRunResponses(runs []domain.IngestionRun) []ingestionRunResponse {
	out := make([]ingestionRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, ingestionRunResponse{
			Page:       r.Page,
			Requested:  r.Requested,
			Added:      r.Added,
			WithImage:  r.WithImage,
			StartedAt:  r.StartedAt.UTC(),
			DurationMs: r.Duration.Milliseconds(),
			Error:      r.Error,
		})
	}
	return out
}
