package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbook/greenbook-api/internal/core/domain"
)

func TestFavoriteService_AddTwice(t *testing.T) {
	plants := newStubPlantRepo()
	svc := NewFavoriteService(newStubFavoriteRepo(plants), plants, zerolog.Nop())
	p := seedPlants(t, plants, nil, 1, false)[0]
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, 1, p.ID))
	assert.ErrorIs(t, svc.Add(ctx, 1, p.ID), domain.ErrFavoriteExists)

	// a different user may favourite the same plant
	assert.NoError(t, svc.Add(ctx, 2, p.ID))
}

func TestFavoriteService_AddUnknownPlant(t *testing.T) {
	plants := newStubPlantRepo()
	svc := NewFavoriteService(newStubFavoriteRepo(plants), plants, zerolog.Nop())

	assert.ErrorIs(t, svc.Add(context.Background(), 1, 404), domain.ErrPlantNotFound)
}

func TestFavoriteService_Remove(t *testing.T) {
	plants := newStubPlantRepo()
	svc := NewFavoriteService(newStubFavoriteRepo(plants), plants, zerolog.Nop())
	p := seedPlants(t, plants, nil, 1, false)[0]
	ctx := context.Background()

	assert.ErrorIs(t, svc.Remove(ctx, 1, p.ID), domain.ErrFavoriteNotFound)

	require.NoError(t, svc.Add(ctx, 1, p.ID))
	require.NoError(t, svc.Remove(ctx, 1, p.ID))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavoriteService_ListFillsUnknown(t *testing.T) {
	plants := newStubPlantRepo()
	svc := NewFavoriteService(newStubFavoriteRepo(plants), plants, zerolog.Nop())
	ctx := context.Background()

	created, err := plants.CreateBatch(ctx, []domain.Plant{
		{ExternalID: 1, ScientificName: "Abies alba", Slug: "abies-alba", Year: 1768, ImagePath: "image/1.jpg"},
		{ExternalID: 2, ScientificName: "Betula pendula", CommonName: "Silver birch", Slug: "betula-pendula"},
	})
	require.NoError(t, err)
	for _, p := range created {
		require.NoError(t, svc.Add(ctx, 7, p.ID))
	}

	list, err := svc.List(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Abies alba", list[0].ScientificName)
	assert.Equal(t, domain.UnknownText, list[0].CommonName)
	assert.Equal(t, domain.UnknownText, list[0].Bibliography)
	assert.Equal(t, 1768, list[0].Year)
	assert.Equal(t, "image/1.jpg", list[0].ImagePath)

	assert.Equal(t, "Silver birch", list[1].CommonName)
	assert.Equal(t, 0, list[1].Year)
	assert.Empty(t, list[1].ImagePath)

	other, err := svc.List(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, other)
}
