package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
	"github.com/greenbook/greenbook-api/internal/pkg/metrics"
)

const (
	// DefaultMaxPage is the last page of the Trefle plant listing.
	DefaultMaxPage          = 24468
	defaultBatchSize        = 5
	defaultFetchConcurrency = 4
)

// IngestionConfig tunes random-page ingestion.
type IngestionConfig struct {
	MaxPage          int // pages are drawn from [1, MaxPage]
	BatchSize        int // plants added when the caller does not ask for a count
	FetchConcurrency int // parallel image downloads
}

// IngestionService fills the catalogue from random pages of the external API.
type IngestionService struct {
	catalog ports.CatalogClient
	plants  ports.PlantRepository
	images  ports.ImageStore
	audit   ports.IngestionAuditRepository
	cfg     IngestionConfig
	log     zerolog.Logger

	randPage func(maxPage int) int
	now      func() time.Time
}

// NewIngestionService wires the ingestion pipeline. audit may
// be nil, in which case runs are not recorded.
func NewIngestionService(
	catalog ports.CatalogClient,
	plants ports.PlantRepository,
	images ports.ImageStore,
	audit ports.IngestionAuditRepository,
	cfg IngestionConfig,
	log zerolog.Logger,
) *IngestionService {
	if cfg.MaxPage <= 0 {
		cfg.MaxPage = DefaultMaxPage
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchConcurrency
	}
	return &IngestionService{
		catalog:  catalog,
		plants:   plants,
		images:   images,
		audit:    audit,
		cfg:      cfg,
		log:      log,
		randPage: func(maxPage int) int { return rand.IntN(maxPage) + 1 },
		now:      time.Now,
	}
}

// IngestRandom fetches a random catalogue page and persists up to n entries
// that are not stored yet, preferring entries with an image. All new plants
// are committed as one batch.
func (s *IngestionService) IngestRandom(ctx context.Context, n int) (*ports.IngestionResult, error) {
	if n <= 0 {
		n = s.cfg.BatchSize
	}

	started := s.now()
	page := s.randPage(s.cfg.MaxPage)
	run := &domain.IngestionRun{Page: page, Requested: n, StartedAt: started.UTC()}

	created, err := s.ingest(ctx, page, n)

	run.Duration = s.now().Sub(started)
	metrics.IngestionDuration.Observe(run.Duration.Seconds())

	if err != nil {
		run.Error = err.Error()
		s.recordRun(ctx, run)
		return nil, s.classify(err, page)
	}

	for _, p := range created {
		if p.HasImage() {
			run.WithImage++
		}
		metrics.PlantsIngestedTotal.WithLabelValues(fmt.Sprint(p.HasImage())).Inc()
	}
	run.Added = len(created)
	metrics.IngestionRunsTotal.WithLabelValues("success").Inc()
	s.recordRun(ctx, run)

	s.log.Info().
		Int("page", page).
		Int("requested", n).
		Int("added", run.Added).
		Int("with_image", run.WithImage).
		Dur("duration", run.Duration).
		Msg("plants ingested")

	return &ports.IngestionResult{Page: page, Plants: created}, nil
}

func (s *IngestionService) CheckUpstream(ctx context.Context) error {
	return s.catalog.CheckToken(ctx)
}

// RecentRuns returns the latest audited runs; without an audit store the
// history is empty.
func (s *IngestionService) RecentRuns(ctx context.Context, limit int) ([]domain.IngestionRun, error) {
	if s.audit == nil {
		return []domain.IngestionRun{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	runs, err := s.audit.Recent(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent ingestion runs: %w", err)
	}
	return runs, nil
}

func (s *IngestionService) ingest(ctx context.Context, page, n int) ([]domain.Plant, error) {
	entries, err := s.catalog.FetchPage(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ExternalID)
	}
	existing, err := s.plants.ExistingExternalIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check existing plants: %w", err)
	}

	withImage, withoutImage := s.partition(entries, existing)
	selected := selectEntries(withImage, withoutImage, n)
	if len(selected) == 0 {
		return []domain.Plant{}, nil
	}

	paths := s.downloadImages(ctx, selected)

	batch := make([]domain.Plant, len(selected))
	for i, e := range selected {
		batch[i] = e.ToPlant(paths[i])
	}

	created, err := s.plants.CreateBatch(ctx, batch)
	if err != nil {
		s.discardImages(ctx, paths)
		return nil, fmt.Errorf("persist plants: %w", err)
	}
	return created, nil
}

// partition splits the page into new entries with and without an image URL,
// dropping entries that are already stored, repeated, or lack required fields.
func (s *IngestionService) partition(entries []domain.CatalogEntry, existing map[int64]struct{}) (withImage, withoutImage []domain.CatalogEntry) {
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if e.ExternalID <= 0 || e.ScientificName == "" || e.Slug == "" {
			s.log.Debug().Int64("external_id", e.ExternalID).Msg("skipping incomplete catalogue entry")
			continue
		}
		if _, ok := existing[e.ExternalID]; ok {
			continue
		}
		if _, ok := seen[e.ExternalID]; ok {
			continue
		}
		seen[e.ExternalID] = struct{}{}

		if e.HasImage() {
			withImage = append(withImage, e)
		} else {
			withoutImage = append(withoutImage, e)
		}
	}
	return withImage, withoutImage
}

// selectEntries takes up to n entries, exhausting withImage before falling
// back to withoutImage.
func selectEntries(withImage, withoutImage []domain.CatalogEntry, n int) []domain.CatalogEntry {
	selected := make([]domain.CatalogEntry, 0, n)
	for _, group := range [][]domain.CatalogEntry{withImage, withoutImage} {
		for _, e := range group {
			if len(selected) >= n {
				return selected
			}
			selected = append(selected, e)
		}
	}
	return selected
}

// downloadImages fetches the images of the entries that advertise one and
// returns the stored path per entry index. Failures leave the path empty.
func (s *IngestionService) downloadImages(ctx context.Context, entries []domain.CatalogEntry) []string {
	paths := make([]string, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for i, e := range entries {
		if !e.HasImage() {
			continue
		}
		g.Go(func() error {
			paths[i] = s.fetchImage(gctx, e)
			return nil
		})
	}
	_ = g.Wait()

	return paths
}

func (s *IngestionService) fetchImage(ctx context.Context, e domain.CatalogEntry) string {
	log := s.log.With().Int64("external_id", e.ExternalID).Str("image_url", e.ImageURL).Logger()

	img, err := s.catalog.FetchImage(ctx, e.ImageURL)
	if err != nil {
		metrics.ImageDownloadsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("image request failed")
		return ""
	}
	if img.StatusCode != http.StatusOK {
		metrics.ImageDownloadsTotal.WithLabelValues("bad_status").Inc()
		log.Warn().Int("status", img.StatusCode).Msg("image download failed")
		return ""
	}
	if !acceptableImageType(img.ContentType) {
		metrics.ImageDownloadsTotal.WithLabelValues("bad_content_type").Inc()
		log.Warn().Str("content_type", img.ContentType).Msg("unexpected image content type")
		return ""
	}

	path, err := s.images.Save(ctx, imageName(e.ExternalID), img.Data)
	if err != nil {
		metrics.ImageDownloadsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("failed to store image")
		return ""
	}

	metrics.ImageDownloadsTotal.WithLabelValues("stored").Inc()
	log.Debug().Str("path", path).Int("bytes", len(img.Data)).Msg("image stored")
	return path
}

// discardImages removes images stored for a batch that was not committed.
func (s *IngestionService) discardImages(ctx context.Context, paths []string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.images.Delete(ctx, p); err != nil {
			s.log.Warn().Err(err).Str("path", p).Msg("failed to discard image of uncommitted plant")
		}
	}
}

func (s *IngestionService) recordRun(ctx context.Context, run *domain.IngestionRun) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, run); err != nil {
		s.log.Warn().Err(err).Int("page", run.Page).Msg("failed to record ingestion run")
	}
}

// classify keeps the errors callers can act on and hides everything else
// behind domain.ErrIngestionFailed.
func (s *IngestionService) classify(err error, page int) error {
	switch {
	case errors.Is(err, domain.ErrUpstream):
		metrics.IngestionRunsTotal.WithLabelValues("upstream_error").Inc()
		s.log.Error().Err(err).Int("page", page).Msg("catalogue api returned an error")
		return err
	case errors.Is(err, domain.ErrPlantConflict):
		metrics.IngestionRunsTotal.WithLabelValues("conflict").Inc()
		s.log.Warn().Err(err).Int("page", page).Msg("concurrent ingestion stored the same plants")
		return err
	default:
		metrics.IngestionRunsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Int("page", page).Msg("ingestion failed")
		return domain.ErrIngestionFailed
	}
}

func acceptableImageType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "image") || strings.Contains(ct, "octet-stream")
}

func imageName(externalID int64) string {
	return fmt.Sprintf("%d.jpg", externalID)
}
