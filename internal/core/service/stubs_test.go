package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	favs   map[int64][]int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), favs: make(map[int64][]int64)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListWithFavorites(_ context.Context) ([]domain.UserWithFavorites, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.UserWithFavorites, 0, len(r.users))
	for id, u := range r.users {
		out = append(out, domain.UserWithFavorites{User: *u, FavoritePlantIDs: append([]int64{}, r.favs[id]...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.favs, id)
	return nil
}

type stubPlantRepo struct {
	mu        sync.Mutex
	nextID    int64
	plants    map[int64]*domain.Plant
	createErr error // if set, CreateBatch returns this error
	lastLimit int
	// afterListAll runs once ListAll has taken its snapshot.
	afterListAll func()
}

func newStubPlantRepo() *stubPlantRepo {
	return &stubPlantRepo{plants: make(map[int64]*domain.Plant)}
}

func (r *stubPlantRepo) sorted() []domain.Plant {
	out := make([]domain.Plant, 0, len(r.plants))
	for _, p := range r.plants {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubPlantRepo) List(_ context.Context, offset, limit int) ([]domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	all := r.sorted()
	if offset >= len(all) {
		return []domain.Plant{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *stubPlantRepo) ListAll(_ context.Context) ([]domain.Plant, error) {
	r.mu.Lock()
	all := r.sorted()
	hook := r.afterListAll
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return all, nil
}

func (r *stubPlantRepo) FindByID(_ context.Context, id int64) (*domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plants[id]
	if !ok {
		return nil, domain.ErrPlantNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPlantRepo) ExistingExternalIDs(_ context.Context, ids []int64) (map[int64]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int64]struct{})
	for _, p := range r.plants {
		for _, id := range ids {
			if p.ExternalID == id {
				out[id] = struct{}{}
			}
		}
	}
	return out, nil
}

func (r *stubPlantRepo) CreateBatch(_ context.Context, plants []domain.Plant) ([]domain.Plant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, np := range plants {
		for _, p := range r.plants {
			if p.ExternalID == np.ExternalID || p.Slug == np.Slug {
				return nil, domain.ErrPlantConflict
			}
		}
	}
	out := make([]domain.Plant, len(plants))
	for i, p := range plants {
		r.nextID++
		p.ID = r.nextID
		stored := p
		r.plants[p.ID] = &stored
		out[i] = p
	}
	return out, nil
}

func (r *stubPlantRepo) Update(_ context.Context, plant *domain.Plant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plants[plant.ID]; !ok {
		return domain.ErrPlantNotFound
	}
	clone := *plant
	r.plants[plant.ID] = &clone
	return nil
}

func (r *stubPlantRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plants[id]; !ok {
		return domain.ErrPlantNotFound
	}
	delete(r.plants, id)
	return nil
}

func (r *stubPlantRepo) DeleteByIDs(_ context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.plants[id]; ok {
			delete(r.plants, id)
			n++
		}
	}
	return n, nil
}

type stubFavoriteRepo struct {
	links  map[domain.Favorite]struct{}
	plants *stubPlantRepo
}

func newStubFavoriteRepo(plants *stubPlantRepo) *stubFavoriteRepo {
	return &stubFavoriteRepo{links: make(map[domain.Favorite]struct{}), plants: plants}
}

func (r *stubFavoriteRepo) Exists(_ context.Context, userID, plantID int64) (bool, error) {
	_, ok := r.links[domain.Favorite{UserID: userID, PlantID: plantID}]
	return ok, nil
}

func (r *stubFavoriteRepo) Add(_ context.Context, fav domain.Favorite) error {
	if _, ok := r.links[fav]; ok {
		return domain.ErrFavoriteExists
	}
	r.links[fav] = struct{}{}
	return nil
}

func (r *stubFavoriteRepo) Remove(_ context.Context, userID, plantID int64) error {
	key := domain.Favorite{UserID: userID, PlantID: plantID}
	if _, ok := r.links[key]; !ok {
		return domain.ErrFavoriteNotFound
	}
	delete(r.links, key)
	return nil
}

func (r *stubFavoriteRepo) ListPlants(ctx context.Context, userID int64) ([]domain.Plant, error) {
	all, _ := r.plants.ListAll(ctx)
	var out []domain.Plant
	for _, p := range all {
		if _, ok := r.links[domain.Favorite{UserID: userID, PlantID: p.ID}]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Image store, catalogue client, audit and revocation stubs
// ---------------------------------------------------------------------------

type stubImageStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{files: make(map[string][]byte)}
}

func (s *stubImageStore) Save(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "image/" + name
	s.files[path] = append([]byte{}, data...)
	return path, nil
}

func (s *stubImageStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files["image/"+name]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *stubImageStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return domain.ErrImageNotFound
	}
	delete(s.files, path)
	return nil
}

func (s *stubImageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type stubCatalog struct {
	mu       sync.Mutex
	entries  []domain.CatalogEntry
	pageErr  error
	images   map[string]*ports.FetchedImage
	tokenErr error
	pages    []int
}

func (c *stubCatalog) FetchPage(_ context.Context, page int) ([]domain.CatalogEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = append(c.pages, page)
	if c.pageErr != nil {
		return nil, c.pageErr
	}
	return append([]domain.CatalogEntry{}, c.entries...), nil
}

func (c *stubCatalog) FetchImage(_ context.Context, url string) (*ports.FetchedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[url]; ok {
		return img, nil
	}
	if strings.HasPrefix(url, "broken://") {
		return nil, errors.New("connection reset")
	}
	return &ports.FetchedImage{StatusCode: 200, ContentType: "image/jpeg", Data: []byte("jpeg:" + url)}, nil
}

func (c *stubCatalog) CheckToken(_ context.Context) error {
	return c.tokenErr
}

type stubAudit struct {
	mu   sync.Mutex
	runs []domain.IngestionRun
	err  error
}

func (a *stubAudit) Record(_ context.Context, run *domain.IngestionRun) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runs = append(a.runs, *run)
	return a.err
}

func (a *stubAudit) Recent(_ context.Context, limit int64) ([]domain.IngestionRun, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []domain.IngestionRun
	for i := len(a.runs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, a.runs[i])
	}
	return out, nil
}

type stubRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.revoked[tokenID] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}
