package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/api/middleware"
	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	loginFn      func(ctx context.Context, username, password string) (*ports.AuthResult, error)
	createUserFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	listUsersFn  func(ctx context.Context) ([]domain.UserWithFavorites, error)
	deleteUserFn func(ctx context.Context, id int64) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) CreateUser(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.createUserFn(ctx, username, password, role)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]domain.UserWithFavorites, error) {
	return s.listUsersFn(ctx)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, id int64) error {
	return s.deleteUserFn(ctx, id)
}

type stubTokens struct {
	revoked []*ports.Claims
}

func (s *stubTokens) Issue(int64, string) (string, error) { return "", nil }

func (s *stubTokens) Validate(context.Context, string) (*ports.Claims, error) { return nil, nil }

func (s *stubTokens) CurrentSubject(context.Context, string) (*domain.User, *ports.Claims, error) {
	return nil, nil, domain.ErrUnauthorized
}

func (s *stubTokens) Revoke(_ context.Context, claims *ports.Claims) error {
	s.revoked = append(s.revoked, claims)
	return nil
}

type stubPlantService struct {
	listFn      func(ctx context.Context, offset, limit int) ([]domain.Plant, error)
	updateFn    func(ctx context.Context, id int64, patch domain.PlantPatch) (*domain.Plant, error)
	deleteFn    func(ctx context.Context, id int64) error
	deleteAllFn func(ctx context.Context) (int64, error)
	openImageFn func(ctx context.Context, name string) (io.ReadCloser, error)
}

func (s *stubPlantService) List(ctx context.Context, offset, limit int) ([]domain.Plant, error) {
	return s.listFn(ctx, offset, limit)
}

func (s *stubPlantService) Update(ctx context.Context, id int64, patch domain.PlantPatch) (*domain.Plant, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubPlantService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubPlantService) DeleteAll(ctx context.Context) (int64, error) {
	return s.deleteAllFn(ctx)
}

func (s *stubPlantService) OpenImage(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.openImageFn(ctx, name)
}

type stubIngestion struct {
	ingestFn func(ctx context.Context, n int) (*ports.IngestionResult, error)
	checkErr error
	runsFn   func(ctx context.Context, limit int) ([]domain.IngestionRun, error)
}

func (s *stubIngestion) IngestRandom(ctx context.Context, n int) (*ports.IngestionResult, error) {
	return s.ingestFn(ctx, n)
}

func (s *stubIngestion) CheckUpstream(context.Context) error { return s.checkErr }

func (s *stubIngestion) RecentRuns(ctx context.Context, limit int) ([]domain.IngestionRun, error) {
	return s.runsFn(ctx, limit)
}

type stubFavoriteService struct {
	addFn    func(ctx context.Context, userID, plantID int64) error
	removeFn func(ctx context.Context, userID, plantID int64) error
	listFn   func(ctx context.Context, userID int64) ([]domain.FavoritePlant, error)
}

func (s *stubFavoriteService) Add(ctx context.Context, userID, plantID int64) error {
	return s.addFn(ctx, userID, plantID)
}

func (s *stubFavoriteService) Remove(ctx context.Context, userID, plantID int64) error {
	return s.removeFn(ctx, userID, plantID)
}

func (s *stubFavoriteService) List(ctx context.Context, userID int64) ([]domain.FavoritePlant, error) {
	return s.listFn(ctx, userID)
}

// newContext builds an echo context for target with an optional body.
func newContext(method, target, body, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withUser stores user in the context the way the Auth middleware does.
func withUser(c echo.Context, user *domain.User) {
	c.Set(middleware.UserKey, user)
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}
