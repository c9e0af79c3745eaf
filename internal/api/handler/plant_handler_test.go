package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/greenbook/greenbook-api/internal/core/domain"
	"github.com/greenbook/greenbook-api/internal/core/ports"
)

func TestPlantHandler_List(t *testing.T) {
	stub := &stubPlantService{
		listFn: func(ctx context.Context, offset, limit int) ([]domain.Plant, error) {
			if offset != 20 || limit != 500 {
				t.Fatalf("unexpected paging: %d %d", offset, limit)
			}
			return []domain.Plant{{ID: 21, ExternalID: 77116, ScientificName: "Quercus rotundifolia", ImagePath: "image/77116.jpg"}}, nil
		},
	}
	handler := NewPlantHandler(stub, &stubIngestion{})

	c, rec := newContext(http.MethodGet, "/api/plants?offset=20&limit=500", "", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []plantResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != 21 || resp[0].ImageURL != "image/77116.jpg" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPlantHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubPlantService{
		listFn: func(context.Context, int, int) ([]domain.Plant, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/api/plants", "", "")
	if err := NewPlantHandler(stub, &stubIngestion{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestPlantHandler_List_BadQuery(t *testing.T) {
	handler := NewPlantHandler(&stubPlantService{}, &stubIngestion{})
	for _, q := range []string{"offset=-1", "limit=abc"} {
		c, _ := newContext(http.MethodGet, "/api/plants?"+q, "", "")
		expectHTTPError(t, handler.List(c), http.StatusBadRequest)
	}
}

func TestPlantHandler_Random(t *testing.T) {
	ingest := &stubIngestion{
		ingestFn: func(ctx context.Context, n int) (*ports.IngestionResult, error) {
			if n != 3 {
				t.Fatalf("expected count 3, got %d", n)
			}
			return &ports.IngestionResult{Page: 812, Plants: []domain.Plant{{ID: 1}, {ID: 2}}}, nil
		},
	}
	handler := NewPlantHandler(&stubPlantService{}, ingest)

	c, rec := newContext(http.MethodGet, "/api/random_plants?count=3", "", "")
	if err := handler.Random(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp randomPlantsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Page != 812 || len(resp.Plants) != 2 || resp.Message == "" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPlantHandler_Random_Errors(t *testing.T) {
	ingest := &stubIngestion{
		ingestFn: func(context.Context, int) (*ports.IngestionResult, error) {
			return nil, domain.ErrPlantConflict
		},
	}
	handler := NewPlantHandler(&stubPlantService{}, ingest)

	c, _ := newContext(http.MethodGet, "/api/random_plants", "", "")
	if err := handler.Random(c); !errors.Is(err, domain.ErrPlantConflict) {
		t.Fatalf("expected ErrPlantConflict, got %v", err)
	}

	c, _ = newContext(http.MethodGet, "/api/random_plants?count=1000", "", "")
	expectHTTPError(t, handler.Random(c), http.StatusBadRequest)
}

func TestPlantHandler_Update(t *testing.T) {
	stub := &stubPlantService{
		updateFn: func(ctx context.Context, id int64, patch domain.PlantPatch) (*domain.Plant, error) {
			if id != 5 {
				t.Fatalf("unexpected id %d", id)
			}
			if patch.CommonName == nil || *patch.CommonName != "Holm oak" {
				t.Fatalf("common_name not patched: %+v", patch)
			}
			if patch.Year == nil || *patch.Year != 1790 {
				t.Fatalf("year not patched: %+v", patch)
			}
			if patch.Family != nil || patch.Slug != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.Plant{ID: id}, nil
		},
	}
	handler := NewPlantHandler(stub, &stubIngestion{})

	c, rec := newContext(http.MethodPut, "/api/plants/5", `{"common_name":"Holm oak","year":1790}`, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPlantHandler_Update_Validation(t *testing.T) {
	stub := &stubPlantService{
		updateFn: func(context.Context, int64, domain.PlantPatch) (*domain.Plant, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewPlantHandler(stub, &stubIngestion{})

	tests := []struct {
		id   string
		body string
	}{
		{"abc", `{}`},
		{"0", `{}`},
		{"5", `{"scientific_name":""}`},
		{"5", `{"year":-4}`},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodPut, "/api/plants/"+tt.id, tt.body, echo.MIMEApplicationJSON)
		c.SetParamNames("id")
		c.SetParamValues(tt.id)
		expectHTTPError(t, handler.Update(c), http.StatusBadRequest)
	}
}

func TestPlantHandler_Delete(t *testing.T) {
	stub := &stubPlantService{
		deleteFn: func(ctx context.Context, id int64) error {
			if id == 404 {
				return domain.ErrPlantNotFound
			}
			return nil
		},
		deleteAllFn: func(context.Context) (int64, error) { return 7, nil },
	}
	handler := NewPlantHandler(stub, &stubIngestion{})

	c, rec := newContext(http.MethodDelete, "/api/plants/3", "", "")
	c.SetParamNames("id")
	c.SetParamValues("3")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodDelete, "/api/plants/404", "", "")
	c.SetParamNames("id")
	c.SetParamValues("404")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}

	c, rec = newContext(http.MethodDelete, "/api/plants", "", "")
	if err := handler.DeleteAll(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "7 plants") {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestPlantHandler_Image(t *testing.T) {
	stub := &stubPlantService{
		openImageFn: func(ctx context.Context, name string) (io.ReadCloser, error) {
			if name != "77116.jpg" {
				return nil, domain.ErrImageNotFound
			}
			return io.NopCloser(strings.NewReader("jpeg-bytes")), nil
		},
	}
	handler := NewPlantHandler(stub, &stubIngestion{})

	c, rec := newContext(http.MethodGet, "/api/image/77116.jpg", "", "")
	c.SetParamNames("name")
	c.SetParamValues("77116.jpg")
	if err := handler.Image(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderContentType) != "image/jpeg" {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}
	if rec.Body.String() != "jpeg-bytes" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	c, _ = newContext(http.MethodGet, "/api/image/missing.jpg", "", "")
	c.SetParamNames("name")
	c.SetParamValues("missing.jpg")
	if err := handler.Image(c); !errors.Is(err, domain.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestPlantHandler_CheckToken(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/check_token", "", "")
	if err := NewPlantHandler(&stubPlantService{}, &stubIngestion{}).CheckToken(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rejected := &stubIngestion{checkErr: fmt.Errorf("%w: status 401", domain.ErrUpstream)}
	c, _ = newContext(http.MethodGet, "/api/check_token", "", "")
	expectHTTPError(t, NewPlantHandler(&stubPlantService{}, rejected).CheckToken(c), http.StatusBadRequest)

	broken := &stubIngestion{checkErr: errors.New("dial tcp: timeout")}
	c, _ = newContext(http.MethodGet, "/api/check_token", "", "")
	if err := NewPlantHandler(&stubPlantService{}, broken).CheckToken(c); err == nil {
		t.Fatalf("expected transport error")
	}
}
