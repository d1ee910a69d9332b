package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/service"
	"catalog-service/internal/store"
)

// MockProductService is a mock implementation of the ProductService contract.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, page, pageSize *int, search *string, sort []store.SortKey) service.PagedResult[service.ProductData] {
	args := m.Called(ctx, page, pageSize, search, sort)
	return args.Get(0).(service.PagedResult[service.ProductData])
}

func (m *MockProductService) GetByIDOrName(ctx context.Context, token string) service.TypedResult[service.ProductData] {
	args := m.Called(ctx, token)
	return args.Get(0).(service.TypedResult[service.ProductData])
}

func (m *MockProductService) Create(ctx context.Context, input service.ProductInput) service.TypedResult[service.ProductData] {
	args := m.Called(ctx, input)
	return args.Get(0).(service.TypedResult[service.ProductData])
}

func (m *MockProductService) Update(ctx context.Context, token string, input service.ProductInput) service.TypedResult[service.ProductData] {
	args := m.Called(ctx, token, input)
	return args.Get(0).(service.TypedResult[service.ProductData])
}

func (m *MockProductService) Delete(ctx context.Context, id uuid.UUID) service.Result {
	args := m.Called(ctx, id)
	return args.Get(0).(service.Result)
}

func setupTestServer(t *testing.T, products ProductService) *httptest.Server {
	t.Helper()
	handler := NewHTTPHandler(products, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return httptest.NewServer(router)
}

func sampleData(name string) service.ProductData {
	return service.ProductData{
		ID:            uuid.New(),
		Name:          name,
		Price:         decimal.RequireFromString("10.00"),
		StockQuantity: 100,
	}
}

func TestListProducts_DefaultsAndClamping(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantPageSize: 10},
		{name: "page below one clamps to one", query: "?page=0&pageSize=5", wantPage: 1, wantPageSize: 5},
		{name: "pageSize above max clamps to max", query: "?page=2&pageSize=150", wantPage: 2, wantPageSize: 100},
		{name: "pageSize below one clamps to one", query: "?pageSize=-3", wantPage: 1, wantPageSize: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockProductService)
			server := setupTestServer(t, mockSvc)
			defer server.Close()

			mockSvc.On("List", mock.Anything,
				mock.MatchedBy(func(p *int) bool { return p != nil && *p == tt.wantPage }),
				mock.MatchedBy(func(p *int) bool { return p != nil && *p == tt.wantPageSize }),
				(*string)(nil), []store.SortKey(nil),
			).Return(service.OKPage([]service.ProductData{}, 0, tt.wantPage, tt.wantPageSize)).Once()

			res, err := http.Get(server.URL + "/api/v1/products" + tt.query)
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, http.StatusOK, res.StatusCode)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestListProducts_TruncatesSearchAndParsesSort(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	longSearch := strings.Repeat("a", 80)
	wantSearch := strings.Repeat("a", 50)
	wantSort := []store.SortKey{
		{Field: "name", Direction: store.SortAscending},
		{Field: "price", Direction: store.SortDescending},
	}

	mockSvc.On("List", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(s *string) bool { return s != nil && *s == wantSearch }),
		wantSort,
	).Return(service.OKPage([]service.ProductData{}, 0, 1, 10)).Once()

	res, err := http.Get(server.URL + "/api/v1/products?search=" + longSearch + "&sortBy=name:asc,price:desc")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestListProducts_TruncatesSearchOnRuneBoundary(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	longSearch := strings.Repeat("a", 49) + "çç"
	wantSearch := strings.Repeat("a", 49) + "ç"

	mockSvc.On("List", mock.Anything, mock.Anything, mock.Anything,
		mock.MatchedBy(func(s *string) bool {
			return s != nil && *s == wantSearch && utf8.ValidString(*s)
		}),
		[]store.SortKey(nil),
	).Return(service.OKPage([]service.ProductData{}, 0, 1, 10)).Once()

	res, err := http.Get(server.URL + "/api/v1/products?search=" + url.QueryEscape(longSearch))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestGetProduct_MapsStatusToHTTPCode(t *testing.T) {
	tests := []struct {
		name     string
		result   service.TypedResult[service.ProductData]
		wantCode int
	}{
		{name: "found", result: service.OK(sampleData("Produto 1")), wantCode: http.StatusOK},
		{name: "not found", result: service.Fail[service.ProductData]("product not found", service.StatusNotFound), wantCode: http.StatusNotFound},
		{name: "unexpected", result: service.Fail[service.ProductData]("operation failed", service.StatusUnexpectedError), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockProductService)
			server := setupTestServer(t, mockSvc)
			defer server.Close()

			mockSvc.On("GetByIDOrName", mock.Anything, "Produto 1").Return(tt.result).Once()

			res, err := http.Get(server.URL + "/api/v1/products/Produto 1")
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, tt.wantCode, res.StatusCode)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestGetProduct_OmitsMessageAndDataAppropriately(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	mockSvc.On("GetByIDOrName", mock.Anything, "missing").
		Return(service.Fail[service.ProductData]("product not found", service.StatusNotFound)).Once()

	res, err := http.Get(server.URL + "/api/v1/products/missing")
	require.NoError(t, err)
	defer res.Body.Close()

	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Contains(t, body, "message")
	assert.NotContains(t, body, "data")
	assert.JSONEq(t, `"NotFound"`, string(body["statusCode"]))
}

func TestCreateProduct_ReturnsCreatedOnSuccess(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	data := sampleData("Produto Novo")
	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.ProductInput) bool {
		return in.Name == "Produto Novo" && in.StockQuantity == 100
	})).Return(service.OK(data)).Once()

	payload := `{"name":"Produto Novo","price":"10.00","stockQuantity":100}`
	res, err := http.Post(server.URL+"/api/v1/products", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)

	var envelope service.TypedResult[service.ProductData]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, data.ID, envelope.Data.ID)
	mockSvc.AssertExpectations(t)
}

func TestCreateProduct_ValidationFailureIsBadRequest(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(service.Fail[service.ProductData]("name is required", service.StatusError)).Once()

	payload := `{"name":"","price":"10.00","stockQuantity":1}`
	res, err := http.Post(server.URL+"/api/v1/products", "application/json", bytes.NewBufferString(payload))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestCreateProduct_InvalidJSONDoesNotReachService(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	res, err := http.Post(server.URL+"/api/v1/products", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProduct_PassesTokenThrough(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	data := sampleData("Produto Atualizado")
	mockSvc.On("Update", mock.Anything, "Produto 1", mock.Anything).Return(service.OK(data)).Once()

	payload := `{"name":"Produto Atualizado","price":"15.00","stockQuantity":5}`
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/products/Produto 1", bytes.NewBufferString(payload))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestDeleteProduct_SuccessIsNoContent(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(service.OKResult()).Once()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/products/"+id.String(), nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestDeleteProduct_InvalidIDDoesNotReachService(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/products/not-a-uuid", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	mockSvc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteProduct_MissingIsNotFound(t *testing.T) {
	mockSvc := new(MockProductService)
	server := setupTestServer(t, mockSvc)
	defer server.Close()

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).
		Return(service.FailResult("product not found", service.StatusNotFound)).Once()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/v1/products/"+id.String(), nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	mockSvc.AssertExpectations(t)
}
