package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"catalog-service/internal/service"
	"catalog-service/internal/store"
)

// Boundary limits applied before the service is called.
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
	maxSearchLength = 50
)

// ProductService is the contract the handlers require from the service layer.
type ProductService interface {
	List(ctx context.Context, page, pageSize *int, search *string, sort []store.SortKey) service.PagedResult[service.ProductData]
	GetByIDOrName(ctx context.Context, token string) service.TypedResult[service.ProductData]
	Create(ctx context.Context, input service.ProductInput) service.TypedResult[service.ProductData]
	Update(ctx context.Context, token string, input service.ProductInput) service.TypedResult[service.ProductData]
	Delete(ctx context.Context, id uuid.UUID) service.Result
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	products ProductService
	logger   *slog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(products ProductService, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{products: products, logger: logger}
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error("failed to encode JSON response", slog.Any("error", err))
		}
	}
}

// respondWithResult maps the envelope's status classification onto the HTTP
// status code before writing it.
func (h *HTTPHandler) respondWithResult(w http.ResponseWriter, code int, result interface{ HTTPStatus() int }) {
	if code == 0 {
		code = result.HTTPStatus()
	}
	h.respondWithJSON(w, code, result)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	qParams := r.URL.Query()

	page := defaultPage
	if v, err := strconv.Atoi(qParams.Get("page")); err == nil && v >= 1 {
		page = v
	}

	pageSize := defaultPageSize
	if v, err := strconv.Atoi(qParams.Get("pageSize")); err == nil {
		pageSize = v
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var search *string
	if s := qParams.Get("search"); s != "" {
		// Truncation counts runes; cutting mid-rune would send invalid
		// UTF-8 to the database.
		if runes := []rune(s); len(runes) > maxSearchLength {
			s = string(runes[:maxSearchLength])
		}
		search = &s
	}

	sort := ParseSortBy(qParams.Get("sortBy"))

	result := h.products.List(r.Context(), &page, &pageSize, search, sort)
	h.respondWithResult(w, 0, result)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "idOrName")
	result := h.products.GetByIDOrName(r.Context(), token)
	h.respondWithResult(w, 0, result)
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithJSON(w, http.StatusBadRequest,
			service.FailResult("invalid request payload", service.StatusError))
		return
	}
	defer r.Body.Close()

	result := h.products.Create(r.Context(), input)
	code := result.StatusCode.HTTPStatus()
	if result.Success {
		code = http.StatusCreated
	}
	h.respondWithResult(w, code, result)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "idOrName")

	var input service.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithJSON(w, http.StatusBadRequest,
			service.FailResult("invalid request payload", service.StatusError))
		return
	}
	defer r.Body.Close()

	result := h.products.Update(r.Context(), token, input)
	h.respondWithResult(w, 0, result)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	// Delete resolves by id only; there is no name fallback.
	id, err := uuid.Parse(chi.URLParam(r, "idOrName"))
	if err != nil {
		h.respondWithJSON(w, http.StatusBadRequest,
			service.FailResult("invalid product id", service.StatusError))
		return
	}

	result := h.products.Delete(r.Context(), id)
	if result.Success {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.respondWithResult(w, 0, result)
}

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", h.CreateProduct)
		r.Get("/", h.ListProducts)
		r.Route("/{idOrName}", func(r chi.Router) {
			r.Get("/", h.GetProduct)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})
}
