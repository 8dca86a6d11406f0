package transport

import (
	"errors"
	"net/http"

	"catalog-sync/internal/identifier"
	"catalog-sync/internal/middleware"
	"catalog-sync/internal/repository"
	"catalog-sync/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest is the full product shape; the id is
// server-assigned and never accepted from the caller. CategoryIDs is a
// pointer so that an absent field fails validation while an explicit
// empty list passes.
type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required"`
	About       string    `json:"about" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	CategoryIDs *[]string `json:"categoryIds" validate:"required"`
}

// PatchProductRequest is the partial product shape: every field is
// optional, absence encoded as nil rather than inspected dynamically.
type PatchProductRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1"`
	About       *string   `json:"about" validate:"omitempty,min=1"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	CategoryIDs *[]string `json:"categoryIds"`
}

// IsEmpty reports whether the patch carries no fields
func (r PatchProductRequest) IsEmpty() bool {
	return r.Name == nil && r.About == nil && r.Price == nil && r.CategoryIDs == nil
}

// CreateCategoryRequest is the full category shape
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// DeleteResponse confirms a deletion
type DeleteResponse struct {
	Message string `json:"message"`
	ID      string `json:"_id"`
}

// CatalogHandler handles HTTP requests for catalog operations
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes. Mutating routes go
// through the rate limiter; live is the websocket subscription
// endpoint and must be registered before the {id} wildcard.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, live http.Handler, rateLimit func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/live", live.ServeHTTP)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			if rateLimit != nil {
				r.Use(rateLimit)
			}
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.ReplaceProduct)
			r.Patch("/{id}", h.PatchProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			if rateLimit != nil {
				r.Use(rateLimit)
			}
			r.Post("/", h.CreateCategory)
		})
	})
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), service.ProductInput{
		Name:        req.Name,
		About:       req.About,
		Price:       req.Price,
		CategoryIDs: *req.CategoryIDs,
	})
	if err != nil {
		h.respondError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListProducts handles GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ReplaceProduct handles PUT /products/{id}
func (h *CatalogHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Replace product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.ReplaceProduct(r.Context(), chi.URLParam(r, "id"), service.ProductInput{
		Name:        req.Name,
		About:       req.About,
		Price:       req.Price,
		CategoryIDs: *req.CategoryIDs,
	})
	if err != nil {
		h.respondError(w, err, "failed to replace product")
		return
	}

	h.logger.Info("Product replaced", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// PatchProduct handles PATCH /products/{id}
func (h *CatalogHandler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	var req PatchProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Patch product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IsEmpty() {
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "body", Message: "at least one field must be provided"},
		})
		return
	}

	product, err := h.catalog.PatchProduct(r.Context(), chi.URLParam(r, "id"), service.ProductPatchInput{
		Name:        req.Name,
		About:       req.About,
		Price:       req.Price,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		h.respondError(w, err, "failed to patch product")
		return
	}

	h.logger.Info("Product patched", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		h.respondError(w, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, DeleteResponse{
		Message: "product deleted",
		ID:      id,
	})
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create category validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.respondError(w, err, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// respondError maps orchestrator errors onto the HTTP taxonomy:
// malformed identifiers and empty patches are client faults, missing
// documents are 404, anything else is a server fault surfaced as-is.
func (h *CatalogHandler) respondError(w http.ResponseWriter, err error, logMsg string) {
	var invalidID *identifier.InvalidIdentifierError

	switch {
	case errors.As(err, &invalidID):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: invalidID.Field, Message: "must be a valid 24 character hex identifier"},
		})
	case errors.Is(err, service.ErrEmptyPatch):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: "body", Message: "at least one field must be provided"},
		})
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
