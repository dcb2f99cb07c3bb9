package transport

import (
	"net/http"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/middleware"
	"stationery-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler serves the catalog API
type Handler struct {
	catalog *service.Catalog
	logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(catalog *service.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers every /api route. protect wraps mutating routes and
// loginGuard wraps the login route; either may be nil.
func (h *Handler) RegisterRoutes(r chi.Router, protect, loginGuard func(http.Handler) http.Handler) {
	if protect == nil {
		protect = passthrough
	}
	if loginGuard == nil {
		loginGuard = passthrough
	}

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Get("/products", h.ListProducts)
		r.Get("/categories", h.ListCategories)
		r.Get("/ads", h.ListAds)
		r.Get("/offers", h.ListOffers)
		r.Get("/stats", h.Stats)
		r.Post("/orders", h.RecordOrder)
		r.With(loginGuard).Post("/login", h.Login)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(protect, h.audit)

			r.Post("/products", h.CreateProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Post("/ads", h.CreateAd)
			r.Put("/ads/{id}", h.UpdateAd)
			r.Delete("/ads/{id}", h.DeleteAd)

			r.Post("/offers", h.CreateOffer)
			r.Put("/offers/{id}", h.UpdateOffer)
			r.Delete("/offers/{id}", h.DeleteOffer)

			r.Get("/orders", h.ListOrders)
		})
	})
}

func passthrough(next http.Handler) http.Handler { return next }

// audit records every admin mutation with the acting admin when the request
// carries one.
func (h *Handler) audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		}
		if admin, ok := middleware.GetAdminUsername(r.Context()); ok {
			fields = append(fields, zap.String("admin", admin))
		}
		h.logger.Info("Admin request", fields...)
		next.ServeHTTP(w, r)
	})
}

// pathID parses the {id} URL parameter. A malformed id can never match a row,
// so it is reported with the given not-found error.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, notFound error) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Debug("Malformed id", zap.String("id", chi.URLParam(r, "id")))
		middleware.RespondWithDomainError(w, h.logger, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads the JSON body into v, answering 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeJSON(r, v); err != nil {
		h.logger.Debug("Request body rejected", zap.String("path", r.URL.Path), zap.Error(err))
		middleware.RespondWithDomainError(w, h.logger, err)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if domain.Kind(err) != "Internal" {
		h.logger.Debug("Request rejected",
			zap.String("path", r.URL.Path),
			zap.String("kind", domain.Kind(err)),
			zap.Error(err),
		)
	}
	middleware.RespondWithDomainError(w, h.logger, err)
}
