// Package client is the HTTP client used by the mobile app. Reads fall back to
// the local offline mirror when the server cannot be reached.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/middleware"
	"stationery-catalog/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by writes when the server cannot be reached
var ErrUnavailable = errors.New("server unavailable")

// APIError is a structured error answered by the server
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
}

// Unwrap maps the server error kind back to the domain sentinel
func (e *APIError) Unwrap() error {
	switch e.Kind {
	case "NotFound":
		return domain.ErrNotFound
	case "Conflict":
		return domain.ErrConflict
	case "ReferenceNotFound":
		return domain.ErrReferenceNotFound
	case "InvalidCredentials":
		return domain.ErrInvalidCredentials
	case "ValidationError":
		return domain.ErrValidation
	default:
		return nil
	}
}

// Client talks to the catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mirror     *service.Catalog
	token      string
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithMirror serves reads from the offline mirror when the server is unreachable
func WithMirror(mirror *service.Catalog) Option {
	return func(c *Client) { c.mirror = mirror }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL, e.g. http://127.0.0.1:8080/api
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories lists categories
func (c *Client) Categories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := c.do(ctx, http.MethodGet, "/categories", nil, &categories)
	if isUnavailable(err) {
		c.logger.Warn("Serving categories from mirror", zap.Error(err))
		if c.mirror == nil {
			return []*domain.Category{}, nil
		}
		return c.mirror.Categories.List(ctx)
	}
	return categories, err
}

// Products lists products, optionally restricted to a category name
func (c *Client) Products(ctx context.Context, category string) ([]*domain.Product, error) {
	path := "/products"
	if category != "" {
		path += "?" + url.Values{"category": {category}}.Encode()
	}

	var products []*domain.Product
	err := c.do(ctx, http.MethodGet, path, nil, &products)
	if isUnavailable(err) {
		c.logger.Warn("Serving products from mirror", zap.Error(err))
		if c.mirror == nil {
			return []*domain.Product{}, nil
		}
		return c.mirror.Products.List(ctx, category)
	}
	return products, err
}

// Ads lists ads
func (c *Client) Ads(ctx context.Context) ([]*domain.Ad, error) {
	var ads []*domain.Ad
	err := c.do(ctx, http.MethodGet, "/ads", nil, &ads)
	if isUnavailable(err) {
		c.logger.Warn("Serving ads from mirror", zap.Error(err))
		if c.mirror == nil {
			return []*domain.Ad{}, nil
		}
		return c.mirror.Ads.List(ctx)
	}
	return ads, err
}

// Offers lists offers
func (c *Client) Offers(ctx context.Context) ([]*domain.Offer, error) {
	var offers []*domain.Offer
	err := c.do(ctx, http.MethodGet, "/offers", nil, &offers)
	if isUnavailable(err) {
		c.logger.Warn("Serving offers from mirror", zap.Error(err))
		if c.mirror == nil {
			return []*domain.Offer{}, nil
		}
		return c.mirror.Offers.List(ctx)
	}
	return offers, err
}

// Stats fetches the dashboard aggregates. Without a server or mirror every count is zero.
func (c *Client) Stats(ctx context.Context) (*domain.StatsSnapshot, error) {
	var stats domain.StatsSnapshot
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	if isUnavailable(err) {
		c.logger.Warn("Serving stats from mirror", zap.Error(err))
		if c.mirror == nil {
			return &domain.StatsSnapshot{ProductsPerCategory: []domain.CategoryProductCount{}}, nil
		}
		return c.mirror.Stats.Compute(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Login authenticates the admin and keeps the access token for later writes
func (c *Client) Login(ctx context.Context, username, password string) (*service.AuthResult, error) {
	var result service.AuthResult
	err := c.do(ctx, http.MethodPost, "/login", domain.LoginInput{Username: username, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// CreateProduct adds a product
func (c *Client) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateCategory adds a category
func (c *Client) CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error) {
	var category domain.Category
	if err := c.do(ctx, http.MethodPost, "/categories", input, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateAd adds an ad
func (c *Client) CreateAd(ctx context.Context, input domain.CreateAdInput) (*domain.Ad, error) {
	var ad domain.Ad
	if err := c.do(ctx, http.MethodPost, "/ads", input, &ad); err != nil {
		return nil, err
	}
	return &ad, nil
}

// DeleteAd removes an ad
func (c *Client) DeleteAd(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/ads/"+id.String(), nil, nil)
}

// CreateOffer adds an offer
func (c *Client) CreateOffer(ctx context.Context, input domain.CreateOfferInput) (*domain.Offer, error) {
	var offer domain.Offer
	if err := c.do(ctx, http.MethodPost, "/offers", input, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// DeleteOffer removes an offer
func (c *Client) DeleteOffer(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/offers/"+id.String(), nil, nil)
}

// RecordOrder records a completed sale
func (c *Client) RecordOrder(ctx context.Context, totalAmount float64, itemsCount int) (*domain.Order, error) {
	var order domain.Order
	input := domain.CreateOrderInput{TotalAmount: &totalAmount, ItemsCount: &itemsCount}
	if err := c.do(ctx, http.MethodPost, "/orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Kind: "Internal", Message: http.StatusText(resp.StatusCode)}

	var envelope middleware.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		if envelope.Error.Kind != "" {
			apiErr.Kind = envelope.Error.Kind
		}
		if envelope.Error.Message != "" {
			apiErr.Message = envelope.Error.Message
		}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", ErrUnavailable, apiErr)
	}
	return apiErr
}

func isUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
