package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/pkg/logger"
)

var ErrUnauthorized = errors.New("sign in required")

// APIError is a non-2xx response from the storefront API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: status %d: %s", e.StatusCode, e.Message)
}

// ProductPage is one page of the catalogue listing
type ProductPage struct {
	Products      []domain.ProductWithFavoriteID `json:"products"`
	TotalProducts int64                          `json:"totalProducts"`
	PageSize      int                            `json:"pageSize"`
}

// StorefrontClient talks to the storefront HTTP API on behalf of one viewer
type StorefrontClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	timeout    time.Duration
	breaker    *CircuitBreaker
}

type Option func(*StorefrontClient)

func WithHTTPClient(c *http.Client) Option {
	return func(s *StorefrontClient) {
		s.httpClient = c
	}
}

// WithToken sends the viewer's session token as a bearer token
func WithToken(token string) Option {
	return func(s *StorefrontClient) {
		s.token = token
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *StorefrontClient) {
		s.timeout = d
	}
}

// WithCircuitBreaker replaces the default breaker. nil disables it.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(s *StorefrontClient) {
		s.breaker = cb
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *StorefrontClient {
	c := &StorefrontClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout: 5 * time.Second,
		breaker: NewCircuitBreaker(5, 30*time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListProducts fetches one page of the catalogue
func (c *StorefrontClient) ListProducts(ctx context.Context, page, pageSize int, search string) (*ProductPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	if search != "" {
		params.Set("search", search)
	}

	var result ProductPage
	if err := c.do(ctx, http.MethodGet, "/api/products?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if result.Products == nil {
		result.Products = []domain.ProductWithFavoriteID{}
	}
	return &result, nil
}

// FetchPage adapts ListProducts for the infinite scroll pager
func (c *StorefrontClient) FetchPage(ctx context.Context, page, pageSize int, search string) ([]domain.ProductWithFavoriteID, int64, error) {
	result, err := c.ListProducts(ctx, page, pageSize, search)
	if err != nil {
		return nil, 0, err
	}
	return result.Products, result.TotalProducts, nil
}

// ToggleFavorite flips the viewer's favorite and returns the new favorite id, nil when removed
func (c *StorefrontClient) ToggleFavorite(ctx context.Context, productID string) (*string, error) {
	if c.token == "" {
		return nil, ErrUnauthorized
	}

	var result struct {
		Message    string  `json:"message"`
		FavoriteID *string `json:"favoriteId"`
	}
	path := "/api/products/" + url.PathEscape(productID) + "/favorite"
	if err := c.do(ctx, http.MethodPost, path, &result); err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	logger.Debug(ctx).
		Str("product_id", productID).
		Str("message", result.Message).
		Msg("Favorite toggled")

	return result.FavoriteID, nil
}

func (c *StorefrontClient) do(ctx context.Context, method, path string, out any) error {
	return c.breaker.CallContext(ctx, func() error {
		return c.send(ctx, method, path, out)
	}, isServerFailure)
}

// isServerFailure reports errors that mean the API itself is unhealthy
func isServerFailure(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, ErrUnauthorized)
}

func (c *StorefrontClient) send(ctx context.Context, method, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func errorMessage(body io.Reader) string {
	var envelope struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	return strings.TrimSpace(string(raw))
}
