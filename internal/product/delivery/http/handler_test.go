package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tair/reclaimed-storefront/internal/product/domain"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/command"
	"github.com/tair/reclaimed-storefront/internal/product/usecase/query"
	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/internal/testutil"
	"github.com/tair/reclaimed-storefront/pkg/auth"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
)

const (
	testSecret = "handler-secret"
	adminID    = "user_admin"
)

type testServer struct {
	db     *gorm.DB
	router *mux.Router
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	db := testutil.SetupTestDB(t)

	products := repository.NewGormProductRepository(db)
	favorites := repository.NewGormFavoriteRepository(db)
	images, err := storage.NewImageResolver("https://abc.storage.example.co/", "main-bucket")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	authenticator, err := middleware.NewAuthenticator(testSecret, adminID)
	require.NoError(t, err)
	h := NewProductHandler(
		command.NewCreateProductHandler(products, nil),
		command.NewUpdateProductHandler(products, nil, nil),
		command.NewDeleteProductHandler(products, nil, nil),
		command.NewToggleFavoriteHandler(favorites, nil),
		query.NewListProductsHandler(products, favorites, images, nil),
		query.NewListFeaturedHandler(products, favorites, images, nil, 0),
		query.NewGetProductHandler(products, favorites, images),
		query.NewListFavoritesHandler(favorites, images),
		query.NewListAdminProductsHandler(products, images),
		products,
		authenticator,
		nil,
		reg,
	)

	reviews := repository.NewGormReviewRepository(db)
	reviewHandler := NewReviewHandler(
		command.NewCreateReviewHandler(reviews),
		command.NewDeleteReviewHandler(reviews),
		query.NewListProductReviewsHandler(reviews),
		query.NewListViewerReviewsHandler(reviews, images),
		query.NewFindExistingReviewHandler(reviews),
		query.NewGetProductRatingHandler(reviews),
		authenticator,
		reg,
	)

	carts := repository.NewGormCartRepository(db)
	cartHandler := NewCartHandler(
		command.NewAddToCartHandler(carts),
		query.NewGetCartHandler(carts, images),
		query.NewCountCartItemsHandler(carts),
		authenticator,
		reg,
	)

	router := mux.NewRouter()
	h.RegisterRoutes(router)
	reviewHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)
	return testServer{db: db, router: router}
}

func (s testServer) do(t *testing.T, method, target, viewerID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if viewerID != "" {
		token, err := auth.GenerateToken(auth.Viewer{ID: viewerID, Name: "Viewer " + viewerID}, testSecret, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type listBody struct {
	Products      []map[string]any `json:"products"`
	TotalProducts int64            `json:"totalProducts"`
	PageSize      int              `json:"pageSize"`
}

func TestListProductsShape(t *testing.T) {
	s := newTestServer(t)
	created := testutil.CreateTestProducts(s.db, 3)
	fav := testutil.CreateTestFavorite(s.db, "user_1", created[2].ID)

	rec := s.do(t, http.MethodGet, "/api/products?page=1&pageSize=2", "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Len(t, raw, 3)
	assert.Contains(t, raw, "products")
	assert.Contains(t, raw, "totalProducts")
	assert.Contains(t, raw, "pageSize")

	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.TotalProducts)
	assert.Equal(t, 2, body.PageSize)
	require.Len(t, body.Products, 2)
	assert.Equal(t, fav.ID, body.Products[0]["favoriteId"])
	assert.Contains(t, body.Products[1], "favoriteId")
	assert.Nil(t, body.Products[1]["favoriteId"])
	assert.Equal(t, "/images/door.jpg", body.Products[0]["imageUrl"])
}

func TestListProductsQueryDefaults(t *testing.T) {
	s := newTestServer(t)
	testutil.CreateTestProducts(s.db, 2)

	tests := []struct {
		name     string
		target   string
		wantSize int
		wantLen  int
	}{
		{"no params", "/api/products", 12, 2},
		{"garbage page", "/api/products?page=abc&pageSize=xyz", 12, 2},
		{"negative", "/api/products?page=-1&pageSize=0", 12, 2},
		{"past the end", "/api/products?page=5", 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.target, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var body listBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantSize, body.PageSize)
			assert.Len(t, body.Products, tt.wantLen)
			assert.NotNil(t, body.Products)
		})
	}
}

func TestListProductsInvalidTokenIsAnonymous(t *testing.T) {
	s := newTestServer(t)
	p := testutil.CreateTestProduct(s.db)
	testutil.CreateTestFavorite(s.db, "user_1", p.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body listBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	assert.Nil(t, body.Products[0]["favoriteId"])
}

func TestToggleFavoriteEndpoint(t *testing.T) {
	s := newTestServer(t)
	p := testutil.CreateTestProduct(s.db)
	target := "/api/products/" + p.ID + "/favorite"

	rec := s.do(t, http.MethodPost, target, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var added map[string]any
	rec = s.do(t, http.MethodPost, target, "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, command.MessageFavoriteAdded, added["message"])
	assert.NotEmpty(t, added["favoriteId"])

	var removed map[string]any
	rec = s.do(t, http.MethodPost, target, "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, command.MessageFavoriteRemoved, removed["message"])
	assert.Contains(t, removed, "favoriteId")
	assert.Nil(t, removed["favoriteId"])

	rec = s.do(t, http.MethodPost, "/api/products/missing/favorite", "user_1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductNotFoundRedirects(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/products/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, CatalogueRedirect, resp.Redirect)
}

func TestFeaturedAndFavorites(t *testing.T) {
	s := newTestServer(t)
	featured := testutil.CreateTestProduct(s.db, testutil.WithFeatured())
	testutil.CreateTestProduct(s.db)
	testutil.CreateTestFavorite(s.db, "user_1", featured.ID)

	rec := s.do(t, http.MethodGet, "/api/products/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)

	rec = s.do(t, http.MethodGet, "/api/favorites", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/favorites", "user_1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}

func validProductBody() map[string]any {
	return map[string]any{
		"name":             "Reclaimed Oak Door",
		"componentGroup":   "Doors",
		"component":        "Interior door",
		"condition":        "Good",
		"material":         "Oak",
		"buildingFloorRef": "B1-F2",
		"width":            0.9,
		"height":           2.1,
		"depth":            0.04,
		"area":             1.89,
		"mass":             35,
		"quantity":         2,
		"price":            120,
		"co2":              12.5,
		"description":      "Solid oak interior door salvaged from an office refurbishment in good shape",
		"image":            "users/admin/door.jpg",
	}
}

func TestAdminProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/admin/products", "user_1", validProductBody())
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/admin/products", adminID, validProductBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, adminID, created.Data.ClerkID)

	update := validProductBody()
	update["price"] = 99
	rec = s.do(t, http.MethodPut, "/api/admin/products/"+created.Data.ID, adminID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/admin/products/"+created.Data.ID, adminID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched struct {
		Data domain.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, 99, fetched.Data.Price)

	rec = s.do(t, http.MethodGet, "/api/admin/products", adminID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/admin/products/"+created.Data.ID, adminID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/admin/products/"+created.Data.ID, adminID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCreateValidation(t *testing.T) {
	s := newTestServer(t)

	body := validProductBody()
	body["name"] = "X"
	body["quantity"] = 0

	rec := s.do(t, http.MethodPost, "/api/admin/products", adminID, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "name must be at least 2 characters.")
	assert.Contains(t, resp.Errors, "quantity must be at least 1.")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewBufferString("{"))
	token, err := auth.GenerateToken(auth.Viewer{ID: adminID}, testSecret, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	h := &ProductHandler{}

	healthy := mux.NewRouter()
	h.RegisterHealthCheck(healthy, stubPinger{}, nil)
	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	down := mux.NewRouter()
	h.RegisterHealthCheck(down, stubPinger{err: errors.New("connection refused")}, nil)
	rec = httptest.NewRecorder()
	down.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	live := mux.NewRouter()
	h.RegisterHealthCheck(live, sqlDB, nil)
	rec = httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
