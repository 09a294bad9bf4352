package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List products
// @Description One page of the catalogue, newest first. Each product carries favoriteId for the signed-in viewer.
// @Tags Products
// @Produce json
// @Param page query int false "Page, starting at 1"
// @Param pageSize query int false "Page size (default 12)"
// @Param search query string false "Case-insensitive match on name or material"
// @Success 200 {object} object{products=array,totalProducts=int,pageSize=int}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// ListFeatured godoc
// @Summary List featured products
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products/featured [get]
func (h *ProductHandler) ListFeaturedDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Description Adds the product to the viewer's favorites, or removes it when already present
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{message=string,favoriteId=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Failure 429 {object} object{success=bool,error=string}
// @Router /api/products/{id}/favorite [post]
func (h *ProductHandler) ToggleFavoriteDoc() {}

// ListFavorites godoc
// @Summary List the viewer's favorites
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/favorites [get]
func (h *ProductHandler) ListFavoritesDoc() {}

// ListAdminProducts godoc
// @Summary List all products (Admin only)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/admin/products [get]
func (h *ProductHandler) ListAdminProductsDoc() {}

// CreateProduct godoc
// @Summary Create a product (Admin only)
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,componentGroup=string,component=string,condition=string,material=string,buildingFloorRef=string,width=number,height=number,depth=number,area=number,mass=number,quantity=int,price=int,co2=number,featured=bool,description=string,image=string} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=array}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/admin/products [post]
func (h *ProductHandler) CreateProductDoc() {}

// GetAdminProduct godoc
// @Summary Get product for editing (Admin only)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Router /api/admin/products/{id} [get]
func (h *ProductHandler) GetAdminProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product (Admin only)
// @Description Replacing image removes the previous stored object
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object true "Product data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=array}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Router /api/admin/products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product (Admin only)
// @Description Removes the product, its favorites and its stored image
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Router /api/admin/products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *ProductHandler) HealthCheckDoc() {}

// ListProductReviews godoc
// @Summary List a product's reviews
// @Tags Reviews
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products/{id}/reviews [get]
func (h *ReviewHandler) ListProductReviewsDoc() {}

// GetRating godoc
// @Summary Average rating of a product
// @Tags Reviews
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object{rating=number,count=int}}
// @Router /api/products/{id}/rating [get]
func (h *ReviewHandler) GetRatingDoc() {}

// CreateReview godoc
// @Summary Review a product
// @Description One review per viewer and product
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{rating=int,comment=string} true "Review"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string,errors=array}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id}/reviews [post]
func (h *ReviewHandler) CreateReviewDoc() {}

// GetExistingReview godoc
// @Summary The viewer's review of a product
// @Tags Reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id}/reviews/mine [get]
func (h *ReviewHandler) GetExistingReviewDoc() {}

// ListViewerReviews godoc
// @Summary List the viewer's reviews
// @Tags Reviews
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/reviews [get]
func (h *ReviewHandler) ListViewerReviewsDoc() {}

// DeleteReview godoc
// @Summary Delete one of the viewer's reviews
// @Tags Reviews
// @Security BearerAuth
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReviewDoc() {}

// GetCart godoc
// @Summary The viewer's cart
// @Description Creates an empty cart on first visit
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/cart [get]
func (h *CartHandler) GetCartDoc() {}

// CountItems godoc
// @Summary Number of items in the viewer's cart
// @Tags Cart
// @Produce json
// @Success 200 {object} object{success=bool,data=object{numItemsInCart=int}}
// @Router /api/cart/count [get]
func (h *CartHandler) CountItemsDoc() {}

// AddItem godoc
// @Summary Add a product to the cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{productId=string,amount=int} true "Cart line"
// @Success 200 {object} object{success=bool,message=string,data=object,redirect=string}
// @Failure 400 {object} object{success=bool,error=string,errors=array}
// @Failure 404 {object} object{success=bool,error=string,redirect=string}
// @Router /api/cart/items [post]
func (h *CartHandler) AddItemDoc() {}
