package main

// @title Reclaimed Storefront API
// @version 1.0
// @description Catalogue, favorites, reviews and cart of a storefront for reclaimed building components

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @tag.name Products
// @tag.description Public catalogue

// @tag.name Favorites
// @tag.description Viewer favorites

// @tag.name Reviews
// @tag.description Product reviews and ratings

// @tag.name Cart
// @tag.description Viewer cart

// @tag.name Admin
// @tag.description Product management

// @tag.name Health
// @tag.description Health check endpoints
