package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type productReader interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type geoReader interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListCitiesByCountry(ctx context.Context, countryID string) ([]domain.City, error)
	GetCity(ctx context.Context, id string) (*domain.City, error)
}

func listProductsHandler(products productReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
			return
		}
		if list == nil {
			list = []domain.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"products": list})
	}
}

func getProductHandler(products productReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func listCountriesHandler(geo geoReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := geo.ListCountries(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list countries"})
			return
		}
		if list == nil {
			list = []domain.Country{}
		}
		c.JSON(http.StatusOK, gin.H{"countries": list})
	}
}

func listCitiesHandler(geo geoReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := geo.ListCitiesByCountry(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cities"})
			return
		}
		if list == nil {
			list = []domain.City{}
		}
		c.JSON(http.StatusOK, gin.H{"cities": list})
	}
}
