package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type addressReader interface {
	ListByUser(ctx context.Context, userID string) ([]domain.UserAddress, error)
	Create(ctx context.Context, addr domain.UserAddress) (*domain.UserAddress, error)
}

type createAddressRequest struct {
	CountryID string `json:"countryId"`
	CityID    string `json:"cityId"`
	Street    string `json:"street"`
	FullName  string `json:"fullName"`
	Mobile    string `json:"mobile"`
	IsDefault bool   `json:"isDefault"`
}

func listAddressesHandler(addresses addressReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		list, err := addresses.ListByUser(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list addresses"})
			return
		}
		if list == nil {
			list = []domain.UserAddress{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": list})
	}
}

func createAddressHandler(addresses addressReader, geo geoReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		var in createAddressRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		fields := domain.FieldErrors{}
		if strings.TrimSpace(in.CountryID) == "" {
			fields["countryId"] = "required"
		}
		if strings.TrimSpace(in.CityID) == "" {
			fields["cityId"] = "required"
		}
		if strings.TrimSpace(in.Street) == "" {
			fields["street"] = "required"
		}
		if strings.TrimSpace(in.FullName) == "" {
			fields["fullName"] = "required"
		}
		if strings.TrimSpace(in.Mobile) == "" {
			fields["mobile"] = "required"
		}
		if len(fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
			return
		}

		city, err := geo.GetCity(c.Request.Context(), in.CityID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"cityId": "unknown city"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate city"})
			return
		}
		if city.CountryID != in.CountryID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"cityId": "city does not belong to the selected country"}})
			return
		}

		addr, err := addresses.Create(c.Request.Context(), domain.UserAddress{
			UserID:    u.ID,
			CountryID: in.CountryID,
			CityID:    in.CityID,
			Street:    strings.TrimSpace(in.Street),
			FullName:  strings.TrimSpace(in.FullName),
			Mobile:    strings.TrimSpace(in.Mobile),
			IsDefault: in.IsDefault,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save address"})
			return
		}
		c.JSON(http.StatusCreated, addr)
	}
}
