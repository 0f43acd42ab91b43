package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"
)

type orderReader interface {
	GetByIDForUser(ctx context.Context, userID, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// statusClientClosedRequest is nginx's non-standard code for a caller that
// disconnected mid-request; it distinguishes cancellation from real failures
// in access logs.
const statusClientClosedRequest = 499

func placeOrderHandler(checkout *checkoutsvc.Service, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		var in checkoutsvc.PlaceOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		order, err := checkout.PlaceOrder(c.Request.Context(), u.ID, in)
		if err != nil {
			writeCheckoutError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// writeCheckoutError maps the workflow's typed outcomes onto HTTP responses.
// Anything unrecognized is logged and reported as a generic failure so
// storage internals never leak to clients.
func writeCheckoutError(c *gin.Context, logger *log.Logger, err error) {
	var (
		fieldErrs domain.FieldErrors
		badQty    *domain.InvalidQuantityError
		noStock   *domain.InsufficientStockError
		badAttr   *domain.InvalidAttributeSelectionError
		noAttrs   *domain.NoAttributesDefinedError
	)

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrs})
	case errors.As(err, &badQty):
		c.JSON(http.StatusBadRequest, gin.H{"error": badQty.Error(), "lineId": badQty.LineID})
	case errors.Is(err, domain.ErrAddressRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAddressNotFound),
		errors.Is(err, domain.ErrShippingMethodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartEmpty),
		errors.Is(err, domain.ErrCouponInvalid),
		errors.Is(err, domain.ErrCouponExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &noStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":     noStock.Error(),
			"productId": noStock.ProductID,
			"requested": noStock.Requested,
			"available": noStock.Available,
		})
	case errors.As(err, &badAttr):
		c.JSON(http.StatusConflict, gin.H{
			"error":       badAttr.Error(),
			"productId":   badAttr.ProductID,
			"attributeId": badAttr.AttributeID,
		})
	case errors.As(err, &noAttrs):
		c.JSON(http.StatusConflict, gin.H{"error": noAttrs.Error(), "productId": noAttrs.ProductID})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "checkout lost a concurrent update, please retry"})
	case errors.Is(err, context.Canceled):
		c.Status(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "checkout timed out"})
	default:
		logger.Printf("checkout handler: unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
	}
}

func listOrdersHandler(orders orderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		list, err := orders.ListByUser(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
			return
		}
		if list == nil {
			list = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func getOrderHandler(orders orderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		o, err := orders.GetByIDForUser(c.Request.Context(), u.ID, c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
