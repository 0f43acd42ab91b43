package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	usersvc "storefront/internal/service/user"
)

// Deps carries the services and repositories the handlers call into.
type Deps struct {
	UserSvc     *usersvc.Service
	CartSvc     *cartsvc.Service
	CheckoutSvc *checkoutsvc.Service
	ProductRepo productReader
	AddressRepo addressReader
	GeoRepo     geoReader
	OrderRepo   orderReader
}

type userCtxKeyType struct{}

var userCtxKey = userCtxKeyType{}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/signup", signupHandler(deps.UserSvc))
	router.POST("/login", loginHandler(deps.UserSvc))

	router.GET("/products", listProductsHandler(deps.ProductRepo))
	router.GET("/products/:id", getProductHandler(deps.ProductRepo))
	router.GET("/countries", listCountriesHandler(deps.GeoRepo))
	router.GET("/countries/:id/cities", listCitiesHandler(deps.GeoRepo))

	me := router.Group("/me", authMiddleware(deps.UserSvc))
	{
		me.GET("/cart", getCartHandler(deps.CartSvc))
		me.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		me.PATCH("/cart/items/:lineId", changeCartItemHandler(deps.CartSvc))
		me.DELETE("/cart/items/:lineId", removeCartItemHandler(deps.CartSvc))

		me.GET("/addresses", listAddressesHandler(deps.AddressRepo))
		me.POST("/addresses", createAddressHandler(deps.AddressRepo, deps.GeoRepo))

		me.POST("/orders", placeOrderHandler(deps.CheckoutSvc, logger))
		me.GET("/orders", listOrdersHandler(deps.OrderRepo))
		me.GET("/orders/:id", getOrderHandler(deps.OrderRepo))
	}

	return router
}

// authMiddleware resolves the bearer token to a user and stashes it on the
// request context.
func authMiddleware(users *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "missing bearer token"})
			return
		}
		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "invalid token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), userCtxKey, u)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func currentUser(c *gin.Context) (*domain.User, bool) {
	u, ok := c.Request.Context().Value(userCtxKey).(*domain.User)
	return u, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
