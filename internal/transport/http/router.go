package httptransport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ErlanBelekov/order-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/order-tracker/internal/web"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	JWTKey         []byte
	AllowedOrigins []string
	HSTS           bool
}

type Handlers struct {
	Auth     *handler.AuthHandler
	Order    *handler.OrderHandler
	Shipment *handler.ShipmentHandler
	User     *handler.UserHandler
	Web      *web.Handler
	Renderer *web.Renderer
}

func NewRouter(logger *slog.Logger, cfg RouterConfig, h Handlers, loginLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	// Page paths with a trailing slash render in place through web.Resolve.
	r.RedirectTrailingSlash = false
	r.HTMLRender = h.Renderer
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security(cfg.HSTS))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(cfg.JWTKey)

	api := r.Group("/api", middleware.CORS(cfg.AllowedOrigins))

	auth := api.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", loginLimiter.Middleware(nil), h.Auth.Login)
	auth.POST("/reset-password", h.Auth.RequestPasswordReset)
	auth.POST("/reset-password/confirm", h.Auth.ConfirmPasswordReset)
	auth.POST("/logout", authMW, h.Auth.Logout)
	auth.POST("/change-password", authMW, h.Auth.ChangePassword)
	auth.GET("/protected", authMW, h.Auth.Protected)

	orders := api.Group("/order", authMW)
	orders.GET("", h.Order.List)
	orders.GET("/", h.Order.List)
	orders.GET("/:id", h.Order.GetByID)
	orders.POST("/create_order", h.Order.Create)
	orders.PUT("/update_order/:id", h.Order.Update)
	orders.PUT("/cancel_order/:id", h.Order.Cancel)
	orders.DELETE("/delete_order/:id", h.Order.Delete)
	orders.POST("/rate_order/:id", h.Order.Rate)
	orders.POST("/review_order/:id", h.Order.Review)
	orders.PUT("/update_status/:id", h.Order.AdvanceStatus)

	shipments := api.Group("/shipment", authMW)
	shipments.GET("/:tracking_number", h.Shipment.Track)
	shipments.GET("/order/:order_id", h.Shipment.ForOrder)

	users := api.Group("/user", authMW)
	users.GET("/profile", h.User.Profile)
	users.PUT("/profile_update", h.User.Update)
	users.DELETE("/profile_delete", h.User.Delete)

	pages := r.Group("", h.Web.Session())
	h.Web.Register(pages, loginLimiter.Middleware(h.Web.LoginThrottled))

	r.NoRoute(apiNotFound, h.Web.Session(), h.Web.Fallback)

	return r
}

// apiNotFound answers unknown /api paths with JSON; page paths fall through.
func apiNotFound(c *gin.Context) {
	p := c.Request.URL.Path
	if p == "/api" || strings.HasPrefix(p, "/api/") {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.Next()
}
