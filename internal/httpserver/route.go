package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kalakriti/backend/internal/models"
	"github.com/kalakriti/backend/pkg/logging"
	authmw "github.com/kalakriti/backend/pkg/middleware/auth"
)

const readyTimeout = 3 * time.Second

type Deps struct {
	Auth      *AuthHTTP
	Orders    *OrderHTTP
	Reviews   *ReviewHTTP
	Contacts  *ContactHTTP
	Dashboard *DashboardHTTP
	Catalog   *CatalogHTTP
	Users     *UserHTTP

	Roles authmw.RoleLookup
	// Ready reports whether the store is reachable; nil means always ready.
	Ready func(ctx context.Context) error
	// UploadLimit is an echo body-limit size such as "10M".
	UploadLimit string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), readyTimeout)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			logging.FromContext(ctx).Warn("not_ready", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	limit := d.UploadLimit
	if limit == "" {
		limit = "10M"
	}
	upload := middleware.BodyLimit(limit)
	admin := authmw.RequireRole(d.Roles, models.RoleAdmin)
	authed := authmw.RequireAuth

	api := e.Group("/api")

	api.POST("/auth/google", d.Auth.Google)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/signup", d.Auth.Signup)
	api.GET("/auth/me", d.Auth.Me, authed)
	api.POST("/register", d.Auth.Register)
	api.POST("/login", d.Auth.LegacyLogin)

	orders := api.Group("/orders")

	orders.POST("", d.Orders.PlaceOrder)
	orders.POST("/create-razorpay-order", d.Orders.CreatePaymentOrder)
	orders.POST("/verify-payment", d.Orders.VerifyPayment)
	orders.GET("/user/:userId", d.Orders.UserOrders, authed)
	orders.PUT("/user/:orderId/status", d.Orders.CancelOrder, authed)

	ordersAdmin := orders.Group("/admin", admin)

	ordersAdmin.GET("", d.Orders.AllOrders)
	ordersAdmin.GET("/export", d.Orders.Export)
	ordersAdmin.GET("/:id", d.Orders.GetOrder)
	ordersAdmin.PUT("/:id/status", d.Orders.UpdateStatus)
	ordersAdmin.DELETE("/:id", d.Orders.DeleteOrder)

	contacts := api.Group("/admin")

	contacts.POST("", d.Contacts.Submit, upload)
	contacts.GET("", d.Contacts.List, admin)
	contacts.GET("/contacts", d.Contacts.AdminList, admin)
	contacts.DELETE("/contacts/:id", d.Contacts.Delete, admin)
	contacts.PUT("/contacts/:id/status", d.Contacts.UpdateStatus, admin)
	contacts.POST("/reply", d.Contacts.Reply, admin)
	contacts.GET("/my-commissions", d.Contacts.MyCommissions, authed)

	dashboard := api.Group("/admin/dashboard", admin)

	dashboard.GET("", d.Dashboard.Summary)
	dashboard.GET("/dashboard", d.Dashboard.Summary)
	dashboard.GET("/activities", d.Dashboard.Activities)

	art := api.Group("/art")

	art.GET("", d.Catalog.Art)
	art.GET("/:id", d.Catalog.ArtByID)
	art.GET("/category/:category", d.Catalog.ArtByCategory)
	art.POST("", d.Catalog.CreateArt, admin)

	services := api.Group("/services")

	services.GET("", d.Catalog.Services)
	services.GET("/search", d.Catalog.Search)
	services.GET("/category/:category", d.Catalog.ServicesByCategory)
	services.GET("/:id", d.Catalog.Service)
	services.POST("", d.Catalog.CreateService, admin)
	services.POST("/addservice", d.Catalog.AddService, admin, upload)
	services.POST("/upload", d.Catalog.UploadJSON, admin, upload)
	services.DELETE("/:id", d.Catalog.DeleteService, admin)

	e.POST("/image/upload", d.Catalog.UploadPlain, admin, upload)

	reviews := api.Group("/reviews")

	reviews.POST("", d.Reviews.Create, authed)
	reviews.GET("/all", d.Reviews.All, admin)
	reviews.GET("/service/:serviceId", d.Reviews.ByService)
	reviews.GET("/service/:serviceId/stats", d.Reviews.Stats)
	reviews.GET("/user/:userId", d.Reviews.ByUser)
	reviews.POST("/:id/helpful", d.Reviews.Helpful)
	reviews.POST("/:id/not-helpful", d.Reviews.NotHelpful)
	reviews.PUT("/:id", d.Reviews.Update, authed)
	reviews.DELETE("/:id", d.Reviews.Delete, authed)

	users := api.Group("/users")

	users.GET("", d.Users.List, admin)
	users.PUT("/:id", d.Users.Update, authed)
}
