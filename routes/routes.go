package routes

import (
	"github.com/gin-gonic/gin"

	"mingsmenu/controllers"
	"mingsmenu/metrics"
	"mingsmenu/middleware"
)

// NewRouter builds the engine with the global middleware chain and every
// route registered.
func NewRouter(ctl *controllers.Controller, jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), metrics.Middleware(), middleware.CORS())
	RegisterRoutes(r, ctl, jwtSecret)
	return r
}

func RegisterRoutes(r *gin.Engine, ctl *controllers.Controller, jwtSecret []byte) {
	r.GET("/healthz", controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.Any("/menu-items", ctl.MenuItems)
		api.GET("/menu-items/:id", ctl.GetMenuItem)
		api.GET("/categories", controllers.GetCategories)

		api.GET("/cart", ctl.GetCart)
		api.POST("/cart", ctl.AddToCart)
		api.DELETE("/cart", ctl.ClearCart)
		api.DELETE("/cart/:id", ctl.RemoveFromCart)

		api.POST("/register", ctl.Register)
		api.POST("/login", ctl.Login)

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminMiddleware())
		{
			admin.POST("/menu-items", ctl.CreateMenuItem)
		}
	}
}
