package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mingsmenu/logger"
	"mingsmenu/middleware"
	"mingsmenu/models"
)

const fetchMenuItemsFailed = "Failed to fetch menu items"

// MenuItems serves the menu-items endpoint: OPTIONS and GET only. GET
// without a category returns every category's items; a failing category is
// left out rather than failing the request.
func (ctl *Controller) MenuItems(c *gin.Context) {
	middleware.SetCORSHeaders(c)

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodGet:
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	name := c.Query("category")
	category, ok := models.ParseCategory(name)
	if name != "" && !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, fetchMenuItemsFailed)
	if !ok {
		return
	}
	defer cancel()
	log := logger.WithCtx(ctx)

	if name == "" {
		items := repo.MenuItems(ctx)
		log.Info("fetched all menu items", "count", len(items))
		c.JSON(http.StatusOK, items)
		return
	}

	items, err := repo.FetchCategory(ctx, category)
	if err != nil {
		log.Error("fetch category failed", "category", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fetchMenuItemsFailed, "details": err.Error()})
		return
	}
	log.Info("fetched category", "category", name, "count", len(items))
	c.JSON(http.StatusOK, items)
}

func (ctl *Controller) GetMenuItem(c *gin.Context) {
	ctx, cancel, repo, ok := ctl.repository(c, "Failed to fetch menu item")
	if !ok {
		return
	}
	defer cancel()

	item, found := repo.MenuItem(ctx, c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories())
}
