package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"mingsmenu/models"
	"mingsmenu/storage"
)

func (ctl *Controller) CreateMenuItem(c *gin.Context) {
	var input models.InsertMenuItem
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, "Failed to add menu item")
	if !ok {
		return
	}
	defer cancel()

	item, err := repo.AddMenuItem(ctx, input)
	if err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.Is(err, storage.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		case errors.As(err, &verrs):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add menu item"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Menu item created", "menuItem": item})
}
