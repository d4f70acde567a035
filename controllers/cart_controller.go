package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mingsmenu/models"
)

func (ctl *Controller) GetCart(c *gin.Context) {
	ctx, cancel, repo, ok := ctl.repository(c, "Failed to fetch cart")
	if !ok {
		return
	}
	defer cancel()

	c.JSON(http.StatusOK, repo.CartItems(ctx))
}

func (ctl *Controller) AddToCart(c *gin.Context) {
	var body models.InsertCartItem
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, "Failed to add to cart")
	if !ok {
		return
	}
	defer cancel()

	item, err := repo.AddToCart(ctx, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *Controller) RemoveFromCart(c *gin.Context) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart item id"})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, "Failed to remove from cart")
	if !ok {
		return
	}
	defer cancel()

	if err := repo.RemoveFromCart(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart", "id": id})
}

func (ctl *Controller) ClearCart(c *gin.Context) {
	ctx, cancel, repo, ok := ctl.repository(c, "Failed to clear cart")
	if !ok {
		return
	}
	defer cancel()

	if err := repo.ClearCart(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
