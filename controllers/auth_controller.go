package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mingsmenu/logger"
	"mingsmenu/middleware"
	"mingsmenu/models"
	"mingsmenu/storage"
)

func (ctl *Controller) Register(c *gin.Context) {
	var input models.InsertUser
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, "Failed to register")
	if !ok {
		return
	}
	defer cancel()

	user, err := repo.CreateUser(ctx, input)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (ctl *Controller) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ctx, cancel, repo, ok := ctl.repository(c, "Failed to login")
	if !ok {
		return
	}
	defer cancel()

	user, found := repo.UserByUsername(ctx, input.Username)
	if !found || subtle.ConstantTimeCompare([]byte(user.Password), []byte(input.Password)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	role := middleware.RoleCustomer
	if ctl.admins[user.Username] {
		role = middleware.RoleAdmin
	}

	token, err := middleware.IssueToken(ctl.secret, user.ID.Hex(), user.Username, role)
	if err != nil {
		logger.WithCtx(ctx).Error("sign token failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  gin.H{"id": user.ID.Hex(), "username": user.Username, "role": role},
		"token": token,
	})
}
