package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"mingsmenu/logger"
	"mingsmenu/models"
	"mingsmenu/storage"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := models.RegisterValidations(v); err != nil {
			panic(err)
		}
	}
}

// RepositoryProvider returns the repository, connecting to the store on
// first use.
type RepositoryProvider func(ctx context.Context) (*storage.Repository, error)

// Options carries the settings controllers need from config.
type Options struct {
	JWTSecret      []byte
	AdminUsernames []string
	RequestTimeout time.Duration
}

// Controller serves every API route over one repository provider.
type Controller struct {
	repo    RepositoryProvider
	secret  []byte
	admins  map[string]bool
	timeout time.Duration
}

// New indexes the admin usernames and defaults the request timeout to 10s.
func New(repo RepositoryProvider, opts Options) *Controller {
	admins := make(map[string]bool, len(opts.AdminUsernames))
	for _, name := range opts.AdminUsernames {
		admins[name] = true
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Controller{repo: repo, secret: opts.JWTSecret, admins: admins, timeout: timeout}
}

// repository resolves the repository under the request timeout. On failure
// it has already written a 500 carrying failMsg.
func (ctl *Controller) repository(c *gin.Context, failMsg string) (context.Context, context.CancelFunc, *storage.Repository, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	repo, err := ctl.repo(ctx)
	if err != nil {
		cancel()
		logger.WithCtx(ctx).Error("database unavailable", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg, "details": err.Error()})
		return nil, nil, nil, false
	}
	return ctx, cancel, repo, true
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
