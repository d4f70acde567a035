package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mingsmenu/logger"
	"mingsmenu/models"
)

func (r *Repository) User(ctx context.Context, id string) (*models.User, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return r.findUser(ctx, bson.M{"_id": oid})
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*models.User, bool) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *Repository) findUser(ctx context.Context, filter bson.M) (*models.User, bool) {
	var user models.User
	err := r.users.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logger.WithCtx(ctx).Error("get user failed", "error", err)
		}
		return nil, false
	}
	return &user, true
}

// CreateUser stores a new user. The password is kept as given.
func (r *Repository) CreateUser(ctx context.Context, in models.InsertUser) (*models.User, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	var existing models.User
	err := r.users.FindOne(ctx, bson.M{"username": in.Username}).Decode(&existing)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, in.Username)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, fmt.Errorf("create user: %w", err)
	}

	now := r.now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  in.Username,
		Password:  in.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, in.Username)
		}
		logger.WithCtx(ctx).Error("create user failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}
