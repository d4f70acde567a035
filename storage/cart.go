package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mingsmenu/logger"
	"mingsmenu/models"
)

// CartItems lists every cart row. Read failures yield an empty slice.
func (r *Repository) CartItems(ctx context.Context) []models.CartItem {
	items, err := findAll[models.CartItem](ctx, r.cartItems, bson.M{})
	if err != nil {
		logger.WithCtx(ctx).Error("get cart items failed", "error", err)
		return []models.CartItem{}
	}
	return items
}

// AddToCart adds in.Quantity (default 1) of a menu item. An existing row for
// the same menu item is incremented in place rather than duplicated.
func (r *Repository) AddToCart(ctx context.Context, in models.InsertCartItem) (*models.CartItem, error) {
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	menuItemID, err := primitive.ObjectIDFromHex(in.MenuItemID)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	now := r.now()
	update := bson.M{
		"$inc":         bson.M{"quantity": in.QuantityOrDefault()},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	filter := bson.M{"menuItemId": menuItemID}
	var item models.CartItem
	err = r.cartItems.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent first add inserted the row; this pass increments it.
		err = r.cartItems.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	}
	if err != nil {
		logger.WithCtx(ctx).Error("add to cart failed", "menuItemId", in.MenuItemID, "error", err)
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return &item, nil
}

// RemoveFromCart deletes the cart row with the given id.
func (r *Repository) RemoveFromCart(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if _, err := r.cartItems.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		logger.WithCtx(ctx).Error("remove from cart failed", "id", id, "error", err)
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// ClearCart deletes every cart row.
func (r *Repository) ClearCart(ctx context.Context) error {
	if _, err := r.cartItems.DeleteMany(ctx, bson.M{}); err != nil {
		logger.WithCtx(ctx).Error("clear cart failed", "error", err)
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
