package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a quantity of one menu item in the shared cart. There is at
// most one row per menu item.
type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	MenuItemID primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type InsertCartItem struct {
	MenuItemID string `json:"menuItemId" binding:"required,mongodb"`
	Quantity   int    `json:"quantity" binding:"omitempty,gt=0"`
}

// QuantityOrDefault returns the requested quantity, or 1 when none was given.
func (in InsertCartItem) QuantityOrDefault() int {
	if in.Quantity <= 0 {
		return 1
	}
	return in.Quantity
}
