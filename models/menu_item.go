package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItem is a purchasable dish. JSON keeps the document field names so
// clients see the same shape the collections hold.
type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Category     Category           `bson:"category" json:"category"`
	IsVeg        bool               `bson:"isVeg" json:"isVeg"`
	Image        string             `bson:"image" json:"image"`
	RestaurantID primitive.ObjectID `bson:"restaurantId" json:"restaurantId"`
	IsAvailable  bool               `bson:"isAvailable" json:"isAvailable"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version      int                `bson:"__v" json:"__v"`
}

// InsertMenuItem is the payload for creating a menu item. RestaurantID is
// accepted but the repository always stamps its own restaurant.
type InsertMenuItem struct {
	Name         string  `json:"name" binding:"required,min=1"`
	Description  string  `json:"description" binding:"required,min=1"`
	Price        float64 `json:"price" binding:"gt=0"`
	Category     string  `json:"category" binding:"required,category"`
	IsVeg        *bool   `json:"isVeg" binding:"required"`
	Image        string  `json:"image" binding:"required,url"`
	RestaurantID string  `json:"restaurantId,omitempty" binding:"omitempty,mongodb"`
	IsAvailable  *bool   `json:"isAvailable,omitempty"`
}

// Available reports isAvailable, defaulting to true.
func (in InsertMenuItem) Available() bool {
	if in.IsAvailable == nil {
		return true
	}
	return *in.IsAvailable
}

func (in InsertMenuItem) Veg() bool {
	return in.IsVeg != nil && *in.IsVeg
}
