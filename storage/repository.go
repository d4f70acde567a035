package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mingsmenu/database"
	"mingsmenu/logger"
	"mingsmenu/metrics"
	"mingsmenu/models"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrUsernameTaken   = errors.New("username already taken")
)

const (
	cartItemsCollection = "cartitems"
	usersCollection     = "users"
)

// Repository is the single point of access to menu, cart and user data.
// Callers never see collections; categories are resolved here.
type Repository struct {
	db           database.Database
	collections  map[models.Category]database.Collection
	cartItems    database.Collection
	users        database.Collection
	restaurantID primitive.ObjectID
	now          func() time.Time
}

func NewRepository(db database.Database, restaurantID primitive.ObjectID) *Repository {
	r := &Repository{
		db:           db,
		collections:  make(map[models.Category]database.Collection),
		cartItems:    db.Collection(cartItemsCollection),
		users:        db.Collection(usersCollection),
		restaurantID: restaurantID,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, c := range models.Categories() {
		r.collections[c] = db.Collection(c.CollectionName())
	}
	return r
}

// Categories returns the fixed category list in display order.
func (r *Repository) Categories() []models.Category {
	return models.Categories()
}

// EnsureCollections creates any category, cart or user collection that does
// not exist yet.
func (r *Repository) EnsureCollections(ctx context.Context) error {
	existing, err := r.db.ListCollectionNames(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	want := make([]string, 0, len(r.collections)+2)
	for _, c := range models.Categories() {
		want = append(want, c.CollectionName())
	}
	want = append(want, cartItemsCollection, usersCollection)

	for _, name := range want {
		if have[name] {
			continue
		}
		if err := r.db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		logger.WithCtx(ctx).Info("created collection", "collection", name)
	}
	return r.EnsureIndexes(ctx)
}

// EnsureIndexes creates the unique indexes that keep one cart row per menu
// item and one user per username.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	for _, idx := range []struct{ collection, field string }{
		{cartItemsCollection, "menuItemId"},
		{usersCollection, "username"},
	} {
		if err := r.db.CreateUniqueIndex(ctx, idx.collection, idx.field); err != nil {
			return fmt.Errorf("create index %s.%s: %w", idx.collection, idx.field, err)
		}
	}
	return nil
}

func findAll[T any](ctx context.Context, col database.Collection, filter interface{}) ([]T, error) {
	cur, err := col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// FetchCategory reads one category and sorts it. Unlike MenuItemsByCategory
// it reports storage errors.
func (r *Repository) FetchCategory(ctx context.Context, c models.Category) ([]models.MenuItem, error) {
	col, ok := r.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
	items, err := findAll[models.MenuItem](ctx, col, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("fetch category %s: %w", c, err)
	}
	return SortMenuItems(items), nil
}

// MenuItemsByCategory returns the sorted items of a category. Unknown
// categories and read failures yield an empty slice.
func (r *Repository) MenuItemsByCategory(ctx context.Context, category string) []models.MenuItem {
	c, ok := models.ParseCategory(category)
	if !ok {
		logger.WithCtx(ctx).Error("category not found", "category", category)
		return []models.MenuItem{}
	}
	items, err := r.FetchCategory(ctx, c)
	if err != nil {
		r.readFailed(ctx, c, err)
		return []models.MenuItem{}
	}
	return items
}

// MenuItems returns every category's items sorted as one list. A category
// that cannot be read is skipped.
func (r *Repository) MenuItems(ctx context.Context) []models.MenuItem {
	all := []models.MenuItem{}
	for _, c := range models.Categories() {
		items, err := findAll[models.MenuItem](ctx, r.collections[c], bson.M{})
		if err != nil {
			r.readFailed(ctx, c, err)
			continue
		}
		all = append(all, items...)
	}
	return SortMenuItems(all)
}

func (r *Repository) readFailed(ctx context.Context, c models.Category, err error) {
	metrics.CategoryReadFailures.WithLabelValues(string(c)).Inc()
	logger.WithCtx(ctx).Error("category read failed", "category", string(c), "error", err)
}

// MenuItem scans every category collection for id, since an id does not
// say which category holds it.
func (r *Repository) MenuItem(ctx context.Context, id string) (*models.MenuItem, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.WithCtx(ctx).Debug("malformed menu item id", "id", id)
		return nil, false
	}

	for _, c := range models.Categories() {
		var item models.MenuItem
		err := r.collections[c].FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
		if err == nil {
			return &item, true
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.readFailed(ctx, c, err)
		}
	}
	return nil, false
}

// AddMenuItem validates in and inserts it into its category's collection.
func (r *Repository) AddMenuItem(ctx context.Context, in models.InsertMenuItem) (*models.MenuItem, error) {
	c, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, in.Category)
	}
	if err := models.Validate(in); err != nil {
		return nil, err
	}

	now := r.now()
	item := models.MenuItem{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Category:     c,
		IsVeg:        in.Veg(),
		Image:        in.Image,
		RestaurantID: r.restaurantID,
		IsAvailable:  in.Available(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      0,
	}

	if _, err := r.collections[c].InsertOne(ctx, item); err != nil {
		logger.WithCtx(ctx).Error("add menu item failed", "category", string(c), "error", err)
		return nil, fmt.Errorf("add menu item: %w", err)
	}
	return &item, nil
}
