package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mingsmenu/controllers"
	"mingsmenu/database"
	"mingsmenu/database/memdb"
	"mingsmenu/models"
	"mingsmenu/storage"
)

var secret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	db     *memdb.DB
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memdb.New()
	repo := storage.NewRepository(db, primitive.NewObjectID())
	provider := func(ctx context.Context) (*storage.Repository, error) { return repo, nil }
	ctl := controllers.New(provider, controllers.Options{JWTSecret: secret, AdminUsernames: []string{"ming"}})
	return &fixture{db: db, router: NewRouter(ctl, secret)}
}

func (f *fixture) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func dish(name string, c models.Category) bson.M {
	return bson.M{"name": name, "category": string(c), "price": 99.0, "isVeg": false, "isAvailable": true}
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) []models.MenuItem {
	t.Helper()
	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	return items
}

func itemNames(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestMenuItemsOptions(t *testing.T) {
	f := newFixture(t)
	f.db.C("soups").Err = errors.New("down")

	rec := f.do(http.MethodOptions, "/api/menu-items", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assertCORS(t, rec)
}

func TestMenuItemsMethodNotAllowed(t *testing.T) {
	f := newFixture(t)
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		rec := f.do(m, "/api/menu-items", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, m)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String())
		assertCORS(t, rec)
	}
}

func TestMenuItemsInvalidCategory(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/menu-items?category=doesnotexist", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid category"}`, rec.Body.String())
	assertCORS(t, rec)
}

func TestMenuItemsByCategory(t *testing.T) {
	f := newFixture(t)
	f.db.C("soups").Seed(dish("Tom Yum Soup", models.CategorySoups), dish("Veg Manchow Soup", models.CategorySoups))
	f.db.C("thai").Seed(dish("Thai Green Curry", models.CategoryThai))

	rec := f.do(http.MethodGet, "/api/menu-items?category=soups", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Veg Manchow Soup", "Tom Yum Soup"}, itemNames(decodeItems(t, rec)))
}

func TestMenuItemsEmptyCategoryIsEmptyArray(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/menu-items?category=extra", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestMenuItemsCategoryFailureIs500(t *testing.T) {
	f := newFixture(t)
	f.db.C("rice").Err = errors.New("socket closed")

	rec := f.do(http.MethodGet, "/api/menu-items?category=rice", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch menu items", body["error"])
	assert.Contains(t, body["details"], "socket closed")
}

func TestMenuItemsAllToleratesFailingCategory(t *testing.T) {
	f := newFixture(t)
	f.db.C("chickenstarter").Seed(dish("Chicken Manchurian", models.CategoryChickenStarter))
	f.db.C("rice").Seed(dish("Veg Fried Rice", models.CategoryRice))
	f.db.C("prawnsstarter").Seed(dish("Prawns Masala", models.CategoryPrawnsStarter))
	f.db.C("springrolls").Seed(dish("Spring Roll", models.CategorySpringRolls))
	f.db.C("desserts").Seed(dish("Date Pancake", models.CategoryDesserts))
	f.db.C("desserts").Err = errors.New("collection missing")

	rec := f.do(http.MethodGet, "/api/menu-items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		[]string{"Veg Fried Rice", "Chicken Manchurian", "Prawns Masala", "Spring Roll"},
		itemNames(decodeItems(t, rec)))
	assertCORS(t, rec)
}

func TestMenuItemsMissingConnectionString(t *testing.T) {
	provider := func(ctx context.Context) (*storage.Repository, error) {
		return nil, database.ErrMissingURI
	}
	r := NewRouter(controllers.New(provider, controllers.Options{JWTSecret: secret}), secret)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/menu-items", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t,
		`{"error":"Failed to fetch menu items","details":"MongoDB connection string not provided"}`,
		rec.Body.String())
}

func TestGetMenuItem(t *testing.T) {
	f := newFixture(t)
	id := primitive.NewObjectID()
	doc := dish("Mango Lassi", models.CategoryBeverages)
	doc["_id"] = id
	f.db.C("beverages").Seed(doc)

	rec := f.do(http.MethodGet, "/api/menu-items/"+id.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var item models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Mango Lassi", item.Name)

	rec = f.do(http.MethodGet, "/api/menu-items/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Menu item not found"}`, rec.Body.String())
}

func TestGetCategories(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cats []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	assert.Len(t, cats, 18)
	assert.Equal(t, "soups", cats[0])
	assert.Equal(t, "extra", cats[17])
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t)
	menuID := primitive.NewObjectID().Hex()

	rec := f.do(http.MethodPost, "/api/cart", `{"menuItemId":"`+menuID+`","quantity":1}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPost, "/api/cart", `{"menuItemId":"`+menuID+`","quantity":2}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var row models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, 3, row.Quantity)

	rec = f.do(http.MethodGet, "/api/cart", "", nil)
	var rows []models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)

	rec = f.do(http.MethodDelete, "/api/cart/"+row.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.db.C("cartitems").Len())

	rec = f.do(http.MethodDelete, "/api/cart/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.do(http.MethodPost, "/api/cart", `{"menuItemId":"`+menuID+`"}`, nil)
	rec = f.do(http.MethodDelete, "/api/cart", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, f.db.C("cartitems").Len())
}

func TestAddToCartRejectsBadPayload(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/cart", `{"menuItemId":"xyz"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/cart", `{"menuItemId":"`+primitive.NewObjectID().Hex()+`","quantity":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func login(t *testing.T, f *fixture, username string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/api/register", `{"username":"`+username+`","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret1")

	rec = f.do(http.MethodPost, "/api/login", `{"username":"`+username+`","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	login(t, f, "guest")

	rec := f.do(http.MethodPost, "/api/register", `{"username":"guest","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, "/api/login", `{"username":"guest","password":"wrong!!"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/register", `{"username":"ab","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

const newDish = `{"name":"Veg Hakka Noodles","description":"Wok tossed","price":160,"category":"noodle","isVeg":true,"image":"https://cdn.example.com/n.jpg"}`

func TestAdminCreateMenuItem(t *testing.T) {
	f := newFixture(t)
	admin := http.Header{"Authorization": []string{"Bearer " + login(t, f, "ming")}}

	rec := f.do(http.MethodPost, "/api/admin/menu-items", newDish, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, f.db.C("noodle").Len())

	rec = f.do(http.MethodPost, "/api/admin/menu-items", strings.Replace(newDish, `"noodle"`, `"pizza"`, 1), admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/menu-items?category=noodle", "", nil)
	assert.Equal(t, []string{"Veg Hakka Noodles"}, itemNames(decodeItems(t, rec)))
}

func TestAdminCreateMenuItemRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/admin/menu-items", newDish, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := http.Header{"Authorization": []string{"Bearer " + login(t, f, "guest")}}
	rec = f.do(http.MethodPost, "/api/admin/menu-items", newDish, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, f.db.C("noodle").Len())
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mings_http_requests_total")
}
