// Package memdb is an in-memory database.Database for tests. It supports
// the equality filters and $inc/$set/$setOnInsert updates the repository
// issues, and hands back real driver cursors so decoding matches MongoDB.
package memdb

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mingsmenu/database"
)

var (
	_ database.Database   = (*DB)(nil)
	_ database.Collection = (*Collection)(nil)
)

type DB struct {
	mu          sync.Mutex
	collections map[string]*Collection
	created     map[string]bool

	// ListErr, when set, is returned by ListCollectionNames.
	ListErr error
}

func New() *DB {
	return &DB{
		collections: make(map[string]*Collection),
		created:     make(map[string]bool),
	}
}

func (d *DB) Collection(name string) database.Collection {
	return d.C(name)
}

// C returns the named collection with its concrete type.
func (d *DB) C(name string) *Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = &Collection{}
		d.collections[name] = c
	}
	return c
}

func (d *DB) ListCollectionNames(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ListErr != nil {
		return nil, d.ListErr
	}
	var names []string
	for name := range d.created {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *DB) CreateCollection(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created[name] = true
	return nil
}

// CreateUniqueIndex makes later inserts and upserts into collection fail
// with a duplicate key error when field repeats an existing value.
func (d *DB) CreateUniqueIndex(ctx context.Context, collection, field string) error {
	c := d.C(collection)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unique == nil {
		c.unique = make(map[string]bool)
	}
	c.unique[field] = true
	return nil
}

type Collection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique map[string]bool

	// Err, when set, fails every operation on the collection.
	Err error
}

// Seed inserts documents directly, assigning ids where missing.
func (c *Collection) Seed(docs ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		c.docs = append(c.docs, withID(normalize(d)))
	}
}

// Len reports the number of stored documents.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

func (c *Collection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	out := []interface{}{}
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, d)
		}
	}
	return mongo.NewCursorFromDocuments(out, nil, nil)
}

func (c *Collection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, c.Err, nil)
	}
	if i := c.index(filter); i >= 0 {
		return mongo.NewSingleResultFromDocument(c.docs[i], nil, nil)
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (c *Collection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, c.Err, nil)
	}

	upsert, after := false, false
	for _, o := range opts {
		if o == nil {
			continue
		}
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
		if o.ReturnDocument != nil {
			after = *o.ReturnDocument == options.After
		}
	}

	ops, _ := update.(bson.M)
	i := c.index(filter)
	if i < 0 {
		if !upsert {
			return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
		}
		doc := bson.M{}
		if f, ok := filter.(bson.M); ok {
			for k, v := range f {
				doc[k] = v
			}
		}
		apply(doc, ops, true)
		doc = withID(normalize(doc))
		if err := c.duplicate(doc); err != nil {
			return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
		}
		c.docs = append(c.docs, doc)
		if !after {
			return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
		}
		return mongo.NewSingleResultFromDocument(doc, nil, nil)
	}

	before := c.docs[i]
	doc := bson.M{}
	for k, v := range before {
		doc[k] = v
	}
	apply(doc, ops, false)
	c.docs[i] = normalize(doc)
	if after {
		return mongo.NewSingleResultFromDocument(c.docs[i], nil, nil)
	}
	return mongo.NewSingleResultFromDocument(before, nil, nil)
}

func (c *Collection) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	doc := withID(normalize(document))
	if err := c.duplicate(doc); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)
	return &mongo.InsertOneResult{InsertedID: doc["_id"]}, nil
}

func (c *Collection) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	i := c.index(filter)
	if i < 0 {
		return &mongo.DeleteResult{}, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func (c *Collection) DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}
	kept := c.docs[:0]
	var n int64
	for _, d := range c.docs {
		if matches(d, filter) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	c.docs = kept
	return &mongo.DeleteResult{DeletedCount: n}, nil
}

func (c *Collection) index(filter interface{}) int {
	for i, d := range c.docs {
		if matches(d, filter) {
			return i
		}
	}
	return -1
}

func (c *Collection) duplicate(doc bson.M) error {
	for field := range c.unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, d := range c.docs {
			if reflect.DeepEqual(d[field], v) {
				return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
					Code:    11000,
					Message: "E11000 duplicate key error dup key: " + field,
				}}}
			}
		}
	}
	return nil
}

// matches supports top-level equality filters only.
func matches(doc bson.M, filter interface{}) bool {
	if filter == nil {
		return true
	}
	f := normalize(filter)
	for k, want := range f {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func apply(doc bson.M, ops bson.M, inserting bool) {
	if inserting {
		if set, ok := ops["$setOnInsert"].(bson.M); ok {
			for k, v := range set {
				doc[k] = v
			}
		}
	}
	if set, ok := ops["$set"].(bson.M); ok {
		for k, v := range set {
			doc[k] = v
		}
	}
	if inc, ok := ops["$inc"].(bson.M); ok {
		for k, v := range inc {
			doc[k] = add(doc[k], v)
		}
	}
}

func add(a, b interface{}) interface{} {
	ai, aInt := toInt(a)
	bi, bInt := toInt(b)
	if aInt && bInt {
		return ai + bi
	}
	return toFloat(a) + toFloat(b)
}

func toInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	}
	i, _ := toInt(v)
	return float64(i)
}

// normalize round-trips v through BSON so stored values have the types the
// driver would decode (ObjectID, DateTime, int32/int64).
func normalize(v interface{}) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		panic(err)
	}
	if m == nil {
		m = bson.M{}
	}
	return m
}

func withID(doc bson.M) bson.M {
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	return doc
}
