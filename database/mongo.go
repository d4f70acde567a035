package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mingsmenu/logger"
)

// ErrMissingURI means no connection string was configured.
var ErrMissingURI = errors.New("MongoDB connection string not provided")

// Collection is the subset of *mongo.Collection the repository uses.
type Collection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Database hands out collections by name.
type Database interface {
	Collection(name string) Collection
	ListCollectionNames(ctx context.Context) ([]string, error)
	CreateCollection(ctx context.Context, name string) error
	CreateUniqueIndex(ctx context.Context, collection, field string) error
}

type mongoDatabase struct {
	db *mongo.Database
}

// Wrap adapts a driver database to Database.
func Wrap(db *mongo.Database) Database {
	return mongoDatabase{db: db}
}

func (m mongoDatabase) Collection(name string) Collection {
	return m.db.Collection(name)
}

func (m mongoDatabase) ListCollectionNames(ctx context.Context) ([]string, error) {
	return m.db.ListCollectionNames(ctx, bson.D{})
}

func (m mongoDatabase) CreateCollection(ctx context.Context, name string) error {
	return m.db.CreateCollection(ctx, name)
}

// CreateUniqueIndex is a no-op when an identical index already exists.
func (m mongoDatabase) CreateUniqueIndex(ctx context.Context, collection, field string) error {
	_, err := m.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Connector opens the client on first use and keeps it for the life of the
// process. A failed attempt is not cached; the next call tries again.
type Connector struct {
	uri     string
	dbName  string
	timeout time.Duration

	mu     sync.Mutex
	client *mongo.Client
	db     Database
}

func NewConnector(uri, dbName string, timeout time.Duration) *Connector {
	return &Connector{uri: uri, dbName: dbName, timeout: timeout}
}

// Database returns the shared handle, connecting if needed.
func (c *Connector) Database(ctx context.Context) (Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if c.uri == "" {
		return nil, ErrMissingURI
	}

	logger.WithCtx(ctx).Info("connecting to MongoDB", "database", c.dbName)

	client, err := Connect(ctx, c.uri, c.timeout)
	if err != nil {
		return nil, err
	}

	c.client = client
	c.db = Wrap(client.Database(c.dbName))
	logger.WithCtx(ctx).Info("MongoDB connected", "database", c.dbName)
	return c.db, nil
}

// Disconnect closes the client if one was opened.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client, c.db = nil, nil
	return err
}

// Connect dials uri and verifies the deployment answers a ping.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
