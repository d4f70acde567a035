package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mingsmenu/database"
	"mingsmenu/database/memdb"
)

type fakeSource struct {
	db    database.Database
	err   error
	calls int
}

func (f *fakeSource) Database(ctx context.Context) (database.Database, error) {
	f.calls++
	return f.db, f.err
}

func TestProviderReusesRepository(t *testing.T) {
	src := &fakeSource{db: memdb.New()}
	get := Provider(src, primitive.NewObjectID())

	first, err := get(context.Background())
	require.NoError(t, err)
	second, err := get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 2, src.calls)
}

func TestProviderCreatesUniqueIndexes(t *testing.T) {
	db := memdb.New()
	_, err := Provider(&fakeSource{db: db}, primitive.NewObjectID())(context.Background())
	require.NoError(t, err)

	users := db.C("users")
	_, err = users.InsertOne(context.Background(), bson.M{"username": "ming"})
	require.NoError(t, err)
	_, err = users.InsertOne(context.Background(), bson.M{"username": "ming"})
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestProviderReturnsConnectionErrors(t *testing.T) {
	src := &fakeSource{err: database.ErrMissingURI}
	get := Provider(src, primitive.NewObjectID())

	repo, err := get(context.Background())
	assert.Nil(t, repo)
	assert.True(t, errors.Is(err, database.ErrMissingURI))
}
