package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltStore returns a new instance of Store in a temporary path.
func newTestBoltStore() (*boltBookStorage, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.books",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	return &boltBookStorage{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}, err
}

// closeTestBoltStore closes the temporary bolt store and removes the underlying data file.
func (bs *boltBookStorage) closeTestBoltStore() error {
	defer os.Remove(bs.config.FilePath)
	return bs.Close()
}

// Ensure bolt store can insert a new book.
func TestBoltStore_AddBook(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()
	testBookID := "64a1b2c3d4e5f60718293a4b"

	// Create a new book.
	b := Book{ID: testBookID, Name: "Bolt test book name"}
	err = bs.Add(context.TODO(), testBookID, b)
	assert.NoError(t, err)

	// Verify book can be retrieved.
	book, err := bs.GetOne(context.TODO(), testBookID)
	assert.NoError(t, err)
	assert.Equal(t, testBookID, book.ID)
	assert.Equal(t, "Bolt test book name", book.Name)
}

// Ensure bolt store reports a miss for an unknown id.
func TestBoltStore_GetOneMissing(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	_, err = bs.GetOne(context.TODO(), "64a1b2c3d4e5f60718293a4b")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure bolt store matches names case-insensitively and can exclude an id.
func TestBoltStore_FindByName(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	bookID := "64a1b2c3d4e5f60718293a4b"
	err = bs.Add(context.TODO(), bookID, Book{ID: bookID, Name: "Go In Action"})
	require.NoError(t, err)

	found, err := bs.FindByName(context.TODO(), "go in action", "")
	assert.NoError(t, err)
	assert.Equal(t, bookID, found.ID)

	// the book itself is skipped when excluded.
	_, err = bs.FindByName(context.TODO(), "go in action", bookID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = bs.FindByName(context.TODO(), "some other name", "")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure bolt store can replace and remove a book.
func TestBoltStore_UpdateAndDelete(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	bookID := "64a1b2c3d4e5f60718293a4b"
	err = bs.Add(context.TODO(), bookID, Book{ID: bookID, Name: "Before"})
	require.NoError(t, err)

	updated, err := bs.Update(context.TODO(), bookID, Book{ID: bookID, Name: "After"})
	assert.NoError(t, err)
	assert.Equal(t, "After", updated.Name)

	book, err := bs.GetOne(context.TODO(), bookID)
	assert.NoError(t, err)
	assert.Equal(t, "After", book.Name)

	err = bs.Delete(context.TODO(), bookID)
	assert.NoError(t, err)
	_, err = bs.GetOne(context.TODO(), bookID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// Ensure bolt store lists books ordered by creation time descending.
func TestBoltStore_GetAllOrdering(t *testing.T) {
	bs, err := newTestBoltStore()
	require.NoError(t, err, "failed in creating a test bolt store")
	defer bs.closeTestBoltStore()

	base := time.Date(2023, 7, 2, 0, 0, 0, 0, time.UTC)
	oldest := Book{ID: "64a1b2c3d4e5f60718293a4a", Name: "Oldest", CreatedAt: base}
	middle := Book{ID: "64a1b2c3d4e5f60718293a4b", Name: "Middle", CreatedAt: base.Add(time.Hour)}
	newest := Book{ID: "64a1b2c3d4e5f60718293a4c", Name: "Newest", CreatedAt: base.Add(2 * time.Hour)}

	for _, b := range []Book{middle, newest, oldest} {
		require.NoError(t, bs.Add(context.TODO(), b.ID, b))
	}

	books, err := bs.GetAll(context.TODO())
	assert.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Newest", books[0].Name)
	assert.Equal(t, "Middle", books[1].Name)
	assert.Equal(t, "Oldest", books[2].Name)
}
