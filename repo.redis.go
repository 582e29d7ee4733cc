package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// HBooks is the hash holding every book record keyed by id.
	HBooks string = "books"
	// ZBooksByCreation is the sorted set used to serve listings ordered
	// by creation time. Scores are created_at unix nanoseconds.
	ZBooksByCreation string = "books:created"
)

type redisBookStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// NewRedisBookStorage provides an instance of redis-based book storage.
func NewRedisBookStorage(logger *zap.Logger, client *redis.Client) BookStorage {
	return &redisBookStorage{
		logger: logger,
		client: client,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Add inserts a new book record and indexes its creation time.
func (rs *redisBookStorage) Add(ctx context.Context, id string, book Book) error {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return err
	}
	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, HBooks, id, bookBytes)
		pipe.ZAdd(ctx, ZBooksByCreation, redis.Z{Score: float64(book.CreatedAt.UnixNano()), Member: id})
		return nil
	})
	return err
}

// GetOne retrieves a book record based on its ID.
func (rs *redisBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	var book Book
	bookJSONString, err := rs.client.HGet(ctx, HBooks, id).Result()
	if err == redis.Nil {
		return book, ErrBookNotFound
	}
	if err != nil {
		return book, err
	}
	err = json.Unmarshal([]byte(bookJSONString), &book)
	return book, err
}

// FindByName scans stored books for a case-insensitive whole-name match,
// skipping excludeID when provided. The scan-then-write pattern is not
// atomic across concurrent requests; the storage keeps no unique index
// on names so two simultaneous writers can both miss each other.
func (rs *redisBookStorage) FindByName(ctx context.Context, name string, excludeID string) (Book, error) {
	mapBooks, err := rs.client.HVals(ctx, HBooks).Result()
	if err != nil {
		return Book{}, err
	}
	for _, bookJSONString := range mapBooks {
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return Book{}, err
		}
		if book.ID != excludeID && strings.EqualFold(book.Name, name) {
			return book, nil
		}
	}
	return Book{}, ErrBookNotFound
}

// Update replaces existing book record data. The creation-time index is
// left untouched since created_at never changes on update.
func (rs *redisBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	bookBytes, err := json.Marshal(book)
	if err != nil {
		return book, err
	}
	err = rs.client.HSet(ctx, HBooks, id, bookBytes).Err()
	return book, err
}

// Delete removes a book record and its creation-time index entry.
// Removing an absent id is not an error at this level.
func (rs *redisBookStorage) Delete(ctx context.Context, id string) error {
	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, HBooks, id)
		pipe.ZRem(ctx, ZBooksByCreation, id)
		return nil
	})
	return err
}

// GetAll retrieves all books ordered by creation time descending.
func (rs *redisBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	ids, err := rs.client.ZRevRange(ctx, ZBooksByCreation, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	books := []Book{}
	if len(ids) == 0 {
		return books, nil
	}
	values, err := rs.client.HMGet(ctx, HBooks, ids...).Result()
	if err != nil {
		return nil, err
	}
	for _, value := range values {
		bookJSONString, ok := value.(string)
		if !ok {
			// index entry without a record, can only happen after a partial delete.
			continue
		}
		var book Book
		if err = json.Unmarshal([]byte(bookJSONString), &book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, nil
}
