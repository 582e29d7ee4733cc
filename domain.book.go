package main

import (
	"context"
	"errors"
	"time"
)

// Book represents a book record as persisted and served on the wire.
// FormattedPrice is derived from Price on every successful write and
// is never settable by the caller.
type Book struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Author         string    `json:"author"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	FormattedPrice string    `json:"formatted_price"`
	CreatedAt      time.Time `json:"created_at"`
}

// BookInput holds the mutable fields of a book. It is only produced by
// the validation engine once a request body passed the whole rule set,
// so unvalidated data never reaches the service or storage layers.
type BookInput struct {
	Name        string
	Author      string
	Description string
	Price       float64
}

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrDuplicateBookName = errors.New("book name already taken")
)

// BookStorage defines possible operations on book records.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	// FindByName matches a name case-insensitively against stored books,
	// skipping excludeID when non-empty. It returns ErrBookNotFound when
	// no other book carries that name.
	FindByName(ctx context.Context, name string, excludeID string) (Book, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	Delete(ctx context.Context, id string) error
	// GetAll returns every book ordered by creation time, newest first.
	// An empty slice is a valid result, not an error.
	GetAll(ctx context.Context) ([]Book, error)
}
