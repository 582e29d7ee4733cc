package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// BookServiceProvider sequences validation-passed inputs into storage
// outcomes: duplicate guard, existence probe, price derivation, then the
// gateway call. Any failure short-circuits; no step is skipped or reordered.
type BookServiceProvider interface {
	Create(ctx context.Context, input BookInput) (Book, error)
	GetOne(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, id string, input BookInput) (Book, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]Book, error)
}

type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage BookStorage
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		queue:   queue,
	}
}

// guardName reports ErrDuplicateBookName when another book already
// carries the proposed name under case-insensitive comparison.
func (bs *BookService) guardName(ctx context.Context, name string, excludeID string) error {
	_, err := bs.storage.FindByName(ctx, name, excludeID)
	if err == nil {
		return ErrDuplicateBookName
	}
	if !errors.Is(err, ErrBookNotFound) {
		return err
	}
	return nil
}

// Create runs the duplicate guard then persists a new book with a fresh
// identifier, a derived formatted price and the creation timestamp. The
// mirror queue push happens only after the awaited primary write succeeded.
func (bs *BookService) Create(ctx context.Context, input BookInput) (Book, error) {
	if err := bs.guardName(ctx, input.Name, ""); err != nil {
		return Book{}, err
	}

	book := Book{
		ID:             bs.ids.Generate(),
		Name:           input.Name,
		Author:         input.Author,
		Description:    input.Description,
		Price:          input.Price,
		FormattedPrice: FormatPrice(input.Price),
		CreatedAt:      bs.clock.Now(),
	}

	if err := bs.storage.Add(ctx, book.ID, book); err != nil {
		return Book{}, err
	}

	if err := bs.queue.Push(ctx, CreateQueue, book); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", CreateQueue), zap.Error(err))
	}
	return book, nil
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	return book, err
}

// Update replaces the mutable fields of an existing book. The duplicate
// guard excludes the book itself so renaming to its own unchanged name
// never conflicts, and it runs before the existence probe so a rename
// collision is reported even for a missing identifier.
func (bs *BookService) Update(ctx context.Context, id string, input BookInput) (Book, error) {
	if err := bs.guardName(ctx, input.Name, id); err != nil {
		return Book{}, err
	}

	current, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return Book{}, err
	}

	book := Book{
		ID:             current.ID,
		Name:           input.Name,
		Author:         input.Author,
		Description:    input.Description,
		Price:          input.Price,
		FormattedPrice: FormatPrice(input.Price),
		CreatedAt:      current.CreatedAt,
	}

	updated, err := bs.storage.Update(ctx, id, book)
	if err != nil {
		return Book{}, err
	}

	if err := bs.queue.Push(ctx, UpdateQueue, updated); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", UpdateQueue), zap.Error(err))
	}
	return updated, nil
}

// Delete probes for existence first so a missing identifier surfaces as
// ErrBookNotFound; the gateway removal itself is idempotent.
func (bs *BookService) Delete(ctx context.Context, id string) error {
	if _, err := bs.storage.GetOne(ctx, id); err != nil {
		return err
	}

	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}

	if err := bs.queue.Push(ctx, DeleteQueue, Book{ID: id}); err != nil {
		bs.logger.Error("service: failed to push book to queue", zap.String("qid", DeleteQueue), zap.Error(err))
	}
	return nil
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx)
	return books, err
}
