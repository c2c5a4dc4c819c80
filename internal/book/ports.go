package book

import (
	"context"

	"bookshelf/internal/image"
)

// Repository defines the contract for book data storage.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	SetImage(ctx context.Context, bookID int64, imageID *int64) error
	GetByID(ctx context.Context, id int64) (Book, error)
	List(ctx context.Context, q Query) ([]Summary, int, error)
	Delete(ctx context.Context, id int64) error
}

// Images is the slice of the image service the catalog depends on.
type Images interface {
	Upload(ctx context.Context, file *image.File) (image.Image, error)
	Delete(ctx context.Context, img image.Image) error
}
