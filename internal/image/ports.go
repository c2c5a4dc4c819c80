package image

import (
	"context"
)

// Repository defines the contract for image metadata storage.
type Repository interface {
	Save(ctx context.Context, img *Image) error
	Delete(ctx context.Context, id int64) error
}

// MediaStore defines the contract for the remote media host.
type MediaStore interface {
	Upload(ctx context.Context, file *File) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}
