package image

import (
	"context"
	"fmt"
)

// Service mediates between the remote media store and local metadata rows.
type Service struct {
	repo  Repository
	store MediaStore
}

// NewService creates a new image service.
func NewService(repo Repository, store MediaStore) *Service {
	return &Service{repo: repo, store: store}
}

// Upload pushes the file to the media store and records the resulting asset
// locally. An absent or empty file fails before any remote call is made.
func (s *Service) Upload(ctx context.Context, file *File) (Image, error) {
	if file == nil || file.Size == 0 {
		return Image{}, fmt.Errorf("%w: file is missing or empty", ErrUpload)
	}

	asset, err := s.store.Upload(ctx, file)
	if err != nil {
		return Image{}, err
	}

	img := Image{
		Name:     file.Name,
		URL:      asset.URL,
		PublicID: asset.PublicID,
	}
	if err := s.repo.Save(ctx, &img); err != nil {
		return Image{}, err
	}
	return img, nil
}

// Delete removes the remote asset first, then the local row. If the remote
// delete fails the local row is kept, since it still describes a live asset.
func (s *Service) Delete(ctx context.Context, img Image) error {
	if err := s.store.Delete(ctx, img.PublicID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, img.ID)
}
