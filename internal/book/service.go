package book

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bookshelf/internal/image"
)

// Service provides catalog business logic, including the coupling between
// book rows and their remotely-hosted cover images.
type Service struct {
	repo   Repository
	images Images
}

// NewService creates a new book service.
func NewService(repo Repository, images Images) *Service {
	return &Service{repo: repo, images: images}
}

func validateDraft(b Book) error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if strings.TrimSpace(b.Author) == "" {
		return fmt.Errorf("%w: author is required", ErrInvalid)
	}
	return nil
}

func validateUpdate(b Book) error {
	if b.ID == 0 {
		return fmt.Errorf("%w: id is required", ErrInvalid)
	}
	if err := validateDraft(b); err != nil {
		return err
	}
	if b.Pages < 0 {
		return fmt.Errorf("%w: pages must be non-negative", ErrInvalid)
	}
	if b.Price < 0 {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalid)
	}
	return nil
}

// Create validates the draft, uploads the cover when one is supplied, and
// persists the book. Upload happens before any persistence, so a failed
// upload leaves no partial state.
func (s *Service) Create(ctx context.Context, draft Book, file *image.File) (Book, error) {
	if err := validateDraft(draft); err != nil {
		return Book{}, err
	}
	draft.ID = 0
	draft.Image = nil

	if file != nil && file.Size > 0 {
		img, err := s.images.Upload(ctx, file)
		if err != nil {
			return Book{}, err
		}
		draft.Image = &img
	}

	if err := s.repo.Create(ctx, &draft); err != nil {
		if draft.Image != nil {
			// The remote asset would be orphaned otherwise. Best effort only.
			if derr := s.images.Delete(ctx, *draft.Image); derr != nil {
				log.Printf("orphaned upload cleanup failed: public_id=%s err=%v", draft.Image.PublicID, derr)
			}
		}
		return Book{}, err
	}
	return draft, nil
}

// Update replaces the mutable bibliographic fields of an existing book.
// The image reference is left untouched.
func (s *Service) Update(ctx context.Context, b Book) (Book, error) {
	if err := validateUpdate(b); err != nil {
		return Book{}, err
	}
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// ReplaceImage uploads the new cover, deletes the previous one once the
// upload has succeeded, and persists the new reference. A failed delete of
// the old asset does not block attachment of the new image; a failed upload
// aborts the whole operation with the old image intact.
func (s *Service) ReplaceImage(ctx context.Context, file *image.File, b Book) (Book, error) {
	img, err := s.images.Upload(ctx, file)
	if err != nil {
		return Book{}, err
	}

	if b.Image != nil {
		if derr := s.images.Delete(ctx, *b.Image); derr != nil {
			log.Printf("old cover delete failed: book_id=%d public_id=%s err=%v", b.ID, b.Image.PublicID, derr)
		}
	}

	if err := s.repo.SetImage(ctx, b.ID, &img.ID); err != nil {
		if derr := s.images.Delete(ctx, img); derr != nil {
			log.Printf("orphaned upload cleanup failed: public_id=%s err=%v", img.PublicID, derr)
		}
		return Book{}, err
	}

	b.Image = &img
	return b, nil
}

// GetByID returns the book with its image reference, or ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of book summaries and the total match count.
func (s *Service) List(ctx context.Context, q Query) ([]Summary, int, error) {
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, q)
}

// Delete removes the book, cascading to its cover image when present. The
// image is cleaned up first; a failed image delete leaves the book in place.
func (s *Service) Delete(ctx context.Context, b Book) error {
	if b.Image != nil {
		if err := s.images.Delete(ctx, *b.Image); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, b.ID)
}
